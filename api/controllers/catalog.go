package controllers

import (
	"net/http"

	"github.com/tallypos/terminal/api/responses"
	"github.com/tallypos/terminal/api/validators"
	"github.com/tallypos/terminal/internal/catalog"
	"github.com/tallypos/terminal/pkg/logger"
)

type scanRequest struct {
	Term string `json:"term" validate:"required,min=1,max=128"`
}

// CatalogScan resolves a scan-field entry to a single product or a pick
// list. A single match is the barcode-scanner fast path.
func CatalogScan(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body scanRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Scan(r.Context(), body.Term)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CatalogSearch runs a free-text product search for the grid.
func CatalogSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := validators.SanitizeString(r.URL.Query().Get("search"), 128)
		products, err := svc.Search(r.Context(), term)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// CatalogLiveSearch feeds one keystroke of the search box into the debounced
// searcher and answers with the result set that ends up winning. Rapid calls
// within the quiet period collapse into a single upstream search, and every
// caller receives the results of the last term typed.
func CatalogLiveSearch(searcher *catalog.Searcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := validators.SanitizeString(r.URL.Query().Get("search"), 128)
		seq := searcher.Query(term)
		update, err := searcher.Await(r.Context(), seq)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, update)
	}
}

// CatalogActive lists the sellable catalog.
func CatalogActive(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.Active(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}
