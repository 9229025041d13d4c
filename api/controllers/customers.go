package controllers

import (
	"net/http"

	"github.com/tallypos/terminal/api/responses"
	"github.com/tallypos/terminal/api/validators"
	"github.com/tallypos/terminal/internal/customers"
	"github.com/tallypos/terminal/pkg/logger"
)

// CustomersSearch lists customers for the checkout detour.
func CustomersSearch(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := validators.SanitizeString(r.URL.Query().Get("search"), 128)
		found, err := svc.Search(r.Context(), term)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}
