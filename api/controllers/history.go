package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallypos/terminal/api/responses"
	"github.com/tallypos/terminal/api/validators"
	"github.com/tallypos/terminal/internal/history"
	"github.com/tallypos/terminal/pkg/backend"
	"github.com/tallypos/terminal/pkg/logger"
)

// HistoryList lists past transactions with the backend's filters.
func HistoryList(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := backend.TransactionListParams{
			StartDate: validators.SanitizeString(r.URL.Query().Get("startDate"), 32),
			EndDate:   validators.SanitizeString(r.URL.Query().Get("endDate"), 32),
			UserID:    validators.SanitizeString(r.URL.Query().Get("userId"), 64),
			Status:    validators.SanitizeString(r.URL.Query().Get("status"), 32),
		}

		transactions, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, transactions)
	}
}

// HistoryByCode resolves one past transaction.
func HistoryByCode(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tx, err := svc.ByCode(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tx)
	}
}
