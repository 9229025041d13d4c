package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tallypos/terminal/api/responses"
	"github.com/tallypos/terminal/api/validators"
	"github.com/tallypos/terminal/internal/checkout"
	"github.com/tallypos/terminal/internal/history"
	"github.com/tallypos/terminal/internal/receipt"
	pkgerrors "github.com/tallypos/terminal/pkg/errors"
	"github.com/tallypos/terminal/pkg/localstore"
	"github.com/tallypos/terminal/pkg/logger"
	"github.com/tallypos/terminal/pkg/metrics"
)

type receiptArchive interface {
	SaveReceipt(ctx context.Context, code, body string, printedAt time.Time) error
	ReceiptByCode(ctx context.Context, code string) (*localstore.ReceiptArchive, error)
	RecentReceipts(ctx context.Context, limit int) ([]localstore.ReceiptArchive, error)
}

type receiptResponse struct {
	TransactionCode string `json:"transactionCode"`
	Body            string `json:"body"`
}

// ReceiptLast renders the receipt for the most recent confirmed sale and
// archives it locally for reprints.
func ReceiptLast(svc checkout.Service, formatter *receipt.Formatter, archive receiptArchive, terminalMetrics *metrics.TerminalMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := svc.LastResult()
		if result == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeNotFound, "no completed sale to print"))
			return
		}

		body := formatter.Render(result.Transaction)
		code := result.Transaction.TransactionCode
		if err := archive.SaveReceipt(r.Context(), code, body, time.Now()); err != nil {
			logg.Warn(r.Context(), "receipt not archived: "+err.Error())
		}
		terminalMetrics.IncReceiptPrinted()

		responses.WriteSuccess(w, receiptResponse{TransactionCode: code, Body: body})
	}
}

// ReceiptByCode reprints a past transaction. Archived receipts are served
// as stored, so a reprint works while the backend is unreachable; unarchived
// codes are fetched and re-rendered.
func ReceiptByCode(svc history.Service, formatter *receipt.Formatter, archive receiptArchive, terminalMetrics *metrics.TerminalMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if stored, err := archive.ReceiptByCode(r.Context(), code); err == nil {
			terminalMetrics.IncReceiptPrinted()
			responses.WriteSuccess(w, receiptResponse{TransactionCode: stored.TransactionCode, Body: stored.Body})
			return
		}

		tx, err := svc.ByCode(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		body := formatter.Render(*tx)
		if err := archive.SaveReceipt(r.Context(), tx.TransactionCode, body, time.Now()); err != nil {
			logg.Warn(r.Context(), "receipt not archived: "+err.Error())
		}
		terminalMetrics.IncReceiptPrinted()

		responses.WriteSuccess(w, receiptResponse{TransactionCode: tx.TransactionCode, Body: body})
	}
}

// ReceiptsRecent lists the locally archived receipts, newest first.
func ReceiptsRecent(archive receiptArchive, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipts, err := archive.RecentReceipts(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, receipts)
	}
}
