package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallypos/terminal/api/responses"
	"github.com/tallypos/terminal/api/validators"
	"github.com/tallypos/terminal/internal/cart"
	"github.com/tallypos/terminal/pkg/backend"
	pkgerrors "github.com/tallypos/terminal/pkg/errors"
	"github.com/tallypos/terminal/pkg/logger"
	"github.com/tallypos/terminal/pkg/money"
)

type productFetcher interface {
	Product(ctx context.Context, id string) (*backend.Product, error)
}

type addLineRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

type setDiscountRequest struct {
	Discount string `json:"discount" validate:"required"`
}

type setCustomerRequest struct {
	Customer *backend.Customer `json:"customer"`
}

// CartGet returns the live cart snapshot.
func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Snapshot())
	}
}

// CartAddLine resolves the product against the backend and adds it, or
// increments an existing line.
func CartAddLine(svc cart.Service, products productFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addLineRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.Product(r.Context(), body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.AddLine(*product, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartSetQuantity replaces a line's quantity; zero removes the line.
func CartSetQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body setQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.SetQuantity(chi.URLParam(r, "productID"), *body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartSetDiscount sets the absolute rupiah discount on a line.
func CartSetDiscount(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body setDiscountRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, err := money.ParseAmount(body.Discount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "discount must be a decimal amount"))
			return
		}

		snap, err := svc.SetLineDiscount(chi.URLParam(r, "productID"), amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartRemoveLine drops a line. Unknown products are removed silently so
// the operation stays idempotent for double-taps on the UI.
func CartRemoveLine(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.RemoveLine(chi.URLParam(r, "productID")))
	}
}

// CartClear empties the cart.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Clear())
	}
}

// CartSetCustomer attaches the selected customer; a null customer marks the
// sale as walk-in.
func CartSetCustomer(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body setCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.Customer != nil && body.Customer.ID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "customer id is required"))
			return
		}
		responses.WriteSuccess(w, svc.SetCustomer(body.Customer))
	}
}
