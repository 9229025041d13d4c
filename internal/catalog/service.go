package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tallypos/terminal/pkg/backend"
	pkgerrors "github.com/tallypos/terminal/pkg/errors"
	"github.com/tallypos/terminal/pkg/logger"
	"github.com/tallypos/terminal/pkg/metrics"
)

type productLookup interface {
	ActiveProducts(ctx context.Context) ([]backend.Product, error)
	SearchProducts(ctx context.Context, term string, activeOnly bool) ([]backend.Product, error)
	ProductByBarcode(ctx context.Context, barcode string) (*backend.Product, error)
}

// Service answers the cashier's product lookups. Lookup failures degrade to
// empty result sets so a flaky backend never blocks the scan field.
type Service interface {
	Scan(ctx context.Context, term string) (ScanResult, error)
	Search(ctx context.Context, term string) ([]backend.Product, error)
	Active(ctx context.Context) ([]backend.Product, error)
}

// ScanResult is the outcome of a scan-field entry. Exactly one of Match or
// Products is meaningful: a single match means add-to-cart, a list means the
// cashier picks.
type ScanResult struct {
	Match    *backend.Product  `json:"match"`
	Products []backend.Product `json:"products"`
}

type service struct {
	lookup  productLookup
	metrics *metrics.TerminalMetrics
	logger  *logger.Logger
}

// NewService builds a catalog service over the backend product endpoints.
func NewService(lookup productLookup, terminalMetrics *metrics.TerminalMetrics, logg *logger.Logger) (Service, error) {
	if lookup == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{lookup: lookup, metrics: terminalMetrics, logger: logg}, nil
}

// Scan resolves a scan-field entry. An exact barcode hit short-circuits to a
// single product; otherwise the term falls through to free-text search, where
// a single hit also short-circuits.
func (s *service) Scan(ctx context.Context, term string) (ScanResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return ScanResult{}, pkgerrors.New(pkgerrors.CodeValidation, "scan term is required")
	}

	product, err := s.lookup.ProductByBarcode(ctx, term)
	if err == nil && product != nil {
		return ScanResult{Match: product}, nil
	}
	if err != nil && !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		s.logger.Warn(ctx, "barcode lookup failed: "+err.Error())
	}

	products, err := s.Search(ctx, term)
	if err != nil {
		return ScanResult{}, err
	}
	if len(products) == 1 {
		match := products[0]
		return ScanResult{Match: &match}, nil
	}
	return ScanResult{Products: products}, nil
}

// Search runs a free-text product search. Backend failures are logged and
// reported as an empty list.
func (s *service) Search(ctx context.Context, term string) ([]backend.Product, error) {
	start := time.Now()
	products, err := s.lookup.SearchProducts(ctx, strings.TrimSpace(term), true)
	s.metrics.ObserveSearchDuration(time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn(ctx, "product search failed: "+err.Error())
		return []backend.Product{}, nil
	}
	if products == nil {
		products = []backend.Product{}
	}
	return products, nil
}

// Active lists the sellable catalog for the product grid.
func (s *service) Active(ctx context.Context) ([]backend.Product, error) {
	products, err := s.lookup.ActiveProducts(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn(ctx, "active product listing failed: "+err.Error())
		return []backend.Product{}, nil
	}
	if products == nil {
		products = []backend.Product{}
	}
	return products, nil
}
