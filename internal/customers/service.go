package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/tallypos/terminal/pkg/backend"
	"github.com/tallypos/terminal/pkg/logger"
)

type customerLookup interface {
	Customers(ctx context.Context, search string) ([]backend.Customer, error)
}

// Service answers customer lookups for the checkout detour. Failures degrade
// to an empty list so the cashier can always fall back to a walk-in sale.
type Service interface {
	Search(ctx context.Context, term string) ([]backend.Customer, error)
}

type service struct {
	lookup customerLookup
	logger *logger.Logger
}

// NewService builds a customer service over the backend endpoint.
func NewService(lookup customerLookup, logg *logger.Logger) (Service, error) {
	if lookup == nil {
		return nil, fmt.Errorf("customer lookup required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{lookup: lookup, logger: logg}, nil
}

// Search lists customers matching the term; an empty term lists everyone.
func (s *service) Search(ctx context.Context, term string) ([]backend.Customer, error) {
	customers, err := s.lookup.Customers(ctx, strings.TrimSpace(term))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn(ctx, "customer search failed: "+err.Error())
		return []backend.Customer{}, nil
	}
	if customers == nil {
		customers = []backend.Customer{}
	}
	return customers, nil
}
