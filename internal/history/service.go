package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/tallypos/terminal/pkg/backend"
	"github.com/tallypos/terminal/pkg/enums"
	pkgerrors "github.com/tallypos/terminal/pkg/errors"
	"github.com/tallypos/terminal/pkg/logger"
)

type transactionLookup interface {
	Transactions(ctx context.Context, params backend.TransactionListParams) ([]backend.Transaction, error)
	TransactionByCode(ctx context.Context, code string) (*backend.Transaction, error)
}

// Service lists past sales for the history page and resolves single
// transactions for reprints. Unlike the live lookups this surface does not
// degrade; the page shows the failure instead.
type Service interface {
	List(ctx context.Context, params backend.TransactionListParams) ([]backend.Transaction, error)
	ByCode(ctx context.Context, code string) (*backend.Transaction, error)
}

type service struct {
	lookup transactionLookup
	logger *logger.Logger
}

// NewService builds the history service over the backend endpoints.
func NewService(lookup transactionLookup, logg *logger.Logger) (Service, error) {
	if lookup == nil {
		return nil, fmt.Errorf("transaction lookup required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{lookup: lookup, logger: logg}, nil
}

// List returns past transactions, newest first per the backend ordering.
func (s *service) List(ctx context.Context, params backend.TransactionListParams) ([]backend.Transaction, error) {
	if params.Status != "" && !enums.TransactionStatus(params.Status).IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown transaction status").
			WithDetails(map[string]any{"status": params.Status})
	}
	transactions, err := s.lookup.Transactions(ctx, params)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []backend.Transaction{}
	}
	return transactions, nil
}

// ByCode resolves one transaction for a reprint.
func (s *service) ByCode(ctx context.Context, code string) (*backend.Transaction, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction code is required")
	}
	return s.lookup.TransactionByCode(ctx, code)
}
