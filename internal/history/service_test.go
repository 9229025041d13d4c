package history

import (
	"context"
	"io"
	"testing"

	"github.com/tallypos/terminal/pkg/backend"
	pkgerrors "github.com/tallypos/terminal/pkg/errors"
	"github.com/tallypos/terminal/pkg/logger"
)

type fakeLookup struct {
	transactions []backend.Transaction
	byCode       map[string]backend.Transaction
	err          error
	lastParams   backend.TransactionListParams
}

func (f *fakeLookup) Transactions(ctx context.Context, params backend.TransactionListParams) ([]backend.Transaction, error) {
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return f.transactions, nil
}

func (f *fakeLookup) TransactionByCode(ctx context.Context, code string) (*backend.Transaction, error) {
	if tx, ok := f.byCode[code]; ok {
		return &tx, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
}

func newHistory(t *testing.T, lookup *fakeLookup) Service {
	t.Helper()
	svc, err := NewService(lookup, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("new history: %v", err)
	}
	return svc
}

func TestListPassesFilters(t *testing.T) {
	lookup := &fakeLookup{transactions: []backend.Transaction{{ID: "tx-1"}}}
	svc := newHistory(t, lookup)

	params := backend.TransactionListParams{
		StartDate: "2026-08-01",
		EndDate:   "2026-08-31",
		Status:    "completed",
	}
	transactions, err := svc.List(context.Background(), params)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("transactions = %d, want 1", len(transactions))
	}
	if lookup.lastParams != params {
		t.Fatalf("params not forwarded: %+v", lookup.lastParams)
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc := newHistory(t, &fakeLookup{})
	_, err := svc.List(context.Background(), backend.TransactionListParams{Status: "pending"})
	if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestListSurfacesBackendFailure(t *testing.T) {
	lookup := &fakeLookup{err: pkgerrors.New(pkgerrors.CodeRemoteUnreachable, "down")}
	svc := newHistory(t, lookup)

	_, err := svc.List(context.Background(), backend.TransactionListParams{})
	if !pkgerrors.Is(err, pkgerrors.CodeRemoteUnreachable) {
		t.Fatalf("expected REMOTE_UNREACHABLE, got %v", err)
	}
}

func TestByCode(t *testing.T) {
	lookup := &fakeLookup{byCode: map[string]backend.Transaction{
		"TRX-20260831-0001": {ID: "tx-1", TransactionCode: "TRX-20260831-0001"},
	}}
	svc := newHistory(t, lookup)

	tx, err := svc.ByCode(context.Background(), " TRX-20260831-0001 ")
	if err != nil {
		t.Fatalf("by code: %v", err)
	}
	if tx.ID != "tx-1" {
		t.Fatalf("tx = %+v", tx)
	}

	if _, err := svc.ByCode(context.Background(), ""); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for empty code, got %v", err)
	}
	if _, err := svc.ByCode(context.Background(), "TRX-x"); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
