package customers

import (
	"context"
	"io"
	"testing"

	"github.com/tallypos/terminal/pkg/backend"
	pkgerrors "github.com/tallypos/terminal/pkg/errors"
	"github.com/tallypos/terminal/pkg/logger"
)

type fakeLookup struct {
	customers []backend.Customer
	err       error
	lastTerm  string
}

func (f *fakeLookup) Customers(ctx context.Context, search string) ([]backend.Customer, error) {
	f.lastTerm = search
	if f.err != nil {
		return nil, f.err
	}
	return f.customers, nil
}

func newCustomers(t *testing.T, lookup *fakeLookup) Service {
	t.Helper()
	svc, err := NewService(lookup, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("new customers: %v", err)
	}
	return svc
}

func TestSearchTrimsTerm(t *testing.T) {
	lookup := &fakeLookup{customers: []backend.Customer{{ID: "c1", Name: "Budi Santoso"}}}
	svc := newCustomers(t, lookup)

	customers, err := svc.Search(context.Background(), "  budi ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if lookup.lastTerm != "budi" {
		t.Fatalf("term = %q, want trimmed", lookup.lastTerm)
	}
	if len(customers) != 1 {
		t.Fatalf("customers = %d, want 1", len(customers))
	}
}

func TestSearchDegradesToEmptyOnFailure(t *testing.T) {
	lookup := &fakeLookup{err: pkgerrors.New(pkgerrors.CodeRemoteUnreachable, "down")}
	svc := newCustomers(t, lookup)

	customers, err := svc.Search(context.Background(), "budi")
	if err != nil {
		t.Fatalf("search must degrade, got %v", err)
	}
	if len(customers) != 0 {
		t.Fatalf("expected empty list, got %d", len(customers))
	}
}

func TestSearchNeverReturnsNilSlice(t *testing.T) {
	svc := newCustomers(t, &fakeLookup{})
	customers, err := svc.Search(context.Background(), "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if customers == nil {
		t.Fatalf("nil slice returned")
	}
}
