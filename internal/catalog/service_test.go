package catalog

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallypos/terminal/pkg/backend"
	pkgerrors "github.com/tallypos/terminal/pkg/errors"
	"github.com/tallypos/terminal/pkg/logger"
)

type fakeLookup struct {
	mu          sync.Mutex
	byBarcode   map[string]backend.Product
	searchHits  map[string][]backend.Product
	active      []backend.Product
	searchErr   error
	barcodeErr  error
	searchCalls []string
	searchDelay time.Duration
}

func (f *fakeLookup) ActiveProducts(ctx context.Context) ([]backend.Product, error) {
	return f.active, nil
}

func (f *fakeLookup) SearchProducts(ctx context.Context, term string, activeOnly bool) ([]backend.Product, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, term)
	delay := f.searchDelay
	f.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchHits[term], nil
}

func (f *fakeLookup) ProductByBarcode(ctx context.Context, barcode string) (*backend.Product, error) {
	if f.barcodeErr != nil {
		return nil, f.barcodeErr
	}
	if product, ok := f.byBarcode[barcode]; ok {
		return &product, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (f *fakeLookup) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.searchCalls))
	copy(out, f.searchCalls)
	return out
}

func namedProduct(id, name string) backend.Product {
	return backend.Product{
		ID:           id,
		Name:         name,
		Barcode:      "899" + id,
		SellingPrice: decimal.NewFromInt(10000),
		Stock:        5,
		IsActive:     true,
	}
}

func newCatalog(t *testing.T, lookup *fakeLookup) Service {
	t.Helper()
	svc, err := NewService(lookup, nil, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return svc
}

func TestScanBarcodeShortCircuits(t *testing.T) {
	lookup := &fakeLookup{
		byBarcode: map[string]backend.Product{"8991001": namedProduct("a", "Kopi Susu")},
	}
	svc := newCatalog(t, lookup)

	result, err := svc.Scan(context.Background(), "8991001")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if result.Match == nil || result.Match.ID != "a" {
		t.Fatalf("expected single barcode match, got %+v", result)
	}
	if len(lookup.calls()) != 0 {
		t.Fatalf("text search issued despite barcode hit")
	}
}

func TestScanSingleTextMatchShortCircuits(t *testing.T) {
	lookup := &fakeLookup{
		searchHits: map[string][]backend.Product{"kopi": {namedProduct("a", "Kopi Susu")}},
	}
	svc := newCatalog(t, lookup)

	result, err := svc.Scan(context.Background(), "kopi")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if result.Match == nil || result.Match.Name != "Kopi Susu" {
		t.Fatalf("expected single text match, got %+v", result)
	}
}

func TestScanManyMatchesReturnsList(t *testing.T) {
	lookup := &fakeLookup{
		searchHits: map[string][]backend.Product{
			"teh": {namedProduct("a", "Teh Botol"), namedProduct("b", "Teh Tarik")},
		},
	}
	svc := newCatalog(t, lookup)

	result, err := svc.Scan(context.Background(), "teh")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if result.Match != nil {
		t.Fatalf("unexpected single match for ambiguous term")
	}
	if len(result.Products) != 2 {
		t.Fatalf("products = %d, want 2", len(result.Products))
	}
}

func TestScanEmptyTermRejected(t *testing.T) {
	svc := newCatalog(t, &fakeLookup{})
	_, err := svc.Scan(context.Background(), "   ")
	if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestSearchDegradesToEmptyOnFailure(t *testing.T) {
	lookup := &fakeLookup{searchErr: pkgerrors.New(pkgerrors.CodeRemoteUnreachable, "down")}
	svc := newCatalog(t, lookup)

	products, err := svc.Search(context.Background(), "kopi")
	if err != nil {
		t.Fatalf("search must degrade, got error %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected empty result set, got %d", len(products))
	}
}

func TestSearcherDebouncesToLastTerm(t *testing.T) {
	lookup := &fakeLookup{
		searchHits: map[string][]backend.Product{"kopi": {namedProduct("a", "Kopi Susu")}},
	}
	searcher := NewSearcher(newCatalog(t, lookup), 30*time.Millisecond)
	defer searcher.Close()

	searcher.Query("k")
	searcher.Query("ko")
	searcher.Query("kop")
	want := searcher.Query("kopi")

	select {
	case update := <-searcher.Updates():
		if update.Seq != want {
			t.Fatalf("delivered seq %d, want %d", update.Seq, want)
		}
		if update.Term != "kopi" || len(update.Products) != 1 {
			t.Fatalf("unexpected update: %+v", update)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no update delivered")
	}

	calls := lookup.calls()
	if len(calls) != 1 || calls[0] != "kopi" {
		t.Fatalf("search calls = %v, want only the settled term", calls)
	}
}

func TestSearcherDiscardsStaleResults(t *testing.T) {
	lookup := &fakeLookup{
		searchHits: map[string][]backend.Product{
			"teh":  {namedProduct("a", "Teh Botol")},
			"kopi": {namedProduct("b", "Kopi Susu")},
		},
		searchDelay: 40 * time.Millisecond,
	}
	searcher := NewSearcher(newCatalog(t, lookup), 5*time.Millisecond)
	defer searcher.Close()

	searcher.Query("teh")
	time.Sleep(15 * time.Millisecond)
	want := searcher.Query("kopi")

	select {
	case update := <-searcher.Updates():
		if update.Seq != want || update.Term != "kopi" {
			t.Fatalf("stale update delivered: %+v", update)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no update delivered")
	}

	select {
	case update := <-searcher.Updates():
		t.Fatalf("extra update delivered: %+v", update)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSearcherAwaitResolvesSupersededQueries(t *testing.T) {
	lookup := &fakeLookup{
		searchHits: map[string][]backend.Product{"kopi": {namedProduct("a", "Kopi Susu")}},
	}
	searcher := NewSearcher(newCatalog(t, lookup), 10*time.Millisecond)
	defer searcher.Close()

	first := searcher.Query("k")
	searcher.Query("ko")
	last := searcher.Query("kopi")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	update, err := searcher.Await(ctx, first)
	if err != nil {
		t.Fatalf("await superseded query: %v", err)
	}
	if update.Seq != last || update.Term != "kopi" {
		t.Fatalf("superseded query resolved with %+v, want the settled term", update)
	}

	update, err = searcher.Await(ctx, last)
	if err != nil {
		t.Fatalf("await settled query: %v", err)
	}
	if update.Seq != last || len(update.Products) != 1 {
		t.Fatalf("unexpected update: %+v", update)
	}

	if calls := lookup.calls(); len(calls) != 1 || calls[0] != "kopi" {
		t.Fatalf("search calls = %v, want only the settled term", calls)
	}
}

func TestSearcherAwaitAfterClose(t *testing.T) {
	searcher := NewSearcher(newCatalog(t, &fakeLookup{}), 10*time.Millisecond)
	seq := searcher.Query("kopi")
	searcher.Close()

	_, err := searcher.Await(context.Background(), seq)
	if !pkgerrors.Is(err, pkgerrors.CodeInvalidState) {
		t.Fatalf("expected INVALID_STATE after close, got %v", err)
	}
}

func TestSearcherCloseStopsPendingWork(t *testing.T) {
	lookup := &fakeLookup{
		searchHits: map[string][]backend.Product{"kopi": {namedProduct("a", "Kopi Susu")}},
	}
	searcher := NewSearcher(newCatalog(t, lookup), 20*time.Millisecond)

	searcher.Query("kopi")
	searcher.Close()

	select {
	case update := <-searcher.Updates():
		t.Fatalf("update delivered after close: %+v", update)
	case <-time.After(100 * time.Millisecond):
	}
}
