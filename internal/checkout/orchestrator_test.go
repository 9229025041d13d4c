package checkout

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallypos/terminal/internal/cart"
	"github.com/tallypos/terminal/pkg/backend"
	"github.com/tallypos/terminal/pkg/enums"
	pkgerrors "github.com/tallypos/terminal/pkg/errors"
	"github.com/tallypos/terminal/pkg/logger"
)

type stubSubmitter struct {
	mu      sync.Mutex
	calls   int
	lastReq backend.CreateTransactionRequest
	resp    *backend.Transaction
	err     error
	delay   time.Duration
	started chan struct{}
	release chan struct{}
}

func (s *stubSubmitter) CreateTransaction(ctx context.Context, req backend.CreateTransactionRequest) (*backend.Transaction, error) {
	s.mu.Lock()
	s.calls++
	s.lastReq = req
	s.mu.Unlock()
	if s.started != nil {
		close(s.started)
		s.started = nil
	}
	if s.release != nil {
		<-s.release
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func (s *stubSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func confirmedTransaction() *backend.Transaction {
	return &backend.Transaction{
		ID:              "tx-1",
		TransactionCode: "TRX-20260831-0001",
		Subtotal:        decimal.NewFromInt(45000),
		DiscountAmount:  decimal.NewFromInt(5000),
		TotalAmount:     decimal.NewFromInt(40000),
		PaymentMethod:   enums.PaymentMethodCash,
		PaymentAmount:   decimal.NewFromInt(50000),
		ChangeAmount:    decimal.NewFromInt(10000),
		Status:          enums.TransactionStatusCompleted,
	}
}

func seededCart(t *testing.T) cart.Service {
	t.Helper()
	svc := cart.NewService()
	product := backend.Product{
		ID:           "a",
		Name:         "Kopi Susu",
		SellingPrice: decimal.NewFromInt(10000),
		Stock:        5,
		Unit:         "pcs",
		IsActive:     true,
	}
	if _, err := svc.AddLine(product, 4); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	return svc
}

func newOrchestrator(t *testing.T, cartSvc cart.Service, remote *stubSubmitter) Service {
	t.Helper()
	svc, err := NewService(cartSvc, remote, nil, testLogger())
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	return svc
}

func TestBeginRequiresNonEmptyCart(t *testing.T) {
	svc := newOrchestrator(t, cart.NewService(), &stubSubmitter{})
	_, err := svc.Begin()
	if !pkgerrors.Is(err, pkgerrors.CodeEmptyCart) {
		t.Fatalf("expected EMPTY_CART, got %v", err)
	}
}

func TestBeginDefaultsTenderedToDue(t *testing.T) {
	svc := newOrchestrator(t, seededCart(t), &stubSubmitter{})
	view, err := svc.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if view.State != enums.CheckoutStateAwaitingPayment {
		t.Fatalf("state = %s, want awaiting_payment", view.State)
	}
	if got := view.AmountDue.String(); got != "40000" {
		t.Fatalf("amount due = %s, want 40000", got)
	}
	if !view.Tendered.Equal(view.AmountDue) {
		t.Fatalf("tendered %s not defaulted to due %s", view.Tendered, view.AmountDue)
	}
	if view.PaymentMethod != enums.PaymentMethodCash {
		t.Fatalf("payment method = %s, want cash", view.PaymentMethod)
	}
}

func TestPaymentEntryGuards(t *testing.T) {
	svc := newOrchestrator(t, seededCart(t), &stubSubmitter{})

	if _, err := svc.SetTendered(decimal.NewFromInt(50000)); !pkgerrors.Is(err, pkgerrors.CodeInvalidState) {
		t.Fatalf("tendered before begin: expected INVALID_STATE, got %v", err)
	}
	if _, err := svc.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := svc.SetPaymentMethod("voucher"); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("unknown method: expected VALIDATION_ERROR, got %v", err)
	}
	if _, err := svc.SetTendered(decimal.NewFromInt(-1)); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("negative tendered: expected VALIDATION_ERROR, got %v", err)
	}
}

func TestNonCashPinsTenderedToDue(t *testing.T) {
	svc := newOrchestrator(t, seededCart(t), &stubSubmitter{})
	if _, err := svc.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := svc.SetTendered(decimal.NewFromInt(100000)); err != nil {
		t.Fatalf("set tendered: %v", err)
	}
	view, err := svc.SetPaymentMethod(enums.PaymentMethodQRIS)
	if err != nil {
		t.Fatalf("set method: %v", err)
	}
	if !view.Tendered.Equal(view.AmountDue) {
		t.Fatalf("tendered %s not pinned to due %s", view.Tendered, view.AmountDue)
	}
	if !view.Change.IsZero() {
		t.Fatalf("change = %s, want 0", view.Change)
	}
}

func TestSubmitRejectsShortPayment(t *testing.T) {
	remote := &stubSubmitter{resp: confirmedTransaction()}
	svc := newOrchestrator(t, seededCart(t), remote)
	if _, err := svc.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := svc.SetTendered(decimal.NewFromInt(39999)); err != nil {
		t.Fatalf("set tendered: %v", err)
	}

	_, err := svc.Submit(context.Background())
	if !pkgerrors.Is(err, pkgerrors.CodeInsufficientPayment) {
		t.Fatalf("expected INSUFFICIENT_PAYMENT, got %v", err)
	}
	if remote.callCount() != 0 {
		t.Fatalf("backend called %d times for short payment", remote.callCount())
	}
	if svc.Current().State != enums.CheckoutStateAwaitingPayment {
		t.Fatalf("state = %s, want awaiting_payment", svc.Current().State)
	}
}

func TestSubmitSuccessClearsCartAndRetainsResult(t *testing.T) {
	remote := &stubSubmitter{resp: confirmedTransaction()}
	cartSvc := seededCart(t)
	svc := newOrchestrator(t, cartSvc, remote)
	if _, err := svc.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := svc.SetTendered(decimal.NewFromInt(50000)); err != nil {
		t.Fatalf("set tendered: %v", err)
	}

	result, err := svc.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Transaction.TransactionCode != "TRX-20260831-0001" {
		t.Fatalf("transaction code = %s", result.Transaction.TransactionCode)
	}
	if !cartSvc.Snapshot().Empty() {
		t.Fatalf("cart not cleared after confirmed submission")
	}
	if svc.Current().State != enums.CheckoutStateCompleted {
		t.Fatalf("state = %s, want completed", svc.Current().State)
	}
	if svc.LastResult() == nil || svc.LastResult().Transaction.ID != "tx-1" {
		t.Fatalf("last result not retained")
	}

	req := remote.lastReq
	if len(req.Items) != 1 || req.Items[0].Quantity != 4 {
		t.Fatalf("unexpected request items: %+v", req.Items)
	}
	if got := req.PaymentAmount.String(); got != "50000" {
		t.Fatalf("payment amount = %s, want 50000", got)
	}
}

func TestSubmitFailureKeepsCartAndReturnsToPayment(t *testing.T) {
	remote := &stubSubmitter{err: pkgerrors.New(pkgerrors.CodeRemoteUnreachable, "backend is unreachable")}
	cartSvc := seededCart(t)
	svc := newOrchestrator(t, cartSvc, remote)
	if _, err := svc.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}

	_, err := svc.Submit(context.Background())
	if !pkgerrors.Is(err, pkgerrors.CodeRemoteUnreachable) {
		t.Fatalf("expected REMOTE_UNREACHABLE, got %v", err)
	}
	if cartSvc.Snapshot().Empty() {
		t.Fatalf("cart cleared despite failed submission")
	}
	if svc.Current().State != enums.CheckoutStateAwaitingPayment {
		t.Fatalf("state = %s, want awaiting_payment", svc.Current().State)
	}
	if remote.callCount() != 1 {
		t.Fatalf("backend called %d times, want 1 (no auto-retry)", remote.callCount())
	}
}

func TestConcurrentSubmitSecondCallRejected(t *testing.T) {
	remote := &stubSubmitter{
		resp:    confirmedTransaction(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newOrchestrator(t, seededCart(t), remote)
	if _, err := svc.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background())
		firstErr <- err
	}()

	<-remote.started
	_, err := svc.Submit(context.Background())
	if !pkgerrors.Is(err, pkgerrors.CodeAlreadySubmitting) {
		t.Fatalf("expected ALREADY_SUBMITTING, got %v", err)
	}
	close(remote.release)

	if err := <-firstErr; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if remote.callCount() != 1 {
		t.Fatalf("backend called %d times, want 1", remote.callCount())
	}
}

func TestChange(t *testing.T) {
	svc := newOrchestrator(t, seededCart(t), &stubSubmitter{})
	if !svc.Change().IsZero() {
		t.Fatalf("change before begin = %s, want 0", svc.Change())
	}
	if _, err := svc.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := svc.SetTendered(decimal.NewFromInt(50000)); err != nil {
		t.Fatalf("set tendered: %v", err)
	}
	if got := svc.Change().String(); got != "10000" {
		t.Fatalf("change = %s, want 10000", got)
	}
}

func TestCancelReturnsToBuildingAndLeavesCartUntouched(t *testing.T) {
	cartSvc := seededCart(t)
	svc := newOrchestrator(t, cartSvc, &stubSubmitter{})
	if _, err := svc.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}

	view, err := svc.Cancel()
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if view.State != enums.CheckoutStateBuilding {
		t.Fatalf("state = %s, want building", view.State)
	}
	if cartSvc.Snapshot().Empty() {
		t.Fatalf("cancel must not clear the cart")
	}

	// The customer detour must be reachable straight after a cancel.
	if _, err := svc.SelectCustomer(); err != nil {
		t.Fatalf("select customer after cancel: %v", err)
	}
	if _, err := svc.LeaveCustomer(); err != nil {
		t.Fatalf("leave customer: %v", err)
	}
	if _, err := svc.Begin(); err != nil {
		t.Fatalf("begin after cancel: %v", err)
	}
}

func TestCustomerDetour(t *testing.T) {
	svc := newOrchestrator(t, seededCart(t), &stubSubmitter{})

	view, err := svc.SelectCustomer()
	if err != nil {
		t.Fatalf("select customer: %v", err)
	}
	if view.State != enums.CheckoutStateAwaitingCustomer {
		t.Fatalf("state = %s, want awaiting_customer", view.State)
	}
	if _, err := svc.Begin(); !pkgerrors.Is(err, pkgerrors.CodeInvalidState) {
		t.Fatalf("begin during detour: expected INVALID_STATE, got %v", err)
	}
	view, err = svc.LeaveCustomer()
	if err != nil {
		t.Fatalf("leave customer: %v", err)
	}
	if view.State != enums.CheckoutStateBuilding {
		t.Fatalf("state = %s, want building", view.State)
	}
}
