package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallypos/terminal/internal/cart"
	"github.com/tallypos/terminal/pkg/backend"
	"github.com/tallypos/terminal/pkg/enums"
	pkgerrors "github.com/tallypos/terminal/pkg/errors"
	"github.com/tallypos/terminal/pkg/logger"
	"github.com/tallypos/terminal/pkg/metrics"
)

type submitter interface {
	CreateTransaction(ctx context.Context, req backend.CreateTransactionRequest) (*backend.Transaction, error)
}

type cartEngine interface {
	Snapshot() cart.Snapshot
	Clear() cart.Snapshot
}

// Service drives a single sale from cart review to confirmed payment.
// One orchestrator serves one terminal, so at most one sale is in flight.
type Service interface {
	Begin() (View, error)
	SelectCustomer() (View, error)
	LeaveCustomer() (View, error)
	SetPaymentMethod(method enums.PaymentMethod) (View, error)
	SetTendered(amount decimal.Decimal) (View, error)
	SetNotes(notes string) (View, error)
	Submit(ctx context.Context) (*Result, error)
	Cancel() (View, error)
	Change() decimal.Decimal
	Current() View
	LastResult() *Result
}

// View is an immutable snapshot of the checkout session.
type View struct {
	State         enums.CheckoutState `json:"state"`
	Lines         []cart.LineSnapshot `json:"lines"`
	Customer      *backend.Customer   `json:"customer"`
	AmountDue     decimal.Decimal     `json:"amountDue"`
	Tendered      decimal.Decimal     `json:"tendered"`
	Change        decimal.Decimal     `json:"change"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	Notes         string              `json:"notes"`
}

// Result is the confirmed outcome of a submitted sale. The transaction code,
// totals and change are backend-authoritative.
type Result struct {
	Transaction backend.Transaction `json:"transaction"`
	CompletedAt time.Time           `json:"completedAt"`
}

type service struct {
	mu        sync.Mutex
	state     enums.CheckoutState
	frozen    cart.Snapshot
	method    enums.PaymentMethod
	tendered  decimal.Decimal
	notes     string
	last      *Result
	cart      cartEngine
	submitter submitter
	metrics   *metrics.TerminalMetrics
	logger    *logger.Logger
	now       func() time.Time
}

// NewService builds a checkout orchestrator over the given cart and backend.
func NewService(cartSvc cartEngine, remote submitter, terminalMetrics *metrics.TerminalMetrics, logg *logger.Logger) (Service, error) {
	if cartSvc == nil {
		return nil, fmt.Errorf("cart engine required")
	}
	if remote == nil {
		return nil, fmt.Errorf("transaction submitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		state:     enums.CheckoutStateBuilding,
		tendered:  decimal.Zero,
		cart:      cartSvc,
		submitter: remote,
		metrics:   terminalMetrics,
		logger:    logg,
		now:       time.Now,
	}, nil
}

// Begin freezes the cart and moves to payment entry. The amount due is
// snapshotted and the tendered amount defaults to it, which covers the
// non-cash methods where tendered always equals the total.
func (s *service) Begin() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case enums.CheckoutStateBuilding, enums.CheckoutStateCompleted:
	default:
		return s.viewLocked(), invalidState("begin", s.state)
	}

	snap := s.cart.Snapshot()
	if snap.Empty() {
		return s.viewLocked(), pkgerrors.New(pkgerrors.CodeEmptyCart, "cannot begin checkout with an empty cart")
	}

	s.state = enums.CheckoutStateAwaitingPayment
	s.frozen = snap
	s.method = enums.PaymentMethodCash
	s.tendered = snap.Total
	s.notes = ""
	return s.viewLocked(), nil
}

// SelectCustomer opens the customer-selection detour before checkout begins.
func (s *service) SelectCustomer() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != enums.CheckoutStateBuilding {
		return s.viewLocked(), invalidState("select customer", s.state)
	}
	s.state = enums.CheckoutStateAwaitingCustomer
	return s.viewLocked(), nil
}

// LeaveCustomer closes the customer-selection detour.
func (s *service) LeaveCustomer() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != enums.CheckoutStateAwaitingCustomer {
		return s.viewLocked(), invalidState("leave customer", s.state)
	}
	s.state = enums.CheckoutStateBuilding
	return s.viewLocked(), nil
}

// SetPaymentMethod picks how the customer pays. Non-cash methods pin the
// tendered amount to the amount due.
func (s *service) SetPaymentMethod(method enums.PaymentMethod) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != enums.CheckoutStateAwaitingPayment {
		return s.viewLocked(), invalidState("set payment method", s.state)
	}
	if !method.IsValid() {
		return s.viewLocked(), pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method").
			WithDetails(map[string]any{"paymentMethod": string(method)})
	}
	s.method = method
	if method != enums.PaymentMethodCash {
		s.tendered = s.frozen.Total
	}
	return s.viewLocked(), nil
}

// SetTendered records the cash amount handed over.
func (s *service) SetTendered(amount decimal.Decimal) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != enums.CheckoutStateAwaitingPayment {
		return s.viewLocked(), invalidState("set tendered", s.state)
	}
	if amount.IsNegative() {
		return s.viewLocked(), pkgerrors.New(pkgerrors.CodeValidation, "tendered amount must not be negative")
	}
	s.tendered = amount
	return s.viewLocked(), nil
}

// SetNotes attaches free-form notes to the sale.
func (s *service) SetNotes(notes string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != enums.CheckoutStateAwaitingPayment {
		return s.viewLocked(), invalidState("set notes", s.state)
	}
	s.notes = notes
	return s.viewLocked(), nil
}

// Submit sends the sale to the backend. Exactly one submission can be in
// flight; the cart is cleared only after the backend confirms. There is no
// idempotency token on the wire, so a failed submission is never retried
// automatically.
func (s *service) Submit(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	if s.state == enums.CheckoutStateSubmitting {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeAlreadySubmitting, "a submission is already in flight")
	}
	if s.state != enums.CheckoutStateAwaitingPayment {
		state := s.state
		s.mu.Unlock()
		return nil, invalidState("submit", state)
	}
	if s.tendered.LessThan(s.frozen.Total) {
		shortfall := s.frozen.Total.Sub(s.tendered)
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientPayment, "tendered amount is below the amount due").
			WithDetails(map[string]any{
				"amountDue": s.frozen.Total.String(),
				"tendered":  s.tendered.String(),
				"shortfall": shortfall.String(),
			})
	}

	s.state = enums.CheckoutStateSubmitting
	req := s.buildRequestLocked()
	s.mu.Unlock()

	tx, err := s.submitter.CreateTransaction(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = enums.CheckoutStateAwaitingPayment
		s.metrics.IncSubmissionFailure(failureReason(err))
		s.logger.Error(ctx, "transaction submission failed", err)
		return nil, err
	}

	result := &Result{Transaction: *tx, CompletedAt: s.now()}
	s.state = enums.CheckoutStateCompleted
	s.last = result
	s.cart.Clear()
	s.metrics.IncSubmissionSuccess(string(s.method))
	s.logger.Info(s.logger.WithTransactionCode(ctx, tx.TransactionCode), "transaction completed")
	return result, nil
}

// Cancel abandons payment entry and drops back to building. The cart is left
// untouched so the cashier can resume editing it.
func (s *service) Cancel() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case enums.CheckoutStateBuilding, enums.CheckoutStateAwaitingCustomer, enums.CheckoutStateAwaitingPayment:
	default:
		return s.viewLocked(), invalidState("cancel", s.state)
	}
	s.state = enums.CheckoutStateBuilding
	s.frozen = cart.Snapshot{}
	s.method = ""
	s.tendered = decimal.Zero
	s.notes = ""
	return s.viewLocked(), nil
}

// Change returns what the cashier hands back, zero when tendered does not
// exceed the amount due.
func (s *service) Change() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tendered.GreaterThan(s.frozen.Total) {
		return s.tendered.Sub(s.frozen.Total)
	}
	return decimal.Zero
}

// Current returns the live session view.
func (s *service) Current() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// LastResult returns the most recent confirmed sale, or nil.
func (s *service) LastResult() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *service) viewLocked() View {
	view := View{
		State:         s.state,
		Lines:         s.frozen.Lines,
		Customer:      s.frozen.Customer,
		AmountDue:     s.frozen.Total,
		Tendered:      s.tendered,
		Change:        decimal.Zero,
		PaymentMethod: s.method,
		Notes:         s.notes,
	}
	if s.tendered.GreaterThan(view.AmountDue) {
		view.Change = s.tendered.Sub(view.AmountDue)
	}
	return view
}

func (s *service) buildRequestLocked() backend.CreateTransactionRequest {
	items := make([]backend.CreateTransactionItem, 0, len(s.frozen.Lines))
	for _, ln := range s.frozen.Lines {
		items = append(items, backend.CreateTransactionItem{
			ProductID:      ln.ProductID,
			Quantity:       ln.Quantity,
			DiscountAmount: ln.Discount,
		})
	}
	req := backend.CreateTransactionRequest{
		Items:              items,
		DiscountPercentage: decimal.Zero,
		DiscountAmount:     s.frozen.DiscountTotal,
		TaxAmount:          decimal.Zero,
		PaymentMethod:      s.method,
		PaymentAmount:      s.tendered,
	}
	if s.frozen.Customer != nil {
		id := s.frozen.Customer.ID
		req.CustomerID = &id
	}
	if s.notes != "" {
		notes := s.notes
		req.Notes = &notes
	}
	return req
}

func invalidState(op string, state enums.CheckoutState) error {
	return pkgerrors.New(pkgerrors.CodeInvalidState, fmt.Sprintf("cannot %s in this state", op)).
		WithDetails(map[string]any{"state": state.String()})
}

func failureReason(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return string(typed.Code())
	}
	return "unknown"
}
