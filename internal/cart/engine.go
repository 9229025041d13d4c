package cart

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tallypos/terminal/pkg/backend"
	pkgerrors "github.com/tallypos/terminal/pkg/errors"
)

// Service exposes the in-memory cart the cashier builds a sale against.
// All mutations are atomic; a rejected mutation leaves the cart unchanged.
type Service interface {
	AddLine(product backend.Product, quantity int) (Snapshot, error)
	SetQuantity(productID string, quantity int) (Snapshot, error)
	SetLineDiscount(productID string, discount decimal.Decimal) (Snapshot, error)
	RemoveLine(productID string) Snapshot
	SetCustomer(customer *backend.Customer) Snapshot
	Clear() Snapshot
	Snapshot() Snapshot
}

type line struct {
	product  backend.Product
	quantity int
	discount decimal.Decimal
	position int
}

type service struct {
	mu       sync.Mutex
	lines    map[string]*line
	customer *backend.Customer
	nextPos  int
}

// NewService builds an empty cart.
func NewService() Service {
	return &service{lines: map[string]*line{}}
}

// LineSnapshot is one immutable cart line view.
type LineSnapshot struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	Stock     int             `json:"stock"`
	LowStock  bool            `json:"lowStock"`
}

// Snapshot is an immutable view of the whole cart.
type Snapshot struct {
	Lines         []LineSnapshot    `json:"lines"`
	Customer      *backend.Customer `json:"customer"`
	ItemCount     int               `json:"itemCount"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	DiscountTotal decimal.Decimal   `json:"discountTotal"`
	Total         decimal.Decimal   `json:"total"`
}

// Empty reports whether the snapshot holds no lines.
func (s Snapshot) Empty() bool {
	return len(s.Lines) == 0
}

// AddLine puts the product in the cart, or increments its quantity when it is
// already present. The combined quantity must fit the advisory stock.
func (s *service) AddLine(product backend.Product, quantity int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		return s.snapshotLocked(), pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return s.snapshotLocked(), pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if !product.IsActive {
		return s.snapshotLocked(), pkgerrors.New(pkgerrors.CodeValidation, "product is inactive").
			WithDetails(map[string]any{"productId": product.ID})
	}
	if product.Stock <= 0 {
		return s.snapshotLocked(), pkgerrors.New(pkgerrors.CodeOutOfStock, "product has no stock").
			WithDetails(map[string]any{"productId": product.ID, "name": product.Name})
	}

	if existing, ok := s.lines[product.ID]; ok {
		combined := existing.quantity + quantity
		if combined > existing.product.Stock {
			return s.snapshotLocked(), insufficientStock(existing.product, combined)
		}
		existing.quantity = combined
		return s.snapshotLocked(), nil
	}

	if quantity > product.Stock {
		return s.snapshotLocked(), insufficientStock(product, quantity)
	}
	s.lines[product.ID] = &line{
		product:  product,
		quantity: quantity,
		discount: decimal.Zero,
		position: s.nextPos,
	}
	s.nextPos++
	return s.snapshotLocked(), nil
}

// SetQuantity replaces a line's quantity. Zero removes the line. The line's
// discount is re-capped against the new line subtotal.
func (s *service) SetQuantity(productID string, quantity int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 0 {
		return s.snapshotLocked(), pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	existing, ok := s.lines[productID]
	if !ok {
		return s.snapshotLocked(), lineNotFound(productID)
	}
	if quantity == 0 {
		delete(s.lines, productID)
		return s.snapshotLocked(), nil
	}
	if quantity > existing.product.Stock {
		return s.snapshotLocked(), insufficientStock(existing.product, quantity)
	}
	existing.quantity = quantity
	subtotal := lineSubtotal(existing.product, quantity)
	if existing.discount.GreaterThan(subtotal) {
		existing.discount = subtotal
	}
	return s.snapshotLocked(), nil
}

// SetLineDiscount sets the absolute rupiah discount on a line. The discount
// must stay within [0, unit price x quantity].
func (s *service) SetLineDiscount(productID string, discount decimal.Decimal) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.lines[productID]
	if !ok {
		return s.snapshotLocked(), lineNotFound(productID)
	}
	if discount.IsNegative() {
		return s.snapshotLocked(), pkgerrors.New(pkgerrors.CodeInvalidDiscount, "discount must not be negative").
			WithDetails(map[string]any{"productId": productID})
	}
	subtotal := lineSubtotal(existing.product, existing.quantity)
	if discount.GreaterThan(subtotal) {
		return s.snapshotLocked(), pkgerrors.New(pkgerrors.CodeInvalidDiscount, "discount exceeds line subtotal").
			WithDetails(map[string]any{
				"productId": productID,
				"discount":  discount.String(),
				"subtotal":  subtotal.String(),
			})
	}
	existing.discount = discount
	return s.snapshotLocked(), nil
}

// RemoveLine drops a line from the cart. Removing a product that is not
// in the cart is a no-op.
func (s *service) RemoveLine(productID string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.lines, productID)
	return s.snapshotLocked()
}

// SetCustomer attaches the selected customer to the sale. A nil customer
// marks the sale as walk-in.
func (s *service) SetCustomer(customer *backend.Customer) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if customer == nil {
		s.customer = nil
	} else {
		copied := *customer
		s.customer = &copied
	}
	return s.snapshotLocked()
}

// Clear empties the cart and detaches the customer.
func (s *service) Clear() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = map[string]*line{}
	s.customer = nil
	s.nextPos = 0
	return s.snapshotLocked()
}

// Snapshot returns the current immutable cart view.
func (s *service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *service) snapshotLocked() Snapshot {
	ordered := make([]*line, 0, len(s.lines))
	for _, ln := range s.lines {
		ordered = append(ordered, ln)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].position < ordered[j].position
	})

	snap := Snapshot{
		Lines:         make([]LineSnapshot, 0, len(ordered)),
		Subtotal:      decimal.Zero,
		DiscountTotal: decimal.Zero,
		Total:         decimal.Zero,
	}
	for _, ln := range ordered {
		subtotal := lineSubtotal(ln.product, ln.quantity)
		lineTotal := subtotal.Sub(ln.discount)
		snap.Lines = append(snap.Lines, LineSnapshot{
			ProductID: ln.product.ID,
			Name:      ln.product.Name,
			SKU:       ln.product.SKU,
			Unit:      ln.product.Unit,
			UnitPrice: ln.product.SellingPrice,
			Quantity:  ln.quantity,
			Discount:  ln.discount,
			Subtotal:  subtotal,
			LineTotal: lineTotal,
			Stock:     ln.product.Stock,
			LowStock:  ln.product.LowStock(),
		})
		snap.ItemCount += ln.quantity
		snap.Subtotal = snap.Subtotal.Add(subtotal)
		snap.DiscountTotal = snap.DiscountTotal.Add(ln.discount)
	}
	snap.Total = snap.Subtotal.Sub(snap.DiscountTotal)
	if s.customer != nil {
		copied := *s.customer
		snap.Customer = &copied
	}
	return snap
}

func lineSubtotal(product backend.Product, quantity int) decimal.Decimal {
	return product.SellingPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

func insufficientStock(product backend.Product, requested int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "requested quantity exceeds stock").
		WithDetails(map[string]any{
			"productId": product.ID,
			"name":      product.Name,
			"requested": requested,
			"stock":     product.Stock,
		})
}

func lineNotFound(productID string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart").
		WithDetails(map[string]any{"productId": productID})
}
