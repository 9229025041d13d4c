package backend

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallypos/terminal/pkg/enums"
)

// Product is the catalog snapshot as served by the backend. The terminal
// treats it as immutable; stock is advisory at cart-build time.
type Product struct {
	ID            string          `json:"id"`
	CategoryID    string          `json:"categoryId"`
	SKU           string          `json:"sku"`
	Barcode       string          `json:"barcode"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	Stock         int             `json:"stock"`
	MinStock      int             `json:"minStock"`
	Unit          string          `json:"unit"`
	ImageURL      *string         `json:"imageUrl"`
	IsActive      bool            `json:"isActive"`
	Category      CategoryRef     `json:"category"`
}

// CategoryRef is the embedded category summary on a product.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LowStock reports whether the product sits at or below its minimum.
func (p Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// Customer is the backend's customer record.
type Customer struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// UserRef is the cashier summary echoed on a transaction.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// CustomerRef is the customer summary echoed on a transaction.
type CustomerRef struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email *string `json:"email"`
}

// TransactionDetail is one echoed line of a confirmed transaction.
type TransactionDetail struct {
	ID             string          `json:"id"`
	TransactionID  string          `json:"transactionId"`
	ProductID      string          `json:"productId"`
	ProductName    string          `json:"productName"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// Transaction is the backend-owned result of a submitted sale.
type Transaction struct {
	ID              string                  `json:"id"`
	TransactionCode string                  `json:"transactionCode"`
	UserID          string                  `json:"userId"`
	CustomerID      *string                 `json:"customerId"`
	TransactionDate time.Time               `json:"transactionDate"`
	Subtotal        decimal.Decimal         `json:"subtotal"`
	DiscountAmount  decimal.Decimal         `json:"discountAmount"`
	TaxAmount       decimal.Decimal         `json:"taxAmount"`
	TotalAmount     decimal.Decimal         `json:"totalAmount"`
	PaymentMethod   enums.PaymentMethod     `json:"paymentMethod"`
	PaymentAmount   decimal.Decimal         `json:"paymentAmount"`
	ChangeAmount    decimal.Decimal         `json:"changeAmount"`
	Notes           *string                 `json:"notes"`
	Status          enums.TransactionStatus `json:"status"`
	User            UserRef                 `json:"user"`
	Customer        *CustomerRef            `json:"customer"`
	Details         []TransactionDetail     `json:"details"`
}

// CreateTransactionItem is one cart line in a submission request.
type CreateTransactionItem struct {
	ProductID      string          `json:"productId"`
	Quantity       int             `json:"quantity"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// CreateTransactionRequest is the one write operation the terminal issues.
// The backend assigns the code and recomputes authoritative totals; there is
// no idempotency token at this boundary, so callers must never auto-retry.
type CreateTransactionRequest struct {
	CustomerID         *string                 `json:"customerId"`
	Items              []CreateTransactionItem `json:"items"`
	DiscountPercentage decimal.Decimal         `json:"discountPercentage"`
	DiscountAmount     decimal.Decimal         `json:"discountAmount"`
	TaxAmount          decimal.Decimal         `json:"taxAmount"`
	PaymentMethod      enums.PaymentMethod     `json:"paymentMethod"`
	PaymentAmount      decimal.Decimal         `json:"paymentAmount"`
	Notes              *string                 `json:"notes"`
}

// TransactionListParams filters the transaction history listing.
type TransactionListParams struct {
	StartDate string
	EndDate   string
	UserID    string
	Status    string
}

// LoginRequest carries cashier credentials to the backend.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the issued access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}
