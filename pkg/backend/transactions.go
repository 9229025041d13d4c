package backend

import (
	"context"
	"net/http"
	"net/url"
)

// CreateTransaction submits a completed sale. This is the terminal's only
// write; failures must be surfaced to the cashier, never retried silently.
func (c *Client) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*Transaction, error) {
	var txn Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", nil, req, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// Transactions lists submitted transactions for the history view.
func (c *Client) Transactions(ctx context.Context, params TransactionListParams) ([]Transaction, error) {
	query := url.Values{}
	if params.StartDate != "" {
		query.Set("startDate", params.StartDate)
	}
	if params.EndDate != "" {
		query.Set("endDate", params.EndDate)
	}
	if params.UserID != "" {
		query.Set("userId", params.UserID)
	}
	if params.Status != "" {
		query.Set("status", params.Status)
	}

	var txns []Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions", query, nil, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// TransactionByCode fetches one transaction by its backend-assigned code.
func (c *Client) TransactionByCode(ctx context.Context, code string) (*Transaction, error) {
	var txn Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions/code/"+url.PathEscape(code), nil, nil, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}
