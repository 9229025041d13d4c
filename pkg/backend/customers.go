package backend

import (
	"context"
	"net/http"
	"net/url"
)

// Customers lists customer records, optionally filtered by free text.
func (c *Client) Customers(ctx context.Context, search string) ([]Customer, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}

	var customers []Customer
	if err := c.do(ctx, http.MethodGet, "/customers", query, nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}
