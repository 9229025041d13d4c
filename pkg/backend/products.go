package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ActiveProducts lists every product the backend considers sellable.
func (c *Client) ActiveProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products/active", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SearchProducts queries the catalog by free text (name or SKU).
func (c *Client) SearchProducts(ctx context.Context, term string, activeOnly bool) ([]Product, error) {
	query := url.Values{}
	if term != "" {
		query.Set("search", term)
	}
	query.Set("isActive", strconv.FormatBool(activeOnly))

	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches one product by its backend id.
func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductByBarcode resolves an exact barcode to a single product.
func (c *Client) ProductByBarcode(ctx context.Context, barcode string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, "/products/barcode/"+url.PathEscape(barcode), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
