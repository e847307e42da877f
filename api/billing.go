package api

import (
	"context"
	"net/url"

	"github.com/stripe/stripe-go/v83"

	"github.com/jrsteele09/go-credits-portal/routes"
)

func (c *Client) Credits(ctx context.Context) (int, error) {
	var out struct {
		Credits int `json:"credits"`
	}
	if err := c.get(ctx, routes.APICredits, nil, &out); err != nil {
		return 0, err
	}
	return out.Credits, nil
}

func (c *Client) Packages(ctx context.Context) ([]Package, error) {
	var out []Package
	if err := c.get(ctx, routes.APIPackages, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCheckout asks the backend to open a Stripe Checkout session for the
// package. The returned session's URL is where the buyer pays.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*stripe.CheckoutSession, error) {
	var out stripe.CheckoutSession
	if err := c.post(ctx, routes.APICheckout, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BillingHistory lists the caller's invoices, newest first.
func (c *Client) BillingHistory(ctx context.Context) ([]*stripe.Invoice, error) {
	var out struct {
		Data []*stripe.Invoice `json:"data"`
	}
	if err := c.get(ctx, routes.APIInvoices, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) Search(ctx context.Context, query string) ([]Document, error) {
	var out []Document
	if err := c.get(ctx, routes.APISearch, url.Values{"q": {query}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
