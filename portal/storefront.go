package portal

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v83"
	"golang.org/x/sync/errgroup"

	"github.com/jrsteele09/go-credits-portal/api"
	perrors "github.com/jrsteele09/go-credits-portal/internal/errors"
	"github.com/jrsteele09/go-credits-portal/routes"
)

// Dashboard is what the user area shows on entry.
type Dashboard struct {
	Credits  int
	Invoices []*stripe.Invoice
	Packages []api.Package
}

// LoadDashboard fetches credits, invoices and packages concurrently and
// caches the per-user parts in the session.
func (a *App) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := a.API.Credits(gctx)
		d.Credits = n
		return err
	})
	g.Go(func() error {
		inv, err := a.API.BillingHistory(gctx)
		d.Invoices = inv
		return err
	})
	g.Go(func() error {
		pkgs, err := a.API.Packages(gctx)
		d.Packages = pkgs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if u := a.Session.User(ctx); u != nil && u.Email != "" {
		if err := a.Session.SetCredits(ctx, u.Email, d.Credits); err != nil {
			return nil, err
		}
		if err := a.Session.SetBillingHistory(ctx, u.Email, d.Invoices); err != nil {
			return nil, err
		}
	}
	return &d, nil
}

// BuyCredits opens a checkout for packageID and returns the payment URL.
func (a *App) BuyCredits(ctx context.Context, packageID string) (string, error) {
	if strings.TrimSpace(packageID) == "" {
		return "", perrors.Wrapf(perrors.ErrInvalidRequest, "missing package id")
	}
	if err := a.gate(actionBuy); err != nil {
		return "", err
	}
	sess, err := a.API.CreateCheckout(ctx, api.CheckoutRequest{
		PackageID:  packageID,
		SuccessURL: a.appURL + routes.PaymentSuccess + "?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  a.appURL + routes.PaymentCancel,
	})
	if err != nil {
		return "", err
	}
	if sess.URL == "" {
		return "", perrors.Wrapf(perrors.ErrInvalidRequest, "checkout session %s has no url", sess.ID)
	}
	return sess.URL, nil
}

// Search runs a document search and records the query in the user's
// history.
func (a *App) Search(ctx context.Context, query string) ([]api.Document, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		a.Toasts.Warn(MsgEmptySearch)
		return nil, perrors.Wrapf(perrors.ErrInvalidRequest, "empty search")
	}
	docs, err := a.API.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if u := a.Session.User(ctx); u != nil && u.Email != "" {
		if err := a.Session.AddSearch(ctx, u.Email, query); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func (a *App) SearchHistory(ctx context.Context) []string {
	u := a.Session.User(ctx)
	if u == nil {
		return nil
	}
	return a.Session.SearchHistory(ctx, u.Email)
}
