package guards

import (
	"context"
	"net/url"

	"github.com/jrsteele09/go-credits-portal/routes"
	"github.com/jrsteele09/go-credits-portal/sessions"
	"github.com/rs/zerolog/log"
)

// Decision is the outcome of a guard: allow the navigation, or send it to
// Target with Query instead. The caller performs the actual navigation.
type Decision struct {
	Redirect bool
	Target   string
	Query    url.Values
}

func Allow() Decision {
	return Decision{}
}

func RedirectTo(target string, query url.Values) Decision {
	return Decision{Redirect: true, Target: target, Query: query}
}

func (d Decision) Allowed() bool {
	return !d.Redirect
}

// URL renders the redirect target with its query string.
func (d Decision) URL() string {
	if !d.Redirect {
		return ""
	}
	if len(d.Query) == 0 {
		return d.Target
	}
	return d.Target + "?" + d.Query.Encode()
}

// Guard decides whether a navigation to requestedURL may proceed. Guards only
// read cached session state and never fail.
type Guard interface {
	Check(ctx context.Context, requestedURL string, requiredRoles []string) Decision
}

type GuardFunc func(ctx context.Context, requestedURL string, requiredRoles []string) Decision

func (f GuardFunc) Check(ctx context.Context, requestedURL string, requiredRoles []string) Decision {
	return f(ctx, requestedURL, requiredRoles)
}

// SessionReader is the read side of sessions.Store.
type SessionReader interface {
	Current(ctx context.Context) sessions.Session
}

// Chain evaluates guards in order; the first redirect wins.
func Chain(guards ...Guard) Guard {
	return GuardFunc(func(ctx context.Context, requestedURL string, requiredRoles []string) Decision {
		for _, g := range guards {
			if d := g.Check(ctx, requestedURL, requiredRoles); d.Redirect {
				return d
			}
		}
		return Allow()
	})
}

func loginRedirect(requestedURL string) Decision {
	return RedirectTo(routes.Login, url.Values{
		routes.QueryTab:      {routes.TabLogin},
		routes.QueryRedirect: {requestedURL},
	})
}

func logDenied(guard, requestedURL string, d Decision) {
	log.Debug().
		Str("guard", guard).
		Str("requested", requestedURL).
		Str("redirect", d.URL()).
		Msg("Navigation redirected")
}
