package interceptor

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-credits-portal/internal/metrics"
	"github.com/jrsteele09/go-credits-portal/routes"
	"github.com/jrsteele09/go-credits-portal/toast"
)

// TokenStore is the part of the session store the auth stage needs.
type TokenStore interface {
	Token(ctx context.Context) string
	ClearTokens(ctx context.Context) error
}

// Navigator moves the app to another screen. Current returns the screen the
// user is looking at.
type Navigator interface {
	Navigate(ctx context.Context, rawURL string) (string, error)
	Current() string
}

// ForcedLogoutURL is where a rejected token sends the user.
var ForcedLogoutURL = routes.Login + "?" + url.Values{routes.QueryTab: {routes.TabLogin}}.Encode()

const bearerPrefix = "Bearer "

const (
	logoutIdle int32 = iota
	logoutInProgress
)

// AuthMiddleware attaches the bearer token to API requests and turns failed
// responses into user notifications. A 401 on an authenticated request
// clears the tokens and sends the user to the login screen, once per burst.
type AuthMiddleware struct {
	apiBase  *url.URL
	tokens   TokenStore
	notifier toast.Notifier
	nav      Navigator
	metrics  *metrics.Metrics

	logoutState atomic.Int32
	logouts     sync.WaitGroup
}

func NewAuthMiddleware(apiBaseURL string, tokens TokenStore, notifier toast.Notifier, nav Navigator, m *metrics.Metrics) (*AuthMiddleware, error) {
	base, err := url.Parse(strings.TrimRight(apiBaseURL, "/"))
	if err != nil {
		return nil, err
	}
	return &AuthMiddleware{
		apiBase:  base,
		tokens:   tokens,
		notifier: notifier,
		nav:      nav,
		metrics:  m,
	}, nil
}

func (a *AuthMiddleware) BeforeRequest(req *http.Request) (*http.Request, error) {
	if !a.isAPIRequest(req.URL) || IsStaticAsset(req.URL) || a.isAuthEndpoint(req.URL) {
		return req, nil
	}
	tok := a.tokens.Token(req.Context())
	if tok == "" {
		return req, nil
	}
	(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}).SetAuthHeader(req)
	return req, nil
}

func (a *AuthMiddleware) AfterResponse(req *http.Request, resp *http.Response, err error) (*http.Response, error) {
	if err == nil {
		return resp, nil
	}
	he, ok := AsHTTPError(err)
	if !ok {
		return resp, err
	}
	if he.Status == 0 && errors.Is(err, context.Canceled) {
		return resp, err
	}

	a.metrics.RecordFailure(he.Status)
	a.logFailure(he)

	if !a.suppressToast(req, he) && a.notifier != nil {
		a.notifier.Error(he.Message)
	}

	if he.Status == http.StatusUnauthorized && he.Authenticated {
		a.forceLogout(req)
	}
	return resp, err
}

// Wait blocks until any forced-logout navigation has finished.
func (a *AuthMiddleware) Wait() {
	a.logouts.Wait()
}

// LoggingOut reports whether a forced logout is currently in progress.
func (a *AuthMiddleware) LoggingOut() bool {
	return a.logoutState.Load() == logoutInProgress
}

// forceLogout clears the session for a rejected request. Only a request that
// carried the currently stored token can end the session, so 401s for a
// token that was already cleared or replaced do nothing.
func (a *AuthMiddleware) forceLogout(req *http.Request) {
	if !a.logoutState.CompareAndSwap(logoutIdle, logoutInProgress) {
		return
	}
	ctx := context.WithoutCancel(req.Context())
	stored := a.tokens.Token(ctx)
	if stored == "" || bearerToken(req) != stored {
		a.logoutState.Store(logoutIdle)
		log.Debug().Str("url", req.URL.String()).Msg("Ignoring 401 for a stale token")
		return
	}
	a.metrics.RecordForcedLogout()

	if err := a.tokens.ClearTokens(ctx); err != nil {
		log.Warn().Err(err).Msg("Clearing tokens after 401")
	}

	a.logouts.Add(1)
	go func() {
		defer a.logouts.Done()
		defer a.logoutState.Store(logoutIdle)
		if a.nav == nil {
			return
		}
		if _, err := a.nav.Navigate(ctx, ForcedLogoutURL); err != nil {
			log.Warn().Err(err).Msg("Navigating to login after 401")
		}
	}()
}

func bearerToken(req *http.Request) string {
	h := req.Header.Get("Authorization")
	if len(h) > len(bearerPrefix) && strings.EqualFold(h[:len(bearerPrefix)], bearerPrefix) {
		return h[len(bearerPrefix):]
	}
	return ""
}

// suppressToast hides errors from auth endpoints while the user is on an
// auth screen, where the form shows them inline. Unreachable-server errors
// are always shown.
func (a *AuthMiddleware) suppressToast(req *http.Request, he *HTTPError) bool {
	if he.Status == 0 || a.nav == nil {
		return false
	}
	return a.isAuthEndpoint(req.URL) && routes.IsAuthScreen(a.nav.Current())
}

func (a *AuthMiddleware) logFailure(he *HTTPError) {
	ev := log.Debug()
	switch {
	case he.Status == 0 || he.Status >= 500:
		ev = log.Error()
	case he.Status >= 400:
		ev = log.Warn()
	}
	ev.Str("method", he.Method).Str("url", he.URL).Int("status", he.Status).Msg(he.Message)
}

func (a *AuthMiddleware) isAPIRequest(u *url.URL) bool {
	if u == nil || a.apiBase == nil {
		return false
	}
	if a.apiBase.Host != "" && (!strings.EqualFold(u.Host, a.apiBase.Host) || u.Scheme != a.apiBase.Scheme) {
		return false
	}
	return a.apiBase.Path == "" || u.Path == a.apiBase.Path || strings.HasPrefix(u.Path, a.apiBase.Path+"/")
}

// isAuthEndpoint reports whether u targets /auth/... under the API base.
func (a *AuthMiddleware) isAuthEndpoint(u *url.URL) bool {
	if !a.isAPIRequest(u) {
		return false
	}
	rel := strings.TrimPrefix(u.Path, a.apiBase.Path)
	return strings.HasPrefix(rel, routes.APIAuthPrefix)
}
