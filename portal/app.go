package portal

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-credits-portal/api"
	"github.com/jrsteele09/go-credits-portal/interceptor"
	"github.com/jrsteele09/go-credits-portal/internal/config"
	"github.com/jrsteele09/go-credits-portal/internal/metrics"
	"github.com/jrsteele09/go-credits-portal/router"
	"github.com/jrsteele09/go-credits-portal/sessions"
	"github.com/jrsteele09/go-credits-portal/storage"
	"github.com/jrsteele09/go-credits-portal/toast"
	"github.com/jrsteele09/go-credits-portal/token"
)

// Deps are the pieces of the app that callers may substitute. Every field is
// optional.
type Deps struct {
	Ephemeral  storage.Store
	Durable    storage.Store
	Transport  http.RoundTripper
	Registerer prometheus.Registerer
	Clock      toast.Clock
}

// App wires the session store, notifications, router, request pipeline and
// REST client together. Build one per process.
type App struct {
	Session  *sessions.Store
	Toasts   *toast.Service
	Router   *router.Router
	Loading  *interceptor.LoadingTracker
	Auth     *interceptor.AuthMiddleware
	Pipeline *interceptor.Pipeline
	API      *api.Client
	Metrics  *metrics.Metrics

	appURL   string
	cooldown *Cooldown
	now      func() time.Time
}

func New(cfg config.Config, deps Deps) (*App, error) {
	if deps.Ephemeral == nil {
		deps.Ephemeral = storage.NewMemoryStore(0)
	}
	if deps.Durable == nil {
		deps.Durable = storage.NewMemoryStore(0)
	}
	now := time.Now
	if deps.Clock != nil {
		now = deps.Clock.Now
	}

	m := metrics.New(deps.Registerer)

	toastOpts := []toast.Option{
		toast.WithDedupeWindow(cfg.GetToastDedupeWindow()),
		toast.WithDefaultDuration(cfg.GetToastDuration()),
		toast.WithDefaultPosition(toast.ParsePosition(cfg.GetToastPosition())),
		toast.WithMetrics(m),
	}
	if deps.Clock != nil {
		toastOpts = append(toastOpts, toast.WithClock(deps.Clock))
	}
	toasts := toast.New(toastOpts...)

	sess := sessions.NewStore(deps.Ephemeral, deps.Durable, cfg.GetDefaultLanguage())
	rt := router.NewApp(sess, toasts, cfg.GetAdminEmail())

	loading := interceptor.NewLoadingTracker(m)
	auth, err := interceptor.NewAuthMiddleware(cfg.GetAPIBaseURL(), sess, toasts, rt, m)
	if err != nil {
		return nil, err
	}
	pipeline := interceptor.NewPipeline(deps.Transport, loading, auth)
	httpClient := &http.Client{Transport: pipeline, Timeout: cfg.GetHTTPTimeout()}

	return &App{
		Session:  sess,
		Toasts:   toasts,
		Router:   rt,
		Loading:  loading,
		Auth:     auth,
		Pipeline: pipeline,
		API:      api.New(cfg.GetAPIBaseURL(), httpClient),
		Metrics:  m,
		appURL:   cfg.GetAppURL(),
		cooldown: NewCooldown(cfg.GetSubmitCooldown(), now),
		now:      now,
	}, nil
}

// Restore drops a persisted token whose exp claim has passed and lands the
// app on its starting screen.
func (a *App) Restore(ctx context.Context) (string, error) {
	if tok := a.Session.Token(ctx); tok != "" {
		if claims, err := token.Inspect(tok); err == nil && claims.Expired(a.now()) {
			log.Info().Time("expired", claims.ExpiresAt).Msg("Stored session expired")
			if err := a.Session.ClearTokens(ctx); err != nil {
				return "", err
			}
			a.Toasts.Info(interceptor.MsgSessionExpired)
		}
	}
	return a.Router.Navigate(ctx, a.landing(ctx))
}

// Open performs a guarded navigation.
func (a *App) Open(ctx context.Context, rawURL string) (string, error) {
	return a.Router.Navigate(ctx, rawURL)
}

// Close waits for any pending forced-logout navigation.
func (a *App) Close() {
	a.Auth.Wait()
}

// Status is a point-in-time view of the app.
type Status struct {
	Authenticated bool            `json:"authenticated"`
	Scope         storage.Scope   `json:"scope"`
	Email         string          `json:"email,omitempty"`
	Role          string          `json:"role,omitempty"`
	Route         string          `json:"route"`
	Loading       bool            `json:"loading"`
	InFlight      int64           `json:"inFlight"`
	Language      string          `json:"language"`
	Credits       *int            `json:"credits,omitempty"`
	Toasts        []toast.Message `json:"toasts"`
}

func (a *App) Status(ctx context.Context) Status {
	s := a.Session.Current(ctx)
	st := Status{
		Authenticated: s.Authenticated(),
		Scope:         s.Scope,
		Route:         a.Router.Current(),
		Loading:       a.Loading.Loading(),
		InFlight:      a.Loading.InFlight(),
		Language:      a.Session.Language(ctx),
		Toasts:        a.Toasts.Active(),
	}
	if s.User != nil {
		st.Email = s.User.Email
		st.Role = s.User.CanonicalRole().String()
		if n, ok := a.Session.Credits(ctx, s.User.Email); ok {
			st.Credits = &n
		}
	}
	return st
}
