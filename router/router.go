package router

import (
	"context"
	"net/url"
	"path"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-credits-portal/guards"
	perrors "github.com/jrsteele09/go-credits-portal/internal/errors"
)

// MaxRedirects bounds how many guard redirects one navigation may follow.
const MaxRedirects = 5

// Route is one screen of the app. Guards run in order before the screen is
// entered; RequiredRoles is handed to each guard.
type Route struct {
	Path          string
	Title         string
	Guards        []guards.Guard
	RequiredRoles []string
}

// Router resolves URLs to routes and runs their guards before committing the
// navigation.
type Router struct {
	mu        sync.RWMutex
	routes    map[string]Route
	fallback  string
	current   string
	listeners []func(from, to string)
}

// New returns an empty router. Unknown paths are sent to fallback; an empty
// fallback makes them an error.
func New(fallback string) *Router {
	return &Router{
		routes:   make(map[string]Route),
		fallback: fallback,
	}
}

func (r *Router) Register(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[cleanPath(route.Path)] = route
}

// Routes returns the registered routes sorted by path.
func (r *Router) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Route, 0, len(r.routes))
	for _, rt := range r.routes {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (r *Router) Lookup(p string) (Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.routes[cleanPath(p)]
	return rt, ok
}

// Current is the last committed location, path plus query.
func (r *Router) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// OnNavigate registers fn to be called after every committed navigation.
func (r *Router) OnNavigate(fn func(from, to string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Navigate runs the guards of the route rawURL points to, following any
// redirects, and commits the final location.
func (r *Router) Navigate(ctx context.Context, rawURL string) (string, error) {
	target := rawURL
	for hop := 0; hop <= MaxRedirects; hop++ {
		u, err := url.Parse(target)
		if err != nil {
			return "", perrors.Wrapf(perrors.ErrRouteNotFound, "parse %q: %v", target, err)
		}
		p := cleanPath(u.Path)

		route, ok := r.Lookup(p)
		if !ok {
			if r.fallback == "" || p == cleanPath(r.fallback) {
				return "", perrors.Wrapf(perrors.ErrRouteNotFound, "%s", p)
			}
			log.Debug().Str("path", p).Str("fallback", r.fallback).Msg("Unknown route")
			target = r.fallback
			continue
		}

		location := p
		if u.RawQuery != "" {
			location += "?" + u.RawQuery
		}

		d := guards.Chain(route.Guards...).Check(ctx, location, route.RequiredRoles)
		if d.Allowed() {
			r.commit(location)
			return location, nil
		}
		target = d.URL()
	}
	log.Warn().Str("url", rawURL).Int("hops", MaxRedirects).Msg("Redirect loop")
	return "", perrors.Wrapf(perrors.ErrRedirectLoop, "navigate %s", rawURL)
}

func (r *Router) commit(location string) {
	r.mu.Lock()
	from := r.current
	r.current = location
	listeners := append([]func(from, to string){}, r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(from, location)
	}
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}
