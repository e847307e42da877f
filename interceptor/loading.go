package interceptor

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jrsteele09/go-credits-portal/internal/metrics"
)

var staticAssetPrefixes = []string{"/assets/", "/i18n/"}

// IsStaticAsset reports whether u points at bundled assets or translation
// files. Those requests bypass loading tracking and authentication.
func IsStaticAsset(u *url.URL) bool {
	if u == nil {
		return false
	}
	for _, p := range staticAssetPrefixes {
		if strings.Contains(u.Path, p) {
			return true
		}
	}
	return false
}

type loadingKey struct{}

// LoadingTracker counts outstanding non-asset requests. Loading is true
// whenever at least one is in flight.
type LoadingTracker struct {
	count     atomic.Int64
	mu        sync.Mutex
	listeners []func(loading bool)
	metrics   *metrics.Metrics
}

func NewLoadingTracker(m *metrics.Metrics) *LoadingTracker {
	return &LoadingTracker{metrics: m}
}

func (t *LoadingTracker) Loading() bool {
	return t.count.Load() > 0
}

func (t *LoadingTracker) InFlight() int64 {
	return t.count.Load()
}

// OnChange registers fn to be called on every idle/busy transition. fn must
// not issue requests through the same pipeline.
func (t *LoadingTracker) OnChange(fn func(loading bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

func (t *LoadingTracker) BeforeRequest(req *http.Request) (*http.Request, error) {
	if IsStaticAsset(req.URL) {
		return req, nil
	}
	t.add(1)
	release := sync.OnceFunc(func() { t.add(-1) })
	return req.WithContext(context.WithValue(req.Context(), loadingKey{}, release)), nil
}

func (t *LoadingTracker) AfterResponse(req *http.Request, resp *http.Response, err error) (*http.Response, error) {
	if release, ok := req.Context().Value(loadingKey{}).(func()); ok {
		release()
	}
	return resp, err
}

func (t *LoadingTracker) add(delta int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.count.Add(delta)
	if n < 0 {
		// unbalanced release; clamp
		t.count.Store(0)
		n = 0
	}
	t.metrics.SetInFlight(n)

	if (delta > 0 && n == 1) || (delta < 0 && n == 0) {
		for _, fn := range t.listeners {
			fn(n > 0)
		}
	}
}
