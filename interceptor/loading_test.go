package interceptor_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-credits-portal/interceptor"
	"github.com/jrsteele09/go-credits-portal/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestLoadingTracker_Concurrent(t *testing.T) {
	release := make(chan struct{})
	arrived := make(chan struct{}, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		arrived <- struct{}{}
		<-release
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	m := metrics.Nop()
	tracker := interceptor.NewLoadingTracker(m)
	var mu sync.Mutex
	var transitions []bool
	tracker.OnChange(func(loading bool) {
		mu.Lock()
		transitions = append(transitions, loading)
		mu.Unlock()
	})
	client := interceptor.NewPipeline(nil, tracker).Client()

	paths := []string{"/a", "/b", "/fail", "/c"}
	var wg sync.WaitGroup
	for _, p := range paths {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			resp, err := client.Get(srv.URL + p)
			if err == nil {
				resp.Body.Close()
			}
		}(p)
	}
	for range paths {
		<-arrived
	}
	require.True(t, tracker.Loading())
	require.Equal(t, int64(len(paths)), tracker.InFlight())
	require.Equal(t, float64(len(paths)), testutil.ToFloat64(m.InFlight))

	close(release)
	wg.Wait()

	require.False(t, tracker.Loading())
	require.Equal(t, int64(0), tracker.InFlight())
	require.Equal(t, float64(0), testutil.ToFloat64(m.InFlight))
	require.Equal(t, []bool{true, false}, transitions)
}

func TestLoadingTracker_StaticAssetsBypass(t *testing.T) {
	var seen atomic.Bool
	tracker := interceptor.NewLoadingTracker(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(tracker.Loading())
	}))
	defer srv.Close()

	client := interceptor.NewPipeline(nil, tracker).Client()
	for _, p := range []string{"/assets/logo.svg", "/i18n/en.json"} {
		resp, err := client.Get(srv.URL + p)
		require.NoError(t, err)
		resp.Body.Close()
		require.False(t, seen.Load(), p)
	}

	resp, err := client.Get(srv.URL + "/credits")
	require.NoError(t, err)
	resp.Body.Close()
	require.True(t, seen.Load())
	require.False(t, tracker.Loading())
}

func TestLoadingTracker_ReleasedOnBeforeError(t *testing.T) {
	tracker := interceptor.NewLoadingTracker(nil)
	var mu sync.Mutex
	var calls []string
	p := interceptor.NewPipeline(nil, tracker, recordingStage{name: "x", mu: &mu, calls: &calls, beforeErr: http.ErrNotSupported})

	req, _ := http.NewRequest(http.MethodGet, "http://example.invalid/x", nil)
	_, err := p.RoundTrip(req)
	require.Error(t, err)
	require.False(t, tracker.Loading())
}

func TestIsStaticAsset(t *testing.T) {
	require.False(t, interceptor.IsStaticAsset(nil))
}
