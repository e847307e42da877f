package server_test

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-credits-portal/internal/config"
	"github.com/jrsteele09/go-credits-portal/portal"
	"github.com/jrsteele09/go-credits-portal/server"
	"github.com/jrsteele09/go-credits-portal/users"
)

func newServer(t *testing.T) (*httptest.Server, *portal.App) {
	t.Helper()
	t.Setenv("ENV", "PROD")
	cfg, err := config.New()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	app, err := portal.New(cfg, portal.Deps{Registerer: reg})
	require.NoError(t, err)

	srv := httptest.NewServer(server.New(cfg, app, reg))
	t.Cleanup(srv.Close)
	return srv, app
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t)
	resp, err := http.Get(srv.URL + server.RouteHealth)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	require.Equal(t, "ok", body["status"])
}

func TestMetrics(t *testing.T) {
	srv, app := newServer(t)
	app.Toasts.Error("boom")

	resp, err := http.Get(srv.URL + server.RouteMetrics)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	require.Contains(t, string(raw), `portal_toasts_total{variant="error"} 1`)
	require.Contains(t, string(raw), "portal_http_in_flight 0")
}

func TestStatus(t *testing.T) {
	srv, app := newServer(t)
	ctx := context.Background()
	require.NoError(t, app.Session.Login(ctx, "tok", &users.User{ID: "1", Email: "a@b.io", Role: "admin"}, false))
	_, err := app.Open(ctx, "/admin")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + server.RouteStatus)
	require.NoError(t, err)

	var st portal.Status
	decode(t, resp, &st)
	require.True(t, st.Authenticated)
	require.Equal(t, "adminuser", st.Role)
	require.Equal(t, "/admin", st.Route)
	require.Equal(t, "en", st.Language)
	require.False(t, st.Loading)
}

func TestStatus_Gzip(t *testing.T) {
	srv, _ := newServer(t)
	req, _ := http.NewRequest(http.MethodGet, srv.URL+server.RouteStatus, nil)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))

	gz, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	var st portal.Status
	require.NoError(t, json.NewDecoder(gz).Decode(&st))
	require.False(t, st.Authenticated)
}

func TestNavigate(t *testing.T) {
	srv, _ := newServer(t)

	t.Run("redirected", func(t *testing.T) {
		resp, err := http.Post(srv.URL+server.RouteNavigate+"?to=%2Fuser%2Fbilling", "", nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		decode(t, resp, &body)
		require.Equal(t, "/user/billing", body["requested"])
		require.Equal(t, "/login?redirect=%2Fuser%2Fbilling&tab=login", body["location"])
		require.Equal(t, true, body["redirected"])
	})

	t.Run("missing target", func(t *testing.T) {
		resp, err := http.Post(srv.URL+server.RouteNavigate, "", nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("wrong method", func(t *testing.T) {
		resp, err := http.Get(srv.URL + server.RouteNavigate + "?to=/")
		require.NoError(t, err)
		require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestToasts(t *testing.T) {
	srv, app := newServer(t)
	msg, shown := app.Toasts.Show("hello", "info", 0, "")
	require.True(t, shown)

	resp, err := http.Get(srv.URL + server.RouteToasts)
	require.NoError(t, err)
	var list []map[string]any
	decode(t, resp, &list)
	require.Len(t, list, 1)
	require.Equal(t, "hello", list[0]["text"])

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+server.RouteToasts+"/"+msg.ID, nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Empty(t, app.Toasts.Active())

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoutes(t *testing.T) {
	t.Setenv("ENV", "PROD")
	cfg, err := config.New()
	require.NoError(t, err)
	app, err := portal.New(cfg, portal.Deps{})
	require.NoError(t, err)

	s := server.New(cfg, app, prometheus.NewRegistry())
	joined := strings.Join(s.Routes(), ",")
	require.Contains(t, joined, "GET /healthz")
	require.Contains(t, joined, "POST /navigate")
}

func TestChainMiddleware_Order(t *testing.T) {
	var order []string
	mw := func(name string) func(http.HandlerFunc) http.HandlerFunc {
		return func(next http.HandlerFunc) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next(w, r)
			}
		}
	}
	h := server.ChainMiddleware(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }, mw("outer"), mw("inner"))
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}
