package router_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-credits-portal/guards"
	perrors "github.com/jrsteele09/go-credits-portal/internal/errors"
	"github.com/jrsteele09/go-credits-portal/router"
	"github.com/jrsteele09/go-credits-portal/sessions"
	"github.com/jrsteele09/go-credits-portal/storage"
	"github.com/jrsteele09/go-credits-portal/users"
	"github.com/stretchr/testify/require"
)

const adminEmail = "root@creditsportal.io"

type fakeNotifier struct {
	infos  []string
	errors []string
}

func (n *fakeNotifier) Success(string)    {}
func (n *fakeNotifier) Warn(string)       {}
func (n *fakeNotifier) Info(text string)  { n.infos = append(n.infos, text) }
func (n *fakeNotifier) Error(text string) { n.errors = append(n.errors, text) }

func newApp(t *testing.T, user *users.User, token string) (*router.Router, *fakeNotifier) {
	t.Helper()
	sess := sessions.NewStore(storage.NewMemoryStore(0), storage.NewMemoryStore(0), "en")
	if token != "" {
		require.NoError(t, sess.Login(context.Background(), token, user, false))
	}
	n := &fakeNotifier{}
	return router.NewApp(sess, n, adminEmail), n
}

func TestNavigate_App(t *testing.T) {
	ctx := context.Background()
	regular := &users.User{ID: "1", Email: "u@x.io", Role: "user"}
	admin := &users.User{ID: "2", Email: "a@x.io", Role: "admin_user"}
	super := &users.User{ID: "3", Email: adminEmail, Role: "SuperAdmin"}

	tests := []struct {
		name   string
		user   *users.User
		token  string
		target string
		want   string
	}{
		{"public landing", nil, "", "/", "/"},
		{"logged out protected page keeps query", nil, "", "/user/billing?page=2", "/login?redirect=%2Fuser%2Fbilling%3Fpage%3D2&tab=login"},
		{"logged out payment page", nil, "", "/payment/success", "/login?redirect=%2Fpayment%2Fsuccess&tab=login"},
		{"logged out admin page", nil, "", "/admin/users", "/login?redirect=%2Fadmin%2Fusers&tab=login"},
		{"logged out legacy page", nil, "", "/admin/legacy", "/login"},
		{"guest screen while logged out", nil, "", "/register", "/register"},
		{"user on login screen", regular, "t", "/login", "/user/buy-credits"},
		{"superadmin on login screen", super, "t", "/login?tab=login", "/admin"},
		{"user reaches user area", regular, "t", "/user/profile", "/user/profile"},
		{"user on admin area", regular, "t", "/admin", "/user/buy-credits"},
		{"admin on admin area", admin, "t", "/admin/packages", "/admin/packages"},
		{"admin on superadmin area", admin, "t", "/admin/admins", "/user/buy-credits"},
		{"superadmin on superadmin area", super, "t", "/admin/admins", "/admin/admins"},
		{"token without user on admin area", nil, "t", "/admin", "/user/buy-credits"},
		{"allowlisted email", super, "t", "/admin/legacy", "/admin/legacy"},
		{"other email on legacy page", admin, "t", "/admin/legacy", "/user"},
		{"unknown path", regular, "t", "/nope", "/"},
		{"trailing slash", regular, "t", "/user/", "/user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newApp(t, tt.user, tt.token)
			got, err := r.Navigate(ctx, tt.target)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.want, r.Current())
		})
	}
}

func TestNavigate_Toasts(t *testing.T) {
	ctx := context.Background()

	t.Run("denied admin", func(t *testing.T) {
		r, n := newApp(t, &users.User{ID: "1", Role: "adminuser"}, "t")
		_, err := r.Navigate(ctx, "/admin/admins")
		require.NoError(t, err)
		require.Equal(t, []string{guards.MsgNoPermission}, n.errors)
	})

	t.Run("allowed user", func(t *testing.T) {
		r, n := newApp(t, &users.User{ID: "1", Role: "user"}, "t")
		_, err := r.Navigate(ctx, "/user")
		require.NoError(t, err)
		require.Empty(t, n.errors)
		require.Empty(t, n.infos)
	})
}

func TestNavigate_RedirectLoop(t *testing.T) {
	r := router.New("")
	to := func(target string) guards.Guard {
		return guards.GuardFunc(func(context.Context, string, []string) guards.Decision {
			return guards.RedirectTo(target, nil)
		})
	}
	r.Register(router.Route{Path: "/a", Guards: []guards.Guard{to("/b")}})
	r.Register(router.Route{Path: "/b", Guards: []guards.Guard{to("/a")}})

	_, err := r.Navigate(context.Background(), "/a")
	require.ErrorIs(t, err, perrors.ErrRedirectLoop)
	require.Empty(t, r.Current())
}

func TestNavigate_NoFallback(t *testing.T) {
	r := router.New("")
	_, err := r.Navigate(context.Background(), "/missing")
	require.ErrorIs(t, err, perrors.ErrRouteNotFound)

	r = router.New("/home")
	_, err = r.Navigate(context.Background(), "/missing")
	require.ErrorIs(t, err, perrors.ErrRouteNotFound, "fallback that is not registered")
}

func TestNavigate_GuardsRunInOrder(t *testing.T) {
	var order []string
	named := func(name string, d guards.Decision) guards.Guard {
		return guards.GuardFunc(func(_ context.Context, requested string, required []string) guards.Decision {
			order = append(order, name)
			require.Equal(t, []string{"user"}, required)
			return d
		})
	}
	r := router.New("")
	r.Register(router.Route{Path: "/x", RequiredRoles: []string{"user"}, Guards: []guards.Guard{
		named("first", guards.Allow()),
		named("second", guards.RedirectTo("/y", nil)),
		named("third", guards.RedirectTo("/z", nil)),
	}})
	r.Register(router.Route{Path: "/y"})

	got, err := r.Navigate(context.Background(), "/x")
	require.NoError(t, err)
	require.Equal(t, "/y", got)
	require.Equal(t, []string{"first", "second"}, order)
}

func TestOnNavigate(t *testing.T) {
	r, _ := newApp(t, nil, "")
	var seen [][2]string
	r.OnNavigate(func(from, to string) { seen = append(seen, [2]string{from, to}) })

	_, err := r.Navigate(context.Background(), "/")
	require.NoError(t, err)
	_, err = r.Navigate(context.Background(), "/register")
	require.NoError(t, err)
	require.Equal(t, [][2]string{{"", "/"}, {"/", "/register"}}, seen)
}

func TestRoutes(t *testing.T) {
	r, _ := newApp(t, nil, "")
	all := r.Routes()
	require.Len(t, all, 18)
	require.Equal(t, "/", all[0].Path)

	rt, ok := r.Lookup("/admin/admins")
	require.True(t, ok)
	require.Equal(t, []string{"superadmin"}, rt.RequiredRoles)
}
