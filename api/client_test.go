package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83"

	"github.com/jrsteele09/go-credits-portal/api"
	"github.com/jrsteele09/go-credits-portal/interceptor"
)

type captured struct {
	method string
	path   string
	query  string
	body   map[string]any
}

func newServer(t *testing.T, status int, response string) (*api.Client, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.method = r.Method
		c.path = r.URL.Path
		c.query = r.URL.RawQuery
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&c.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, response)
	}))
	t.Cleanup(srv.Close)
	client := interceptor.NewPipeline(nil).Client()
	return api.New(srv.URL+"/api/", client), c
}

func TestLogin(t *testing.T) {
	client, c := newServer(t, http.StatusOK, `{"token":"abc","user":{"id":"1","email":"a@b.io","role":"admin"}}`)

	resp, err := client.Login(context.Background(), "  A@B.io ", "pw")
	require.NoError(t, err)
	require.Equal(t, "abc", resp.BearerToken())
	require.Equal(t, "admin", resp.User.Role)
	require.Equal(t, http.MethodPost, c.method)
	require.Equal(t, "/api/auth/login", c.path)
	require.Equal(t, "a@b.io", c.body["email"])
	require.Equal(t, "pw", c.body["password"])
}

func TestLogin_AccessTokenField(t *testing.T) {
	client, _ := newServer(t, http.StatusOK, `{"access_token":"xyz","token_type":"bearer","expires_in":900}`)
	resp, err := client.Login(context.Background(), "a@b.io", "pw")
	require.NoError(t, err)
	require.Equal(t, "xyz", resp.BearerToken())
	require.Equal(t, 900, resp.ExpiresIn)
	require.Nil(t, resp.User)
}

func TestLogin_Rejected(t *testing.T) {
	client, _ := newServer(t, http.StatusUnauthorized, `{"message":"Invalid credentials"}`)
	_, err := client.Login(context.Background(), "a@b.io", "bad")
	he, ok := interceptor.AsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Status)
	require.Equal(t, "Invalid credentials", he.ServerMessage)
}

func TestRegister(t *testing.T) {
	client, c := newServer(t, http.StatusCreated, `{"message":"Check your inbox"}`)
	msg, err := client.Register(context.Background(), api.RegisterRequest{Email: "New@X.io", Password: "Secret123!", Company: "Acme"})
	require.NoError(t, err)
	require.Equal(t, "Check your inbox", msg)
	require.Equal(t, "/api/auth/register", c.path)
	require.Equal(t, "new@x.io", c.body["email"])
	require.Equal(t, "Acme", c.body["company"])
}

func TestEmptyBodies(t *testing.T) {
	client, c := newServer(t, http.StatusOK, "")

	t.Run("confirm email", func(t *testing.T) {
		require.NoError(t, client.ConfirmEmail(context.Background(), "tok"))
		require.Equal(t, "/api/auth/confirm-email", c.path)
		require.Equal(t, "tok", c.body["token"])
	})
	t.Run("forgot password", func(t *testing.T) {
		require.NoError(t, client.ForgotPassword(context.Background(), "A@b.io"))
		require.Equal(t, "/api/auth/reset-password/request", c.path)
		require.Equal(t, "a@b.io", c.body["email"])
	})
	t.Run("reset password", func(t *testing.T) {
		require.NoError(t, client.ResetPassword(context.Background(), "tok", "pw"))
		require.Equal(t, "/api/auth/reset-password/confirm", c.path)
	})
	t.Run("register without message", func(t *testing.T) {
		msg, err := client.Register(context.Background(), api.RegisterRequest{Email: "a@b.io"})
		require.NoError(t, err)
		require.Empty(t, msg)
	})
}

func TestProfile(t *testing.T) {
	client, c := newServer(t, http.StatusOK, `{"id":"7","email":"a@b.io","firstName":"Ada","credits":12}`)

	u, err := client.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Ada", u.FirstName)
	require.Equal(t, 12, u.Credits)
	require.Equal(t, "/api/users/me", c.path)

	name := "Grace"
	_, err = client.UpdateProfile(context.Background(), api.ProfileUpdate{FirstName: &name})
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, c.method)
	require.Equal(t, map[string]any{"firstName": "Grace"}, c.body)
}

func TestCredits(t *testing.T) {
	client, c := newServer(t, http.StatusOK, `{"credits":42}`)
	n, err := client.Credits(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, n)
	require.Equal(t, "/api/credits", c.path)
}

func TestPackages(t *testing.T) {
	client, _ := newServer(t, http.StatusOK, `[{"id":"p1","name":"Starter","credits":100,"price":999,"currency":"eur","active":true}]`)
	pkgs, err := client.Packages(context.Background())
	require.NoError(t, err)
	require.Equal(t, []api.Package{{ID: "p1", Name: "Starter", Credits: 100, Price: 999, Currency: "eur", Active: true}}, pkgs)
}

func TestCreateCheckout(t *testing.T) {
	client, c := newServer(t, http.StatusOK, `{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_1","amount_total":999,"currency":"eur"}`)
	sess, err := client.CreateCheckout(context.Background(), api.CheckoutRequest{PackageID: "p1", SuccessURL: "http://app/payment/success"})
	require.NoError(t, err)
	require.Equal(t, "cs_test_1", sess.ID)
	require.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", sess.URL)
	require.Equal(t, int64(999), sess.AmountTotal)
	require.Equal(t, stripe.Currency("eur"), sess.Currency)
	require.Equal(t, "/api/payments/checkout", c.path)
	require.Equal(t, "p1", c.body["packageId"])
}

func TestBillingHistory(t *testing.T) {
	client, _ := newServer(t, http.StatusOK, `{"data":[{"id":"in_1","object":"invoice","amount_paid":999,"currency":"eur","status":"paid","number":"A-0001"}]}`)
	inv, err := client.BillingHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, inv, 1)
	require.Equal(t, "in_1", inv[0].ID)
	require.Equal(t, int64(999), inv[0].AmountPaid)
	require.Equal(t, stripe.InvoiceStatusPaid, inv[0].Status)
}

func TestSearch(t *testing.T) {
	client, c := newServer(t, http.StatusOK, `[{"id":"d1","title":"Annual report","score":0.9}]`)
	docs, err := client.Search(context.Background(), "annual report")
	require.NoError(t, err)
	require.Equal(t, "Annual report", docs[0].Title)
	require.Equal(t, "/api/documents/search", c.path)
	require.Equal(t, "q=annual+report", c.query)
}

func TestAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("list users", func(t *testing.T) {
		client, c := newServer(t, http.StatusOK, `[{"id":"1","role":"user"},{"id":"2","role":"adminuser"}]`)
		list, err := client.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "/api/admin/users", c.path)
	})
	t.Run("delete user", func(t *testing.T) {
		client, c := newServer(t, http.StatusNoContent, "")
		require.NoError(t, client.DeleteUser(ctx, "a/b"))
		require.Equal(t, http.MethodDelete, c.method)
		require.Equal(t, "/api/admin/users/a/b", c.path)
	})
	t.Run("admins", func(t *testing.T) {
		client, c := newServer(t, http.StatusOK, `{"id":"9","email":"x@y.io","role":"adminuser"}`)
		u, err := client.CreateAdmin(ctx, api.AdminRequest{Email: "X@y.io", Password: "pw", Role: "adminuser"})
		require.NoError(t, err)
		require.Equal(t, "9", u.ID)
		require.Equal(t, "x@y.io", c.body["email"])
		require.Equal(t, "/api/admin/admins", c.path)
	})
	t.Run("packages", func(t *testing.T) {
		client, c := newServer(t, http.StatusOK, `{"id":"p9","name":"Bulk","credits":1000}`)
		p, err := client.CreatePackage(ctx, api.Package{Name: "Bulk", Credits: 1000})
		require.NoError(t, err)
		require.Equal(t, "p9", p.ID)
		require.Equal(t, "/api/admin/packages", c.path)
		require.NoError(t, client.DeletePackage(ctx, "p9"))
		require.Equal(t, "/api/admin/packages/p9", c.path)
	})
	t.Run("forbidden", func(t *testing.T) {
		client, _ := newServer(t, http.StatusForbidden, `{"message":"Admins only"}`)
		_, err := client.ListAdmins(ctx)
		require.Equal(t, http.StatusForbidden, interceptor.StatusOf(err))
	})
}

func TestDecodeError(t *testing.T) {
	client, _ := newServer(t, http.StatusOK, `{"credits":"many"}`)
	_, err := client.Credits(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode GET")
}
