package interceptor_test

import (
	"testing"

	"github.com/jrsteele09/go-credits-portal/interceptor"
	"github.com/stretchr/testify/require"
)

func TestMessageFor(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"unreachable", 0, "", "Network error: API not reachable."},
		{"bad request with server message", 400, `{"message":"Package id is required"}`, "Package id is required"},
		{"bad request without body", 400, "", "Bad request."},
		{"unauthorized ignores server text", 401, `{"message":"jwt expired"}`, "Session expired. Please sign in again."},
		{"forbidden unverified", 403, `{"message":"User email not verified"}`, "Email not verified. Check your inbox."},
		{"forbidden unverified mixed case", 403, `{"error":"Account NOT VERIFIED yet"}`, "Email not verified. Check your inbox."},
		{"forbidden other", 403, `{"message":"Admins only"}`, "Admins only"},
		{"forbidden empty", 403, "", "Error 403"},
		{"not found", 404, `{"message":"no such user"}`, "Resource not found."},
		{"validation", 422, `{"errors":{"email":["taken"],"name":["required"]}}`, "email: taken • name: required"},
		{"validation keeps document order", 422, `{"errors":{"zip":["bad"],"city":["required","too short"]}}`, "zip: bad • city: required • city: too short"},
		{"validation nested", 422, `{"errors":{"address":{"city":["required"]},"tags":[["dup"]]}}`, "address.city: required • tags: dup"},
		{"validation without field errors", 422, `{"message":"Unprocessable"}`, "Unprocessable"},
		{"validation empty", 422, "", "Error 422"},
		{"validation bare field object", 422, `{"email":["taken"],"name":["required"]}`, "email: taken • name: required"},
		{"rate limited", 429, "", "Too many requests. Please try again later."},
		{"server error", 500, `{"message":"panic"}`, "Server error. Please try again later."},
		{"bad gateway", 502, "<html>", "Server error. Please try again later."},
		{"other with message", 409, `{"message":"Already exists"}`, "Already exists"},
		{"other without message", 409, "", "Error 409"},
		{"message list", 409, `{"message":["a","b"]}`, "a • b"},
		{"non json body", 418, "teapot", "Error 418"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, interceptor.MessageFor(tt.status, []byte(tt.body)))
		})
	}
}

func TestFieldErrors(t *testing.T) {
	t.Run("top level list", func(t *testing.T) {
		require.Equal(t, []string{"one", "two"}, interceptor.FieldErrors([]byte(`{"errors":["one","two"]}`)))
	})
	t.Run("missing", func(t *testing.T) {
		require.Nil(t, interceptor.FieldErrors([]byte(`{"message":"x"}`)))
	})
	t.Run("bare field object", func(t *testing.T) {
		require.Equal(t, []string{"password: too short", "profile.age: must be positive"},
			interceptor.FieldErrors([]byte(`{"password":["too short"],"profile":{"age":"must be positive"}}`)))
	})
	t.Run("malformed", func(t *testing.T) {
		require.Nil(t, interceptor.FieldErrors([]byte(`{"errors":`)))
	})
}
