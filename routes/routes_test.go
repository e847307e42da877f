package routes_test

import (
	"testing"

	"github.com/jrsteele09/go-credits-portal/routes"
	"github.com/stretchr/testify/require"
)

func TestIsAuthScreen(t *testing.T) {
	require.True(t, routes.IsAuthScreen("/login"))
	require.True(t, routes.IsAuthScreen("/login?tab=login"))
	require.True(t, routes.IsAuthScreen("/forgot-password/"))
	require.True(t, routes.IsAuthScreen("/reset-password#token"))
	require.False(t, routes.IsAuthScreen("/register"))
	require.False(t, routes.IsAuthScreen("/user/buy-credits"))
	require.False(t, routes.IsAuthScreen(""))
}
