package utils_test

import (
	"testing"

	"github.com/jrsteele09/go-credits-portal/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestToStringSlice(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, utils.ToStringSlice([]any{"a", 1, nil, "b"}))
	require.Empty(t, utils.ToStringSlice(nil))
}

func TestPointers(t *testing.T) {
	p := utils.Ptr("x")
	require.Equal(t, "x", *p)
	require.Equal(t, "x", utils.Value(p))

	var nilInt *int
	require.Equal(t, 0, utils.Value(nilInt))
}
