package metrics_test

import (
	"testing"

	"github.com/jrsteele09/go-credits-portal/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.SetInFlight(3)
	m.RecordFailure(500)
	m.RecordFailure(500)
	m.RecordToast("error")
	m.RecordForcedLogout()

	require.Equal(t, 3.0, testutil.ToFloat64(m.InFlight))
	require.Equal(t, 2.0, testutil.ToFloat64(m.HTTPFailures.WithLabelValues("500")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Toasts.WithLabelValues("error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ForcedLogouts))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.SetInFlight(1)
		m.RecordFailure(0)
		m.RecordToast("info")
		m.RecordForcedLogout()
	})
}
