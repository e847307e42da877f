package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the portal's collectors. Fields are exported so the
// interceptor and toast packages can update them directly.
type Metrics struct {
	InFlight      prometheus.Gauge
	HTTPFailures  *prometheus.CounterVec
	Toasts        *prometheus.CounterVec
	ForcedLogouts prometheus.Counter
}

// New builds the collectors and registers them on reg. A nil registerer
// leaves them unregistered, which is what most tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "portal",
			Name:      "http_in_flight",
			Help:      "Number of outstanding non-asset HTTP requests.",
		}),
		HTTPFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "http_failures_total",
			Help:      "Failed HTTP requests by status code (0 = unreachable).",
		}, []string{"status"}),
		Toasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "toasts_total",
			Help:      "Notifications shown, by variant.",
		}, []string{"variant"}),
		ForcedLogouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "forced_logouts_total",
			Help:      "Logouts triggered by a 401 on an authenticated request.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.InFlight, m.HTTPFailures, m.Toasts, m.ForcedLogouts)
	}
	return m
}

// Nop returns unregistered collectors.
func Nop() *Metrics {
	return New(nil)
}

func (m *Metrics) RecordFailure(status int) {
	if m == nil {
		return
	}
	m.HTTPFailures.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (m *Metrics) RecordToast(variant string) {
	if m == nil {
		return
	}
	m.Toasts.WithLabelValues(variant).Inc()
}

func (m *Metrics) RecordForcedLogout() {
	if m == nil {
		return
	}
	m.ForcedLogouts.Inc()
}

func (m *Metrics) SetInFlight(n int64) {
	if m == nil {
		return
	}
	m.InFlight.Set(float64(n))
}
