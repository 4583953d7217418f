package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OutcomeSuccess labels a fetch or conversion that succeeded.
const OutcomeSuccess = "success"

// Metrics holds the collectors for rate fetches and conversions.
// Each instance owns its own registry. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	FetchTotal       *prometheus.CounterVec
	FetchDuration    *prometheus.HistogramVec
	ConversionsTotal *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		FetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rateconv_fetch_total",
				Help: "Total number of rate fetches by base currency and outcome",
			},
			[]string{"base", "outcome"},
		),

		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rateconv_fetch_duration_seconds",
				Help:    "Rate fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"base"},
		),

		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rateconv_conversions_total",
				Help: "Total number of single conversions by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveFetch records one settled fetch.
func (m *Metrics) ObserveFetch(base, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(base, outcome).Inc()
	m.FetchDuration.WithLabelValues(base).Observe(elapsed.Seconds())
}

// ObserveConversion records one conversion attempt.
func (m *Metrics) ObserveConversion(outcome string) {
	if m == nil {
		return
	}
	m.ConversionsTotal.WithLabelValues(outcome).Inc()
}

// Handler serves the collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
