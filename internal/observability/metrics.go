package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Attempt outcomes reported through ObserveAttempt.
const (
	OutcomeSuccess        = "success"
	OutcomeTransportError = "transport_error"
	OutcomeShapeError     = "shape_error"
	OutcomeCanceled       = "canceled"
)

// Metrics records routing and redaction activity.
type Metrics interface {
	ObserveAttempt(provider, outcome string)
	ObserveLatency(provider string, seconds float64)
	ObserveFallback(from, to string)
	ObserveRedaction(entity string, n int)
}

// PrometheusMetrics implements Metrics on a Prometheus registry.
//
// Metrics:
//   - claiminvestigator_provider_attempts_total{provider,outcome}
//   - claiminvestigator_provider_latency_seconds{provider}
//   - claiminvestigator_fallbacks_total{from,to}
//   - claiminvestigator_redactions_total{entity}
type PrometheusMetrics struct {
	registry   *prometheus.Registry
	attempts   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	fallbacks  *prometheus.CounterVec
	redactions *prometheus.CounterVec
}

// NewPrometheusMetrics creates and registers the gateway metrics. A nil
// registry gets a fresh one.
func NewPrometheusMetrics(registry *prometheus.Registry) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &PrometheusMetrics{
		registry: registry,
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "claiminvestigator",
				Name:      "provider_attempts_total",
				Help:      "Provider call attempts by outcome",
			},
			[]string{"provider", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "claiminvestigator",
				Name:      "provider_latency_seconds",
				Help:      "Latency of successful provider calls in seconds",
				// LLM calls run from sub-second to the 180s attempt timeout
				Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 180},
			},
			[]string{"provider"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "claiminvestigator",
				Name:      "fallbacks_total",
				Help:      "Completions served by a fallback provider",
			},
			[]string{"from", "to"},
		),
		redactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "claiminvestigator",
				Name:      "redactions_total",
				Help:      "Redacted PII spans by entity type",
			},
			[]string{"entity"},
		),
	}

	registry.MustRegister(m.attempts, m.latency, m.fallbacks, m.redactions)
	return m
}

func (m *PrometheusMetrics) ObserveAttempt(provider, outcome string) {
	m.attempts.WithLabelValues(provider, outcome).Inc()
}

func (m *PrometheusMetrics) ObserveLatency(provider string, seconds float64) {
	m.latency.WithLabelValues(provider).Observe(seconds)
}

func (m *PrometheusMetrics) ObserveFallback(from, to string) {
	m.fallbacks.WithLabelValues(from, to).Inc()
}

func (m *PrometheusMetrics) ObserveRedaction(entity string, n int) {
	if n <= 0 {
		return
	}
	m.redactions.WithLabelValues(entity).Add(float64(n))
}

// Registry returns the underlying registry.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) ObserveAttempt(string, string)  {}
func (NopMetrics) ObserveLatency(string, float64) {}
func (NopMetrics) ObserveFallback(string, string) {}
func (NopMetrics) ObserveRedaction(string, int)   {}
