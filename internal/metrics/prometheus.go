package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Conceptual-Machines/constraint-api/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics exposes request and correction-loop metrics for scraping
type PrometheusMetrics struct {
	registry *prometheus.Registry

	apiRequests        *prometheus.CounterVec
	apiDuration        *prometheus.HistogramVec
	generations        *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	correctionRounds   *prometheus.HistogramVec
	modelCalls         *prometheus.CounterVec
	modelTokens        *prometheus.CounterVec
	violations         *prometheus.CounterVec
}

// NewPrometheusMetrics registers all collectors on a fresh registry
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &PrometheusMetrics{
		registry: registry,

		apiRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "constraint_api_requests_total",
			Help: "Total API requests by endpoint and status code",
		}, []string{"endpoint", "status"}),

		apiDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "constraint_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
		}, []string{"endpoint"}),

		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "constraint_generations_total",
			Help: "Finished generation runs by kind and outcome",
		}, []string{"kind", "outcome"}),

		generationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "constraint_generation_duration_seconds",
			Help:    "Generation run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~200s
		}, []string{"kind"}),

		correctionRounds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "constraint_correction_rounds",
			Help:    "Correction rounds needed per run",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}, []string{"kind"}),

		modelCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "constraint_model_calls_total",
			Help: "Model back-end calls by provider and model",
		}, []string{"provider", "model"}),

		modelTokens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "constraint_model_tokens_total",
			Help: "Tokens consumed by provider, model and direction",
		}, []string{"provider", "model", "direction"}),

		violations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "constraint_violations_total",
			Help: "Violations found by validation, by group operator",
		}, []string{"operator"}),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordAPIRequest counts a request and observes its latency
func (m *PrometheusMetrics) RecordAPIRequest(endpoint string, statusCode int, duration time.Duration) {
	m.apiRequests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	m.apiDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordGeneration records a finished run
func (m *PrometheusMetrics) RecordGeneration(kind, outcome string, rounds int, duration time.Duration) {
	m.generations.WithLabelValues(kind, outcome).Inc()
	m.generationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	m.correctionRounds.WithLabelValues(kind).Observe(float64(rounds))
}

// RecordModelCall counts a model call and its tokens
func (m *PrometheusMetrics) RecordModelCall(provider, model string, usage models.TokenUsage) {
	m.modelCalls.WithLabelValues(provider, model).Inc()
	m.modelTokens.WithLabelValues(provider, model, "input").Add(float64(usage.InputTokens))
	m.modelTokens.WithLabelValues(provider, model, "output").Add(float64(usage.OutputTokens))
}

// RecordViolations counts violations per operator
func (m *PrometheusMetrics) RecordViolations(violations []models.Violation) {
	for _, v := range violations {
		m.violations.WithLabelValues(string(v.Operator)).Inc()
	}
}
