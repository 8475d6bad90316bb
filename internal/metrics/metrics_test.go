package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Conceptual-Machines/constraint-api/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_RecordGeneration(t *testing.T) {
	m := NewPrometheusMetrics()

	m.RecordGeneration("constrained", OutcomeSuccess, 2, 3*time.Second)
	m.RecordGeneration("constrained", OutcomeSuccess, 0, time.Second)
	m.RecordGeneration("constrained", OutcomeCorrectionLimitExceeded, 10, time.Minute)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.generations.WithLabelValues("constrained", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("constrained", OutcomeCorrectionLimitExceeded)))
}

func TestPrometheusMetrics_RecordModelCall(t *testing.T) {
	m := NewPrometheusMetrics()

	m.RecordModelCall("gemini", "gemini-2.0-flash", models.TokenUsage{InputTokens: 10, OutputTokens: 4})
	m.RecordModelCall("gemini", "gemini-2.0-flash", models.TokenUsage{InputTokens: 5, OutputTokens: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.modelCalls.WithLabelValues("gemini", "gemini-2.0-flash")))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.modelTokens.WithLabelValues("gemini", "gemini-2.0-flash", "input")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.modelTokens.WithLabelValues("gemini", "gemini-2.0-flash", "output")))
}

func TestPrometheusMetrics_RecordViolations(t *testing.T) {
	m := NewPrometheusMetrics()

	m.RecordViolations([]models.Violation{
		{Operator: models.OperatorAnd},
		{Operator: models.OperatorAnd},
		{Operator: models.OperatorOr},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.violations.WithLabelValues("AND")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.violations.WithLabelValues("OR")))
}

func TestPrometheusMetrics_Handler(t *testing.T) {
	m := NewPrometheusMetrics()
	m.RecordAPIRequest("/api/v1/responses", http.StatusOK, 120*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `constraint_api_requests_total{endpoint="/api/v1/responses",status="200"} 1`), body)
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	ctx := context.Background()

	c.RecordAPIRequest(ctx, "/health", http.StatusOK, time.Millisecond)
	c.RecordModelCall(ctx, "openai", "gpt-4o", models.TokenUsage{})
	c.RecordGeneration(ctx, "review", OutcomeSuccess, 0, time.Second)
	c.RecordViolations([]models.Violation{{Operator: models.OperatorNot}})
	assert.Nil(t, c.Prometheus())

	empty := NewCollector(nil, nil, nil)
	empty.RecordAPIRequest(ctx, "/health", http.StatusOK, time.Millisecond)
	empty.RecordGeneration(ctx, "constrained", OutcomeSuccess, 1, time.Second)
}

func TestCollector_FansOutToPrometheus(t *testing.T) {
	prom := NewPrometheusMetrics()
	cw, err := NewClient(context.Background(), "development")
	require.NoError(t, err)

	c := NewCollector(nil, cw, prom)
	c.RecordGeneration(context.Background(), "constrained", OutcomeCancelled, 1, time.Second)
	c.RecordModelCall(context.Background(), "openai", "gpt-4o", models.TokenUsage{InputTokens: 1})

	assert.Same(t, prom, c.Prometheus())
	assert.Equal(t, 1.0, testutil.ToFloat64(prom.generations.WithLabelValues("constrained", OutcomeCancelled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(prom.modelCalls.WithLabelValues("openai", "gpt-4o")))
}

func TestNewClient_DisabledOutsideProduction(t *testing.T) {
	c, err := NewClient(context.Background(), "development")
	require.NoError(t, err)
	assert.False(t, c.enabled)

	// no-ops when disabled
	c.RecordAPIRequest("/health", http.StatusOK, time.Millisecond)
	c.RecordTokenUsage("gpt-4o", models.TokenUsage{})
	c.RecordGeneration(OutcomeSuccess, 0, time.Second)
}
