package metrics

import (
	"context"
	"time"

	"github.com/Conceptual-Machines/constraint-api/internal/models"
)

// Run outcomes used as metric labels
const (
	OutcomeSuccess                 = "success"
	OutcomeInvalidRequest          = "invalid_request"
	OutcomeInvalidConstraintSet    = "invalid_constraint_set"
	OutcomeGenerationUnavailable   = "generation_unavailable"
	OutcomeCorrectionLimitExceeded = "correction_limit_exceeded"
	OutcomeCancelled               = "cancelled"
	OutcomeError                   = "error"
)

// Collector fans every event out to the configured sinks. A nil Collector
// and nil sinks are valid and record nothing.
type Collector struct {
	sentry     *SentryMetrics
	cloudwatch *Client
	prometheus *PrometheusMetrics
}

// NewCollector creates a collector over the given sinks
func NewCollector(sentryMetrics *SentryMetrics, cloudwatch *Client, prom *PrometheusMetrics) *Collector {
	return &Collector{
		sentry:     sentryMetrics,
		cloudwatch: cloudwatch,
		prometheus: prom,
	}
}

// Prometheus returns the Prometheus sink, if any
func (c *Collector) Prometheus() *PrometheusMetrics {
	if c == nil {
		return nil
	}
	return c.prometheus
}

// RecordAPIRequest records one HTTP request
func (c *Collector) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if c == nil {
		return
	}
	if c.sentry != nil {
		c.sentry.RecordAPIRequest(ctx, endpoint, statusCode, duration)
	}
	if c.cloudwatch != nil {
		c.cloudwatch.RecordAPIRequest(endpoint, statusCode, duration)
	}
	if c.prometheus != nil {
		c.prometheus.RecordAPIRequest(endpoint, statusCode, duration)
	}
}

// RecordModelCall records one successful model call
func (c *Collector) RecordModelCall(ctx context.Context, provider, model string, usage models.TokenUsage) {
	if c == nil {
		return
	}
	if c.sentry != nil {
		c.sentry.RecordTokenUsage(ctx, provider, model, usage)
	}
	if c.cloudwatch != nil {
		c.cloudwatch.RecordTokenUsage(model, usage)
	}
	if c.prometheus != nil {
		c.prometheus.RecordModelCall(provider, model, usage)
	}
}

// RecordGeneration records a finished correction loop or review
func (c *Collector) RecordGeneration(ctx context.Context, kind, outcome string, rounds int, duration time.Duration) {
	if c == nil {
		return
	}
	if c.sentry != nil {
		c.sentry.RecordGeneration(ctx, kind, outcome, rounds, duration)
	}
	if c.cloudwatch != nil {
		c.cloudwatch.RecordGeneration(outcome, rounds, duration)
	}
	if c.prometheus != nil {
		c.prometheus.RecordGeneration(kind, outcome, rounds, duration)
	}
}

// RecordViolations records the violations of one validation
func (c *Collector) RecordViolations(violations []models.Violation) {
	if c == nil || len(violations) == 0 {
		return
	}
	if c.prometheus != nil {
		c.prometheus.RecordViolations(violations)
	}
}
