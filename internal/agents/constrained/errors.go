package constrained

import (
	"errors"

	"github.com/Conceptual-Machines/constraint-api/internal/constraints"
	"github.com/Conceptual-Machines/constraint-api/internal/llm"
	"github.com/Conceptual-Machines/constraint-api/internal/metrics"
)

var (
	// ErrEmptyQuestion is returned before any model call for a blank question
	ErrEmptyQuestion = errors.New("question must not be empty")

	// ErrCorrectionLimitExceeded is returned when MaxCorrectionRounds
	// corrections were spent without a valid response
	ErrCorrectionLimitExceeded = errors.New("correction limit exceeded")

	// ErrCancelled is returned when the context ends between model calls.
	// The returned error also wraps the context error.
	ErrCancelled = errors.New("request cancelled")
)

// Outcome maps a run error to its metrics label
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrEmptyQuestion):
		return metrics.OutcomeInvalidRequest
	case errors.Is(err, constraints.ErrInvalidConstraintSet):
		return metrics.OutcomeInvalidConstraintSet
	case errors.Is(err, ErrCancelled):
		return metrics.OutcomeCancelled
	case errors.Is(err, ErrCorrectionLimitExceeded):
		return metrics.OutcomeCorrectionLimitExceeded
	case errors.Is(err, llm.ErrGenerationUnavailable):
		return metrics.OutcomeGenerationUnavailable
	default:
		return metrics.OutcomeError
	}
}
