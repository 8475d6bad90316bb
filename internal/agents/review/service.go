package review

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Conceptual-Machines/constraint-api/internal/agents/constrained"
	"github.com/Conceptual-Machines/constraint-api/internal/constraints"
	"github.com/Conceptual-Machines/constraint-api/internal/formatter"
	"github.com/Conceptual-Machines/constraint-api/internal/llm"
	"github.com/Conceptual-Machines/constraint-api/internal/logger"
	"github.com/Conceptual-Machines/constraint-api/internal/metrics"
	"github.com/Conceptual-Machines/constraint-api/internal/models"
	"github.com/Conceptual-Machines/constraint-api/internal/observability"
	"github.com/Conceptual-Machines/constraint-api/internal/prompt"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const metricsKind = "review"

// Result holds both first drafts and the cross reviews
type Result struct {
	ID             string `json:"id"`
	ResponseA      string `json:"response_A"`
	ResponseB      string `json:"response_B"`
	AnalysisBOfA   string `json:"analysis_B_of_A"`
	AnalysisAOfB   string `json:"analysis_A_of_B"`
	HasConstraints bool   `json:"has_constraints"`
}

// Service asks two models the same question and lets each review the
// other's answer. Drafts are not corrected.
type Service struct {
	modelA  llm.Generator
	modelB  llm.Generator
	prompts *prompt.Builder
	metrics *metrics.Collector
}

// NewService creates a review service over two generators
func NewService(modelA, modelB llm.Generator) *Service {
	return &Service{
		modelA:  modelA,
		modelB:  modelB,
		prompts: prompt.NewPromptBuilder(),
	}
}

// WithMetrics sets the metrics collector
func (s *Service) WithMetrics(collector *metrics.Collector) *Service {
	s.metrics = collector
	return s
}

// Review runs the two drafts in parallel, then the two cross reviews
func (s *Service) Review(ctx context.Context, question string, groups []models.LogicalGroup) (*Result, error) {
	startTime := time.Now()

	transaction := sentry.StartTransaction(ctx, "review.run")
	defer transaction.Finish()
	ctx = transaction.Context()

	trace := observability.GetClient().StartTrace(ctx, "cross_model_review", map[string]any{
		"groups": len(groups),
	})
	defer trace.Finish()
	ctx = observability.ContextWithTrace(ctx, trace)

	result, err := s.review(ctx, question, groups)

	outcome := constrained.Outcome(err)
	transaction.SetTag("outcome", outcome)
	s.metrics.RecordGeneration(ctx, metricsKind, outcome, 0, time.Since(startTime))
	logger.LogGenerationResult(ctx, outcome, 0, time.Since(startTime), logger.Fields{
		"kind":     metricsKind,
		"trace_id": trace.ID(),
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) review(ctx context.Context, question string, groups []models.LogicalGroup) (*Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, constrained.ErrEmptyQuestion
	}

	set, err := constraints.NewConstraintSet(groups)
	if err != nil {
		return nil, err
	}

	framing, err := constrained.Framing(s.prompts, set)
	if err != nil {
		return nil, fmt.Errorf("failed to build system framing: %w", err)
	}

	transcriptA := models.NewTranscript(framing)
	transcriptA.AppendUser(question)
	transcriptB := models.NewTranscript(framing)
	transcriptB.AppendUser(question)

	log.Printf("🔀 REVIEW REQUEST: asking both models (groups=%d)", len(groups))

	var rawA, rawB string
	drafts, draftCtx := errgroup.WithContext(ctx)
	drafts.Go(func() error {
		var err error
		rawA, err = constrained.Continue(draftCtx, s.modelA, transcriptA)
		return err
	})
	drafts.Go(func() error {
		var err error
		rawB, err = constrained.Continue(draftCtx, s.modelB, transcriptB)
		return err
	})
	if err := drafts.Wait(); err != nil {
		return nil, err
	}

	reviewOfA, err := s.prompts.ReviewPrompt(rawA)
	if err != nil {
		return nil, fmt.Errorf("failed to build review prompt: %w", err)
	}
	reviewOfB, err := s.prompts.ReviewPrompt(rawB)
	if err != nil {
		return nil, fmt.Errorf("failed to build review prompt: %w", err)
	}

	// Each model reviews the other's draft in its own conversation.
	transcriptB.AppendUser(reviewOfA)
	transcriptA.AppendUser(reviewOfB)

	var analysisBOfA, analysisAOfB string
	reviews, reviewCtx := errgroup.WithContext(ctx)
	reviews.Go(func() error {
		var err error
		analysisBOfA, err = constrained.Continue(reviewCtx, s.modelB, transcriptB)
		return err
	})
	reviews.Go(func() error {
		var err error
		analysisAOfB, err = constrained.Continue(reviewCtx, s.modelA, transcriptA)
		return err
	})
	if err := reviews.Wait(); err != nil {
		return nil, err
	}

	log.Printf("✅ REVIEW COMPLETE: A=%d chars, B=%d chars", len(rawA), len(rawB))

	hasStructure := set.HasStructureConstraint()
	return &Result{
		ID:             uuid.New().String(),
		ResponseA:      formatter.Format(rawA, hasStructure),
		ResponseB:      formatter.Format(rawB, hasStructure),
		AnalysisBOfA:   formatter.Format(analysisBOfA, true),
		AnalysisAOfB:   formatter.Format(analysisAOfB, true),
		HasConstraints: !set.IsEmpty(),
	}, nil
}
