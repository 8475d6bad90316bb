package constrained

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Conceptual-Machines/constraint-api/internal/agents/core/config"
	"github.com/Conceptual-Machines/constraint-api/internal/constraints"
	"github.com/Conceptual-Machines/constraint-api/internal/formatter"
	"github.com/Conceptual-Machines/constraint-api/internal/llm"
	"github.com/Conceptual-Machines/constraint-api/internal/logger"
	"github.com/Conceptual-Machines/constraint-api/internal/metrics"
	"github.com/Conceptual-Machines/constraint-api/internal/models"
	"github.com/Conceptual-Machines/constraint-api/internal/observability"
	"github.com/Conceptual-Machines/constraint-api/internal/prompt"
	"github.com/getsentry/sentry-go"
)

const metricsKind = "constrained"

// Agent drives one question through generate, validate and correct until
// the response satisfies every constraint group.
type Agent struct {
	generator llm.Generator
	prompts   *prompt.Builder
	explainer *Explainer
	cfg       config.Config
	metrics   *metrics.Collector
}

// NewConstrainedAgent creates an agent backed by generator
func NewConstrainedAgent(generator llm.Generator, cfg config.Config) *Agent {
	prompts := prompt.NewPromptBuilder()

	agent := &Agent{
		generator: generator,
		prompts:   prompts,
		explainer: NewExplainer(generator, prompts),
		cfg:       cfg,
	}

	log.Printf("🧭 CONSTRAINED AGENT INITIALIZED (max correction rounds: %s)", roundsLabel(cfg))
	return agent
}

// WithMetrics sets the metrics collector
func (a *Agent) WithMetrics(collector *metrics.Collector) *Agent {
	a.metrics = collector
	return a
}

// Run answers question under groups. The result text is formatted and
// IterationCount is the number of correction rounds that were needed.
func (a *Agent) Run(ctx context.Context, question string, groups []models.LogicalGroup) (*models.GenerationResult, error) {
	startTime := time.Now()

	transaction := sentry.StartTransaction(ctx, "constrained.run")
	defer transaction.Finish()
	ctx = transaction.Context()

	trace := observability.GetClient().StartTrace(ctx, "constrained_response", map[string]any{
		"groups": len(groups),
	})
	defer trace.Finish()
	ctx = observability.ContextWithTrace(ctx, trace)

	result, rounds, err := a.run(ctx, question, groups)

	duration := time.Since(startTime)
	outcome := Outcome(err)
	transaction.SetTag("outcome", outcome)
	transaction.SetTag("success", fmt.Sprintf("%t", err == nil))
	transaction.SetData("correction_rounds", rounds)
	trace.SetMetadata(map[string]any{
		"groups":            len(groups),
		"outcome":           outcome,
		"correction_rounds": rounds,
	})

	a.metrics.RecordGeneration(ctx, metricsKind, outcome, rounds, duration)
	logger.LogGenerationResult(ctx, outcome, rounds, duration, logger.Fields{"trace_id": trace.ID()})

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (a *Agent) run(ctx context.Context, question string, groups []models.LogicalGroup) (*models.GenerationResult, int, error) {
	if strings.TrimSpace(question) == "" {
		return nil, 0, ErrEmptyQuestion
	}

	set, err := constraints.NewConstraintSet(groups)
	if err != nil {
		return nil, 0, err
	}

	framing, err := Framing(a.prompts, set)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build system framing: %w", err)
	}

	example := ""
	if target, ok := set.StructureTarget(); ok && set.HasStructureConstraint() {
		example = prompt.FormattingExample(target)
	}

	transcript := models.NewTranscript(framing)
	transcript.AppendUser(question)

	log.Printf("🚀 CONSTRAINED REQUEST: groups=%d, structure=%t", len(groups), set.HasStructureConstraint())

	response, err := Continue(ctx, a.generator, transcript)
	if err != nil {
		return nil, 0, err
	}

	rounds := 0
	for {
		ok, violations := constraints.Validate(response, set.Groups())
		if ok {
			break
		}
		a.metrics.RecordViolations(violations)

		if !a.cfg.Unbounded() && rounds >= a.cfg.MaxCorrectionRounds {
			return nil, rounds, fmt.Errorf("%w: %d violations left after %d rounds",
				ErrCorrectionLimitExceeded, len(violations), rounds)
		}

		rounds++
		logger.LogCorrectionRound(ctx, rounds, len(violations), nil)

		analysis, err := a.explainer.Explain(ctx, transcript, response, violations)
		if err != nil {
			return nil, rounds, err
		}

		correction, err := a.prompts.CorrectionPrompt(prompt.CorrectionInput{
			Response:    response,
			Analysis:    analysis,
			Constraints: prompt.RenderViolations(violations),
			Example:     example,
		})
		if err != nil {
			return nil, rounds, fmt.Errorf("failed to build correction prompt: %w", err)
		}

		transcript.AppendUser(correction)
		response, err = Continue(ctx, a.generator, transcript)
		if err != nil {
			return nil, rounds, err
		}
	}

	log.Printf("✅ CONSTRAINED RESPONSE ACCEPTED after %d correction rounds (%d turns)", rounds, transcript.Len())

	return &models.GenerationResult{
		Text:           formatter.Format(response, set.HasStructureConstraint()),
		IterationCount: rounds,
	}, nil
}

func roundsLabel(cfg config.Config) string {
	if cfg.Unbounded() {
		return "unbounded"
	}
	return fmt.Sprintf("%d", cfg.MaxCorrectionRounds)
}
