package constrained

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Conceptual-Machines/constraint-api/internal/constraints"
	"github.com/Conceptual-Machines/constraint-api/internal/llm"
	"github.com/Conceptual-Machines/constraint-api/internal/models"
	"github.com/Conceptual-Machines/constraint-api/internal/prompt"
)

// NoConstraintsToAnalyze is the explanation for an empty violation list
const NoConstraintsToAnalyze = "No constraints to analyze."

// Explainer turns violations into an analysis that steers the next
// correction. Structure failures are explained from the point count; the
// rest are sent to the model.
type Explainer struct {
	generator llm.Generator
	prompts   *prompt.Builder
}

// NewExplainer creates an explainer that asks generator for analyses
func NewExplainer(generator llm.Generator, prompts *prompt.Builder) *Explainer {
	return &Explainer{generator: generator, prompts: prompts}
}

// Explain returns the analysis for violations of response. When a model
// analysis is needed, the analysis prompt and the reply are appended to
// transcript.
func (e *Explainer) Explain(
	ctx context.Context,
	transcript *models.Transcript,
	response string,
	violations []models.Violation,
) (string, error) {
	if len(violations) == 0 {
		return NoConstraintsToAnalyze, nil
	}

	points := constraints.CountPoints(response)
	var structureLines, otherLines []string
	for _, v := range violations {
		rendered := prompt.RenderViolation(v)
		if rendered == "" {
			continue
		}
		if target, ok := structureTarget(v); ok {
			structureLines = append(structureLines,
				prompt.StructureExplanation(rendered, points, target, v.Operator == models.OperatorNot))
			continue
		}
		otherLines = append(otherLines, rendered)
	}

	if len(otherLines) == 0 {
		if len(structureLines) == 0 {
			return NoConstraintsToAnalyze, nil
		}
		return strings.Join(structureLines, "\n"), nil
	}

	analysisPrompt, err := e.prompts.AnalysisPrompt(response, strings.Join(otherLines, "\n"))
	if err != nil {
		return "", fmt.Errorf("failed to build analysis prompt: %w", err)
	}

	transcript.AppendUser(analysisPrompt)
	analysis, err := Continue(ctx, e.generator, transcript)
	if err != nil {
		return "", err
	}

	if len(structureLines) == 0 {
		return analysis, nil
	}
	return "Structure Analysis:\n" + strings.Join(structureLines, "\n") +
		"\n\nOther Constraints Analysis:\n" + analysis, nil
}

// structureTarget returns the point target of an AND/NOT structure violation
func structureTarget(v models.Violation) (int, bool) {
	if v.Operator == models.OperatorOr || !v.IsStructure() {
		return 0, false
	}
	target, err := strconv.Atoi(strings.TrimSpace(v.Constraint.Value))
	if err != nil {
		return 0, false
	}
	return target, true
}
