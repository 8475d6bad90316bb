package constrained

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/constraint-api/internal/constraints"
	"github.com/Conceptual-Machines/constraint-api/internal/llm"
	"github.com/Conceptual-Machines/constraint-api/internal/models"
	"github.com/Conceptual-Machines/constraint-api/internal/prompt"
)

// Framing renders the system framing for a constraint set. The numbered
// example is added when a structure constraint must hold.
func Framing(prompts *prompt.Builder, set *constraints.ConstraintSet) (string, error) {
	example := ""
	if set.HasStructureConstraint() {
		if target, ok := set.StructureTarget(); ok {
			example = prompt.FormattingExample(target)
		}
	}
	return prompts.SystemFraming(prompt.FramingRules(set.Groups()), example)
}

// Continue asks the generator for the next assistant turn and appends it to
// the transcript. The caller has already appended the user turn.
func Continue(ctx context.Context, generator llm.Generator, transcript *models.Transcript) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	text, err := generator.Generate(ctx, transcript.Turns(), transcript.Framing())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %w", ErrCancelled, ctxErr)
		}
		if errors.Is(err, llm.ErrGenerationUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", llm.ErrGenerationUnavailable, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response", llm.ErrGenerationUnavailable)
	}

	transcript.AppendAssistant(text)
	return text, nil
}
