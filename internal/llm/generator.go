package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Conceptual-Machines/constraint-api/internal/models"
	"github.com/Conceptual-Machines/constraint-api/internal/observability"
)

// ErrGenerationUnavailable is returned when the model back-end fails or
// produces no text. Callers never retry on it.
var ErrGenerationUnavailable = errors.New("generation unavailable")

// Generator is the capability the correction loop depends on: continue a
// transcript under an optional system framing and return plain text.
type Generator interface {
	Generate(ctx context.Context, turns []models.Turn, systemFraming string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface
type GeneratorFunc func(ctx context.Context, turns []models.Turn, systemFraming string) (string, error)

// Generate calls f
func (f GeneratorFunc) Generate(ctx context.Context, turns []models.Turn, systemFraming string) (string, error) {
	return f(ctx, turns, systemFraming)
}

// UsageObserver receives token usage after every successful call
type UsageObserver func(ctx context.Context, provider, model string, usage models.TokenUsage, duration time.Duration)

// ProviderGenerator binds a Provider to a model and implements Generator.
// Every call is recorded as a Langfuse generation when the context carries
// a trace.
type ProviderGenerator struct {
	provider Provider
	model    string
	observer UsageObserver
}

// NewProviderGenerator creates a Generator backed by provider
func NewProviderGenerator(provider Provider, model string) *ProviderGenerator {
	return &ProviderGenerator{provider: provider, model: model}
}

// WithUsageObserver registers a callback for token usage
func (g *ProviderGenerator) WithUsageObserver(observer UsageObserver) *ProviderGenerator {
	g.observer = observer
	return g
}

// Name returns "<provider>/<model>"
func (g *ProviderGenerator) Name() string {
	return g.provider.Name() + "/" + g.model
}

// Generate implements Generator
func (g *ProviderGenerator) Generate(ctx context.Context, turns []models.Turn, systemFraming string) (string, error) {
	generation := observability.TraceFromContext(ctx).Generation(g.provider.Name()+".generate", map[string]any{
		"provider": g.provider.Name(),
		"turns":    len(turns),
	})
	defer generation.Finish()
	generation.Input(turnsForTrace(systemFraming, turns))

	start := time.Now()
	resp, err := g.provider.Generate(ctx, &GenerationRequest{
		Model:        g.model,
		SystemPrompt: systemFraming,
		Turns:        turns,
	})
	duration := time.Since(start)
	if err != nil {
		generation.SetLevel("ERROR")
		return "", fmt.Errorf("%w: %s: %w", ErrGenerationUnavailable, g.provider.Name(), err)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		generation.SetLevel("ERROR")
		return "", fmt.Errorf("%w: %s returned no text", ErrGenerationUnavailable, g.provider.Name())
	}

	model := resp.Model
	if model == "" {
		model = g.model
	}
	generation.LogCompletion(model, resp.Text, resp.Usage)

	if g.observer != nil {
		g.observer(ctx, g.provider.Name(), model, resp.Usage, duration)
	}

	return resp.Text, nil
}

func turnsForTrace(systemFraming string, turns []models.Turn) []map[string]any {
	out := make([]map[string]any, 0, len(turns)+1)
	if systemFraming != "" {
		out = append(out, map[string]any{"role": "system", "content": systemFraming})
	}
	for _, t := range turns {
		out = append(out, map[string]any{"role": string(t.Role), "content": t.Text})
	}
	return out
}
