package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Conceptual-Machines/constraint-api/internal/llm"
)

// GeneratorSource resolves a model/provider pair to a Generator
type GeneratorSource interface {
	GetGenerator(ctx context.Context, model, providerName string) (llm.Generator, error)
}

// GeneratorSourceFunc adapts a function to GeneratorSource
type GeneratorSourceFunc func(ctx context.Context, model, providerName string) (llm.Generator, error)

// GetGenerator calls f
func (f GeneratorSourceFunc) GetGenerator(ctx context.Context, model, providerName string) (llm.Generator, error) {
	return f(ctx, model, providerName)
}

// resolveGenerator looks up a generator. An unknown provider name is the
// caller's fault; any other failure (missing key, client setup) means the
// back-end is unavailable.
func resolveGenerator(ctx context.Context, source GeneratorSource, model, providerName string) (llm.Generator, error) {
	generator, err := source.GetGenerator(ctx, model, providerName)
	if err != nil {
		if errors.Is(err, llm.ErrUnknownProvider) || errors.Is(err, llm.ErrGenerationUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", llm.ErrGenerationUnavailable, err)
	}
	return generator, nil
}
