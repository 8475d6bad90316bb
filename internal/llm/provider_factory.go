package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownProvider is returned for a provider name the factory cannot build
var ErrUnknownProvider = errors.New("unknown provider")

// ProviderFactory creates providers based on model name or explicit provider
// choice. Providers hold long-lived clients and are cached by name.
type ProviderFactory struct {
	openaiAPIKey     string
	openaiBaseURL    string
	openrouterAPIKey string
	geminiAPIKey     string

	mu        sync.Mutex
	providers map[string]Provider
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(openaiAPIKey, geminiAPIKey string) *ProviderFactory {
	return &ProviderFactory{
		openaiAPIKey: openaiAPIKey,
		geminiAPIKey: geminiAPIKey,
		providers:    make(map[string]Provider),
	}
}

// WithOpenAIBaseURL points the "openai" provider at a compatible endpoint
func (f *ProviderFactory) WithOpenAIBaseURL(baseURL string) *ProviderFactory {
	f.openaiBaseURL = baseURL
	return f
}

// WithOpenRouterAPIKey enables the "openrouter" provider
func (f *ProviderFactory) WithOpenRouterAPIKey(apiKey string) *ProviderFactory {
	f.openrouterAPIKey = apiKey
	return f
}

// GetProvider returns the appropriate provider for the given model/provider name
func (f *ProviderFactory) GetProvider(ctx context.Context, model, providerName string) (Provider, error) {
	if providerName == "" {
		providerName = providerForModel(model)
	}
	name := strings.ToLower(strings.TrimSpace(providerName))

	f.mu.Lock()
	defer f.mu.Unlock()

	if p, ok := f.providers[name]; ok {
		return p, nil
	}

	p, err := f.newProvider(ctx, name)
	if err != nil {
		return nil, err
	}
	f.providers[name] = p
	return p, nil
}

// GetGenerator returns a Generator bound to model
func (f *ProviderFactory) GetGenerator(ctx context.Context, model, providerName string) (*ProviderGenerator, error) {
	p, err := f.GetProvider(ctx, model, providerName)
	if err != nil {
		return nil, err
	}
	return NewProviderGenerator(p, model), nil
}

func (f *ProviderFactory) newProvider(ctx context.Context, name string) (Provider, error) {
	switch name {
	case providerNameGemini:
		if f.geminiAPIKey == "" {
			return nil, fmt.Errorf("gemini API key not configured")
		}
		p, err := NewGeminiProvider(ctx, f.geminiAPIKey)
		if err != nil {
			return nil, err
		}
		return p, nil

	case providerNameOpenAI:
		if f.openaiAPIKey == "" {
			return nil, fmt.Errorf("openai API key not configured")
		}
		return NewOpenAICompatibleProvider(providerNameOpenAI, f.openaiAPIKey, f.openaiBaseURL), nil

	case providerNameOpenRouter:
		if f.openrouterAPIKey == "" {
			return nil, fmt.Errorf("openrouter API key not configured")
		}
		return NewOpenAICompatibleProvider(providerNameOpenRouter, f.openrouterAPIKey, OpenRouterBaseURL), nil

	default:
		return nil, fmt.Errorf("%w: %s (allowed: gemini, openai, openrouter)", ErrUnknownProvider, name)
	}
}

// providerForModel infers the provider from the model name
func providerForModel(model string) string {
	modelLower := strings.ToLower(model)

	switch {
	case strings.HasPrefix(modelLower, "gemini-"):
		return providerNameGemini
	case strings.Contains(modelLower, "/"):
		// vendor/model ids are OpenRouter's naming scheme
		return providerNameOpenRouter
	default:
		return providerNameOpenAI
	}
}
