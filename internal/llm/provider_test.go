package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Conceptual-Machines/constraint-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockProvider is a test implementation of the Provider interface
type MockProvider struct {
	name         string
	generateFunc func(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, request)
	}
	return &GenerationResponse{}, nil
}

func TestProviderInterface(t *testing.T) {
	mock := &MockProvider{
		name: "mock",
	}

	assert.Equal(t, "mock", mock.Name())
}

func TestProviderGenerator_PassesTurnsAndFraming(t *testing.T) {
	callCount := 0
	mock := &MockProvider{
		name: "test",
		generateFunc: func(_ context.Context, request *GenerationRequest) (*GenerationResponse, error) {
			callCount++
			require.Equal(t, "test-model", request.Model)
			require.Equal(t, "Always follow these rules:", request.SystemPrompt)
			require.Len(t, request.Turns, 2)
			assert.Equal(t, models.RoleUser, request.Turns[0].Role)
			assert.Equal(t, models.RoleAssistant, request.Turns[1].Role)
			return &GenerationResponse{
				Text:  "1. red",
				Usage: models.TokenUsage{InputTokens: 10, OutputTokens: 3, TotalTokens: 13},
			}, nil
		},
	}

	var observed models.TokenUsage
	var observedModel string
	gen := NewProviderGenerator(mock, "test-model").
		WithUsageObserver(func(_ context.Context, provider, model string, usage models.TokenUsage, _ time.Duration) {
			assert.Equal(t, "test", provider)
			observedModel = model
			observed = usage
		})

	text, err := gen.Generate(context.Background(), []models.Turn{
		{Role: models.RoleUser, Text: "question"},
		{Role: models.RoleAssistant, Text: "answer"},
	}, "Always follow these rules:")

	require.NoError(t, err)
	assert.Equal(t, "1. red", text)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "test-model", observedModel)
	assert.Equal(t, 13, observed.TotalTokens)
	assert.Equal(t, "test/test-model", gen.Name())
}

func TestProviderGenerator_Errors(t *testing.T) {
	tests := []struct {
		name string
		resp *GenerationResponse
		err  error
	}{
		{name: "provider failure", err: errors.New("connection refused")},
		{name: "blank text", resp: &GenerationResponse{Text: "   \n"}},
		{name: "nil response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockProvider{
				name: "test",
				generateFunc: func(context.Context, *GenerationRequest) (*GenerationResponse, error) {
					return tt.resp, tt.err
				},
			}

			text, err := NewProviderGenerator(mock, "m").Generate(context.Background(),
				[]models.Turn{{Role: models.RoleUser, Text: "q"}}, "")

			assert.Empty(t, text)
			assert.ErrorIs(t, err, ErrGenerationUnavailable)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestGeneratorFunc(t *testing.T) {
	var gen Generator = GeneratorFunc(func(_ context.Context, turns []models.Turn, framing string) (string, error) {
		return framing + ":" + turns[0].Text, nil
	})

	text, err := gen.Generate(context.Background(), []models.Turn{{Role: models.RoleUser, Text: "hi"}}, "sys")
	require.NoError(t, err)
	assert.Equal(t, "sys:hi", text)
}

func TestProviderFactory(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit openai", func(t *testing.T) {
		f := NewProviderFactory("sk-test", "")
		p, err := f.GetProvider(ctx, "gpt-4o-mini", "openai")
		require.NoError(t, err)
		assert.Equal(t, "openai", p.Name())
	})

	t.Run("inferred from model", func(t *testing.T) {
		f := NewProviderFactory("sk-test", "").WithOpenRouterAPIKey("or-test")

		p, err := f.GetProvider(ctx, "gpt-4o", "")
		require.NoError(t, err)
		assert.Equal(t, "openai", p.Name())

		p, err = f.GetProvider(ctx, "deepseek/deepseek-r1:free", "")
		require.NoError(t, err)
		assert.Equal(t, "openrouter", p.Name())
	})

	t.Run("cached per name", func(t *testing.T) {
		f := NewProviderFactory("sk-test", "")
		p1, err := f.GetProvider(ctx, "gpt-4o", "")
		require.NoError(t, err)
		p2, err := f.GetProvider(ctx, "gpt-4o-mini", "OpenAI")
		require.NoError(t, err)
		assert.Same(t, p1, p2)
	})

	t.Run("missing keys", func(t *testing.T) {
		f := NewProviderFactory("", "")
		for _, name := range []string{"openai", "gemini", "openrouter"} {
			_, err := f.GetProvider(ctx, "", name)
			assert.Error(t, err, name)
		}
		_, err := f.GetProvider(ctx, "gemini-2.0-flash", "")
		assert.ErrorContains(t, err, "gemini API key not configured")
	})

	t.Run("unknown provider", func(t *testing.T) {
		f := NewProviderFactory("sk-test", "g-test")
		_, err := f.GetProvider(ctx, "", "anthropic")
		assert.ErrorIs(t, err, ErrUnknownProvider)
		assert.ErrorContains(t, err, "anthropic")
	})

	t.Run("generator bound to model", func(t *testing.T) {
		f := NewProviderFactory("sk-test", "")
		gen, err := f.GetGenerator(ctx, "gpt-4o-mini", "")
		require.NoError(t, err)
		assert.Equal(t, "openai/gpt-4o-mini", gen.Name())
	})
}

func TestProviderForModel(t *testing.T) {
	assert.Equal(t, "gemini", providerForModel("gemini-2.0-flash"))
	assert.Equal(t, "gemini", providerForModel("Gemini-1.5-Pro"))
	assert.Equal(t, "openrouter", providerForModel("google/gemini-2.0-flash-exp:free"))
	assert.Equal(t, "openai", providerForModel("gpt-4o"))
	assert.Equal(t, "openai", providerForModel(""))
}
