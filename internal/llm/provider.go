package llm

import (
	"context"

	"github.com/Conceptual-Machines/constraint-api/internal/models"
)

// Provider defines the interface for LLM back-ends.
// Providers return plain text; they never interpret the output.
type Provider interface {
	// Generate continues the conversation held in request.Turns
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// GenerationRequest contains all parameters needed for generation
type GenerationRequest struct {
	Model string
	// SystemPrompt is optional. Each provider decides how to pass it.
	SystemPrompt string
	Turns        []models.Turn
}

// GenerationResponse contains the result from the LLM
type GenerationResponse struct {
	Text  string            `json:"text"`
	Model string            `json:"model"`
	Usage models.TokenUsage `json:"usage"`
}
