package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Conceptual-Machines/constraint-api/internal/models"
	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	providerNameOpenAI     = "openai"
	providerNameOpenRouter = "openrouter"

	// OpenRouterBaseURL is the OpenAI-compatible endpoint of OpenRouter
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"

	maxPreviewChars = 200
)

// OpenAIProvider implements the Provider interface using the Chat Completions
// API. It also serves OpenAI-compatible gateways such as OpenRouter. The
// system prompt is folded into a leading system message.
type OpenAIProvider struct {
	client *openai.Client
	name   string
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return NewOpenAICompatibleProvider(providerNameOpenAI, apiKey, "")
}

// NewOpenAICompatibleProvider creates a provider for any endpoint speaking
// the Chat Completions protocol. An empty baseURL targets OpenAI.
func NewOpenAICompatibleProvider(name, apiKey, baseURL string) *OpenAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAIProvider{
		client: &client,
		name:   name,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Generate implements generation using the Chat Completions API
func (p *OpenAIProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	startTime := time.Now()
	log.Printf("💬 %s GENERATION REQUEST STARTED (Model: %s, turns: %d)",
		strings.ToUpper(p.name), request.Model, len(request.Turns))

	transaction := sentry.StartTransaction(ctx, p.name+".generate")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", p.name)

	params := p.buildRequestParams(request)
	if len(params.Messages) == 0 {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("%s request has no messages", p.name)
	}

	span := transaction.StartChild(p.name + ".api_call")
	apiStartTime := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, params)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		log.Printf("❌ %s REQUEST FAILED after %v: %v", strings.ToUpper(p.name), apiDuration, err)
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("%s request failed: %w", p.name, err)
	}

	log.Printf("⏱️  %s API CALL COMPLETED in %v", strings.ToUpper(p.name), apiDuration)

	response, err := p.processResponse(request.Model, resp)
	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, err
	}

	transaction.SetTag("success", "true")
	log.Printf("✅ %s GENERATION COMPLETED in %v", strings.ToUpper(p.name), time.Since(startTime))
	return response, nil
}

// buildRequestParams builds the chat completion parameters
func (p *OpenAIProvider) buildRequestParams(request *GenerationRequest) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model:    request.Model,
		Messages: buildChatMessages(request.SystemPrompt, request.Turns),
	}
}

func buildChatMessages(systemPrompt string, turns []models.Turn) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns)+1)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}

	for _, turn := range turns {
		if turn.Text == "" {
			log.Printf("⚠️  Skipping empty %s turn", turn.Role)
			continue
		}
		switch turn.Role {
		case models.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Text))
		default:
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}

	return messages
}

func (p *OpenAIProvider) processResponse(modelName string, resp *openai.ChatCompletion) (*GenerationResponse, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in %s response", p.name)
	}

	textOutput := resp.Choices[0].Message.Content
	log.Printf("📥 %s RESPONSE: output_length=%d, finish_reason=%s",
		strings.ToUpper(p.name), len(textOutput), resp.Choices[0].FinishReason)

	if strings.TrimSpace(textOutput) == "" {
		return nil, fmt.Errorf("%s response did not include any output text", p.name)
	}
	log.Printf("🔍 Output preview: %s", truncate(textOutput, maxPreviewChars))

	model := resp.Model
	if model == "" {
		model = modelName
	}

	usage := models.TokenUsage{
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:  int(resp.Usage.TotalTokens),
	}
	log.Printf("📊 %s USAGE: input=%d, output=%d, total=%d",
		strings.ToUpper(p.name), usage.InputTokens, usage.OutputTokens, usage.TotalTokens)

	return &GenerationResponse{
		Text:  textOutput,
		Model: model,
		Usage: usage,
	}, nil
}

// truncate truncates a string to maxLen characters
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
