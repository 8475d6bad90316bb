package observability

import (
	"strconv"
	"strings"

	"github.com/Conceptual-Machines/constraint-api/internal/models"
)

// Pricing constants
const (
	tokensPerKilo       = 1000.0
	costFormatPrecision = 6

	// GPT-4o pricing
	gpt4oInputPrice  = 0.0025
	gpt4oOutputPrice = 0.01

	// GPT-4o-mini pricing
	gpt4oMiniInputPrice  = 0.00015
	gpt4oMiniOutputPrice = 0.0006

	// Gemini 2.0 Flash pricing
	gemini20FlashInputPrice  = 0.0001
	gemini20FlashOutputPrice = 0.0004

	// Gemini 1.5 Pro pricing
	gemini15ProInputPrice  = 0.00125
	gemini15ProOutputPrice = 0.005

	// DeepSeek chat pricing
	deepseekChatInputPrice  = 0.00027
	deepseekChatOutputPrice = 0.0011
)

// ModelPricing contains pricing information per 1K tokens
type ModelPricing struct {
	InputPricePer1K  float64 // Price per 1K input tokens in USD
	OutputPricePer1K float64 // Price per 1K output tokens in USD
}

// PricingTable contains pricing for known models. Keys are matched as
// prefixes, so dated snapshots resolve to their family.
var PricingTable = map[string]ModelPricing{
	"gpt-4o": {
		InputPricePer1K:  gpt4oInputPrice,
		OutputPricePer1K: gpt4oOutputPrice,
	},
	"gpt-4o-mini": {
		InputPricePer1K:  gpt4oMiniInputPrice,
		OutputPricePer1K: gpt4oMiniOutputPrice,
	},
	"gemini-2.0-flash": {
		InputPricePer1K:  gemini20FlashInputPrice,
		OutputPricePer1K: gemini20FlashOutputPrice,
	},
	"gemini-1.5-pro": {
		InputPricePer1K:  gemini15ProInputPrice,
		OutputPricePer1K: gemini15ProOutputPrice,
	},
	"deepseek/deepseek-chat": {
		InputPricePer1K:  deepseekChatInputPrice,
		OutputPricePer1K: deepseekChatOutputPrice,
	},
}

// LookupPricing finds the pricing whose key is the longest prefix of model
func LookupPricing(model string) (ModelPricing, bool) {
	model = strings.ToLower(model)
	best := ""
	for key := range PricingTable {
		if strings.HasPrefix(model, key) && len(key) > len(best) {
			best = key
		}
	}
	if best == "" {
		return ModelPricing{}, false
	}
	return PricingTable[best], true
}

// CalculateCost calculates the cost in USD for a model call. Unknown and
// free (":free" suffixed) models cost nothing.
func CalculateCost(model string, usage models.TokenUsage) float64 {
	if strings.HasSuffix(model, ":free") {
		return 0
	}
	pricing, ok := LookupPricing(model)
	if !ok {
		return 0
	}

	inputCost := (float64(usage.InputTokens) / tokensPerKilo) * pricing.InputPricePer1K
	outputCost := (float64(usage.OutputTokens) / tokensPerKilo) * pricing.OutputPricePer1K
	return inputCost + outputCost
}

// FormatCost formats a cost value as a USD string
func FormatCost(cost float64) string {
	return "$" + formatFloat(cost, costFormatPrecision)
}

// formatFloat formats a float with specified precision using strconv
func formatFloat(f float64, precision int) string {
	return strconv.FormatFloat(f, 'f', precision, 64)
}
