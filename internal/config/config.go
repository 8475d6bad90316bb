package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
// The service is stateless: conversations live only for one request.
type Config struct {
	// Environment
	Environment string
	Port        string

	// LLM API Keys
	OpenAIAPIKey     string // OpenAI API key for GPT models
	OpenAIBaseURL    string // Optional OpenAI-compatible endpoint
	OpenRouterAPIKey string // OpenRouter key for vendor/model ids
	GeminiAPIKey     string // Google Gemini API key

	// Generation
	DefaultProvider     string
	DefaultModel        string
	MaxCorrectionRounds int // 0 disables the cutoff
	RequestTimeout      time.Duration

	// Cross-model review pair
	ReviewProviderA string
	ReviewModelA    string
	ReviewProviderB string
	ReviewModelB    string

	// HTTP
	AllowedOrigins []string

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse
	MetricsEnabled    bool   // Expose Prometheus metrics on /metrics

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from an upstream gateway
	AuthMode string
}

const (
	defaultMaxCorrectionRounds   = 10
	defaultRequestTimeoutSeconds = 120
)

func Load() *Config {
	return &Config{
		Environment:         getEnv("ENVIRONMENT", "development"),
		Port:                getEnv("PORT", "8080"),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
		OpenRouterAPIKey:    getEnv("OPENROUTER_API_KEY", ""),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		DefaultProvider:     getEnv("DEFAULT_PROVIDER", ""),
		DefaultModel:        getEnv("DEFAULT_MODEL", "gemini-2.0-flash"),
		MaxCorrectionRounds: getEnvInt("MAX_CORRECTION_ROUNDS", defaultMaxCorrectionRounds),
		RequestTimeout:      time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeoutSeconds)) * time.Second,
		ReviewProviderA:     getEnv("REVIEW_PROVIDER_A", ""),
		ReviewModelA:        getEnv("REVIEW_MODEL_A", "gemini-2.0-flash"),
		ReviewProviderB:     getEnv("REVIEW_PROVIDER_B", ""),
		ReviewModelB:        getEnv("REVIEW_MODEL_B", "deepseek/deepseek-r1:free"),
		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		SentryDSN:           getEnv("SENTRY_DSN", ""),
		LangfusePublicKey:   getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey:   getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:        getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:     getEnv("LANGFUSE_ENABLED", "false") == "true",
		MetricsEnabled:      getEnv("METRICS_ENABLED", "true") == "true",
		AuthMode:            getEnv("AUTH_MODE", "none"), // Default to no auth for self-hosted
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to defaultValue when the variable is unset, not a
// number, or negative.
func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// IsGatewayMode returns true if running behind an authenticating gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}

// IsProduction reports whether ENVIRONMENT is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
