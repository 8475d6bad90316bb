package main

import (
	"context"
	"log"
	"time"

	"github.com/Conceptual-Machines/constraint-api/internal/api"
	"github.com/Conceptual-Machines/constraint-api/internal/api/handlers"
	"github.com/Conceptual-Machines/constraint-api/internal/config"
	"github.com/Conceptual-Machines/constraint-api/internal/llm"
	"github.com/Conceptual-Machines/constraint-api/internal/metrics"
	"github.com/Conceptual-Machines/constraint-api/internal/models"
	"github.com/Conceptual-Machines/constraint-api/internal/observability"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	sentryFlushTimeout = 2 * time.Second
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()
	ctx := context.Background()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "constraint-api@" + releaseVersion, // Use embedded release version
			EnableTracing:    true,                               // Enable tracing for spans
			TracesSampleRate: 1.0,                                // 100% sampling for now, adjust based on volume
			EnableLogs:       true,                               // Enable Sentry Logs feature
			Debug:            !cfg.IsProduction(),                // Enable debug in non-prod
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				// Filter out sensitive data
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			// Flush on shutdown
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	// LLM tracing
	observability.InitializeLangfuse(ctx, cfg)

	// Metrics sinks
	cloudwatch, err := metrics.NewClient(ctx, cfg.Environment)
	if err != nil {
		log.Printf("⚠️  CloudWatch metrics unavailable: %v", err)
	}
	var prom *metrics.PrometheusMetrics
	if cfg.MetricsEnabled {
		prom = metrics.NewPrometheusMetrics()
		log.Println("📊 Prometheus metrics: ✅ ENABLED (/metrics)")
	}
	collector := metrics.NewCollector(metrics.NewSentryMetrics(), cloudwatch, prom)

	// Model back-ends
	factory := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey).
		WithOpenAIBaseURL(cfg.OpenAIBaseURL).
		WithOpenRouterAPIKey(cfg.OpenRouterAPIKey)
	source := generatorSource(factory, collector)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := api.SetupRouter(cfg, source, collector, GetVersion())

	log.Printf("🚀 Starting server on port %s (default model: %s)", cfg.Port, cfg.DefaultModel)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}

// generatorSource binds factory generators to the metrics collector
func generatorSource(factory *llm.ProviderFactory, collector *metrics.Collector) handlers.GeneratorSource {
	observer := func(ctx context.Context, provider, model string, usage models.TokenUsage, duration time.Duration) {
		collector.RecordModelCall(ctx, provider, model, usage)
		log.Printf("🔢 %s/%s: %d tokens in %v (cost %s)", provider, model, usage.TotalTokens, duration,
			observability.FormatCost(observability.CalculateCost(model, usage)))
	}

	return handlers.GeneratorSourceFunc(func(ctx context.Context, model, providerName string) (llm.Generator, error) {
		generator, err := factory.GetGenerator(ctx, model, providerName)
		if err != nil {
			return nil, err
		}
		return generator.WithUsageObserver(observer), nil
	})
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[k] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
