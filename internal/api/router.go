package api

import (
	"github.com/Conceptual-Machines/constraint-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/constraint-api/internal/api/middleware"
	"github.com/Conceptual-Machines/constraint-api/internal/config"
	"github.com/Conceptual-Machines/constraint-api/internal/metrics"
	"github.com/gin-gonic/gin"
)

func SetupRouter(cfg *config.Config, source handlers.GeneratorSource, collector *metrics.Collector, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(collector))

	// CORS middleware
	router.Use(apimiddleware.CORS(cfg.AllowedOrigins))

	// Health check
	healthHandler := handlers.NewHealthHandler(cfg)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoints
	metricsHandler := handlers.NewMetricsHandler(version, cfg)
	router.GET("/api/metrics", metricsHandler.GetMetrics)
	if prom := collector.Prometheus(); cfg.MetricsEnabled && prom != nil {
		router.GET("/metrics", gin.WrapH(prom.Handler()))
	}

	responsesHandler := handlers.NewResponsesHandler(source, cfg, collector)
	reviewHandler := handlers.NewReviewHandler(source, cfg, collector)
	validateHandler := handlers.NewValidateHandler(collector)

	auth := apimiddleware.Auth(cfg)

	// Legacy paths used by the existing frontend
	legacy := router.Group("/")
	legacy.Use(auth)
	{
		legacy.POST("/generate_response/", responsesHandler.Generate)
		legacy.POST("/generate_valid_response/", reviewHandler.Review)
	}

	v1 := router.Group("/api/v1")
	v1.Use(auth)
	{
		v1.POST("/responses", responsesHandler.Generate)
		v1.POST("/reviews", reviewHandler.Review)
		v1.POST("/validate", validateHandler.Validate)
	}

	return router
}
