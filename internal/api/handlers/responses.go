package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Conceptual-Machines/constraint-api/internal/agents/constrained"
	agentconfig "github.com/Conceptual-Machines/constraint-api/internal/agents/core/config"
	"github.com/Conceptual-Machines/constraint-api/internal/config"
	"github.com/Conceptual-Machines/constraint-api/internal/metrics"
	"github.com/Conceptual-Machines/constraint-api/internal/models"
	"github.com/gin-gonic/gin"
)

// ResponsesHandler serves constrained generation
type ResponsesHandler struct {
	source  GeneratorSource
	cfg     *config.Config
	metrics *metrics.Collector
}

func NewResponsesHandler(source GeneratorSource, cfg *config.Config, collector *metrics.Collector) *ResponsesHandler {
	return &ResponsesHandler{
		source:  source,
		cfg:     cfg,
		metrics: collector,
	}
}

// GenerateRequest is the body of a constrained generation request
type GenerateRequest struct {
	Question      string                `json:"question"`
	LogicalGroups []models.LogicalGroup `json:"logicalGroups"`
	// Optional overrides; defaults come from DEFAULT_MODEL / DEFAULT_PROVIDER
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// GenerateResponse is returned when the response satisfies every group
type GenerateResponse struct {
	models.GenerationResult
	Model     string `json:"model"`
	RequestID string `json:"request_id"`
}

// Generate runs the generate/validate/correct loop for one question
func (h *ResponsesHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %w", errInvalidRequest, err))
		return
	}

	ctx, cancel := requestContext(c, h.cfg)
	defer cancel()

	model := firstNonEmpty(req.Model, h.cfg.DefaultModel)
	generator, err := resolveGenerator(ctx, h.source, model, firstNonEmpty(req.Provider, h.cfg.DefaultProvider))
	if err != nil {
		writeError(c, err)
		return
	}

	log.Printf("📝 Constrained generation request: model=%s, groups=%d", model, len(req.LogicalGroups))
	startTime := time.Now()

	agent := constrained.NewConstrainedAgent(generator, agentconfig.Config{
		MaxCorrectionRounds: h.cfg.MaxCorrectionRounds,
	}).WithMetrics(h.metrics)

	result, err := agent.Run(ctx, req.Question, req.LogicalGroups)
	if err != nil {
		writeError(c, err)
		return
	}

	log.Printf("✅ Constrained generation finished in %v (%d correction rounds)", time.Since(startTime), result.IterationCount)

	c.JSON(http.StatusOK, GenerateResponse{
		GenerationResult: *result,
		Model:            model,
		RequestID:        c.GetString("request_id"),
	})
}

// requestContext bounds the request by REQUEST_TIMEOUT_SECONDS
func requestContext(c *gin.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg.RequestTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
