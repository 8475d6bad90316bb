package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Conceptual-Machines/constraint-api/internal/agents/review"
	"github.com/Conceptual-Machines/constraint-api/internal/config"
	"github.com/Conceptual-Machines/constraint-api/internal/metrics"
	"github.com/Conceptual-Machines/constraint-api/internal/models"
	"github.com/gin-gonic/gin"
)

// ReviewHandler serves the cross-model review
type ReviewHandler struct {
	source  GeneratorSource
	cfg     *config.Config
	metrics *metrics.Collector
}

func NewReviewHandler(source GeneratorSource, cfg *config.Config, collector *metrics.Collector) *ReviewHandler {
	return &ReviewHandler{
		source:  source,
		cfg:     cfg,
		metrics: collector,
	}
}

// ReviewRequest is the body of a review request
type ReviewRequest struct {
	Question      string                `json:"question"`
	LogicalGroups []models.LogicalGroup `json:"logicalGroups"`
}

// ReviewResponse wraps the review result with the models that produced it
type ReviewResponse struct {
	*review.Result
	ModelA    string `json:"model_A"`
	ModelB    string `json:"model_B"`
	RequestID string `json:"request_id"`
}

// Review asks both configured models and returns their cross reviews
func (h *ReviewHandler) Review(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %w", errInvalidRequest, err))
		return
	}

	ctx, cancel := requestContext(c, h.cfg)
	defer cancel()

	modelA, err := resolveGenerator(ctx, h.source, h.cfg.ReviewModelA, h.cfg.ReviewProviderA)
	if err != nil {
		writeError(c, err)
		return
	}
	modelB, err := resolveGenerator(ctx, h.source, h.cfg.ReviewModelB, h.cfg.ReviewProviderB)
	if err != nil {
		writeError(c, err)
		return
	}

	log.Printf("🔀 Review request: A=%s, B=%s, groups=%d", h.cfg.ReviewModelA, h.cfg.ReviewModelB, len(req.LogicalGroups))

	result, err := review.NewService(modelA, modelB).
		WithMetrics(h.metrics).
		Review(ctx, req.Question, req.LogicalGroups)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReviewResponse{
		Result:    result,
		ModelA:    h.cfg.ReviewModelA,
		ModelB:    h.cfg.ReviewModelB,
		RequestID: c.GetString("request_id"),
	})
}
