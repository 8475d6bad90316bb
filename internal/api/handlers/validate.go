package handlers

import (
	"fmt"
	"net/http"

	"github.com/Conceptual-Machines/constraint-api/internal/constraints"
	"github.com/Conceptual-Machines/constraint-api/internal/metrics"
	"github.com/Conceptual-Machines/constraint-api/internal/models"
	"github.com/Conceptual-Machines/constraint-api/internal/prompt"
	"github.com/gin-gonic/gin"
)

// ValidateHandler checks a response against constraint groups without
// calling a model
type ValidateHandler struct {
	metrics *metrics.Collector
}

func NewValidateHandler(collector *metrics.Collector) *ValidateHandler {
	return &ValidateHandler{metrics: collector}
}

// ValidateRequest is the body of a validation request
type ValidateRequest struct {
	Response      string                `json:"response"`
	LogicalGroups []models.LogicalGroup `json:"logicalGroups"`
}

// ValidateResponse reports the validation outcome
type ValidateResponse struct {
	Satisfied  bool               `json:"satisfied"`
	Violations []models.Violation `json:"violations"`
	Rendered   []string           `json:"rendered_violations"`
	Points     int                `json:"points"`
}

// Validate runs the validator over the supplied response
func (h *ValidateHandler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %w", errInvalidRequest, err))
		return
	}

	set, err := constraints.NewConstraintSet(req.LogicalGroups)
	if err != nil {
		writeError(c, err)
		return
	}

	satisfied, violations := constraints.Validate(req.Response, set.Groups())
	h.metrics.RecordViolations(violations)

	rendered := make([]string, 0, len(violations))
	for _, v := range violations {
		rendered = append(rendered, prompt.RenderViolation(v))
	}
	if violations == nil {
		violations = []models.Violation{}
	}

	c.JSON(http.StatusOK, ValidateResponse{
		Satisfied:  satisfied,
		Violations: violations,
		Rendered:   rendered,
		Points:     constraints.CountPoints(req.Response),
	})
}
