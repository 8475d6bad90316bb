package handlers

import (
	"errors"
	"net/http"

	"github.com/Conceptual-Machines/constraint-api/internal/agents/constrained"
	"github.com/Conceptual-Machines/constraint-api/internal/constraints"
	"github.com/Conceptual-Machines/constraint-api/internal/llm"
	"github.com/Conceptual-Machines/constraint-api/internal/logger"
	"github.com/gin-gonic/gin"
)

// errInvalidRequest marks malformed bodies and unknown provider names
var errInvalidRequest = errors.New("invalid request")

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// classify maps an error to its HTTP status and stable code
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, constrained.ErrEmptyQuestion),
		errors.Is(err, llm.ErrUnknownProvider):
		return http.StatusBadRequest, codeInvalidRequest
	case errors.Is(err, constraints.ErrInvalidConstraintSet):
		return http.StatusBadRequest, codeInvalidConstraintSet
	case errors.Is(err, constrained.ErrCancelled):
		return http.StatusRequestTimeout, codeRequestCancelled
	case errors.Is(err, constrained.ErrCorrectionLimitExceeded):
		return http.StatusUnprocessableEntity, codeCorrectionLimitExceeded
	case errors.Is(err, llm.ErrGenerationUnavailable):
		return http.StatusBadGateway, codeGenerationUnavailable
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// writeError logs err and writes the matching ErrorResponse
func writeError(c *gin.Context, err error) {
	status, code := classify(err)

	fields := logger.WithContext(c)
	fields["code"] = code
	fields["status_code"] = status
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err, fields)
	} else {
		logger.Warn("Request rejected: "+err.Error(), fields)
	}

	c.JSON(status, ErrorResponse{
		Error:     err.Error(),
		Code:      code,
		RequestID: c.GetString("request_id"),
	})
}
