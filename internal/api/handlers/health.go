package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/constraint-api/internal/config"
	"github.com/Conceptual-Machines/constraint-api/internal/observability"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

func providerStatus(key string) string {
	if key == "" {
		return "disabled"
	}
	return "enabled"
}

// HealthCheck returns the health status of the API and which model
// back-ends have credentials
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"providers": gin.H{
			"openai":     providerStatus(h.cfg.OpenAIAPIKey),
			"gemini":     providerStatus(h.cfg.GeminiAPIKey),
			"openrouter": providerStatus(h.cfg.OpenRouterAPIKey),
		},
		"default_model": h.cfg.DefaultModel,
		"langfuse":      observability.GetClient().IsEnabled(),
	})
}
