package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "DEFAULT_MODEL", "MAX_CORRECTION_ROUNDS",
		"REQUEST_TIMEOUT_SECONDS", "ALLOWED_ORIGINS", "AUTH_MODE", "METRICS_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini-2.0-flash", cfg.DefaultModel)
	assert.Equal(t, 10, cfg.MaxCorrectionRounds)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.IsGatewayMode())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("MAX_CORRECTION_ROUNDS", "0")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "30")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,,")
	t.Setenv("AUTH_MODE", "gateway")
	t.Setenv("LANGFUSE_ENABLED", "true")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 0, cfg.MaxCorrectionRounds)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsGatewayMode())
	assert.True(t, cfg.LangfuseEnabled)
	assert.False(t, cfg.MetricsEnabled)
}

func TestGetEnvInt_Invalid(t *testing.T) {
	t.Setenv("MAX_CORRECTION_ROUNDS", "many")
	assert.Equal(t, 10, getEnvInt("MAX_CORRECTION_ROUNDS", 10))

	t.Setenv("MAX_CORRECTION_ROUNDS", "-3")
	assert.Equal(t, 10, getEnvInt("MAX_CORRECTION_ROUNDS", 10))
}
