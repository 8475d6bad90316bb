package main

import (
	"context"
	"testing"

	"github.com/Conceptual-Machines/constraint-api/internal/llm"
	"github.com/Conceptual-Machines/constraint-api/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterSensitiveHeaders(t *testing.T) {
	filtered := filterSensitiveHeaders(map[string]string{
		"authorization": "Bearer secret",
		"content-type":  "application/json",
	})

	assert.Equal(t, "[REDACTED]", filtered["authorization"])
	assert.Equal(t, "application/json", filtered["content-type"])
}

func TestGeneratorSource(t *testing.T) {
	factory := llm.NewProviderFactory("sk-test", "")
	source := generatorSource(factory, metrics.NewCollector(nil, nil, nil))

	generator, err := source.GetGenerator(context.Background(), "gpt-4o-mini", "")
	require.NoError(t, err)
	assert.NotNil(t, generator)

	_, err = source.GetGenerator(context.Background(), "gemini-2.0-flash", "")
	assert.Error(t, err)
}
