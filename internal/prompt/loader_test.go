package prompt

import (
	"strings"
	"testing"
)

func TestNewPromptLoader(t *testing.T) {
	loader := NewPromptLoader()
	if loader == nil {
		t.Fatal("NewPromptLoader() returned nil")
	}
}

func TestLoaderTemplates(t *testing.T) {
	loader := NewPromptLoader()

	tests := []struct {
		name     string
		load     func() (string, error)
		contains []string
	}{
		{
			name:     "system framing",
			load:     loader.GetSystemFramingTemplate,
			contains: []string{"Always follow these rules:", "{{.Rules}}"},
		},
		{
			name:     "analysis",
			load:     loader.GetAnalysisTemplate,
			contains: []string{"Response:", "Constraints:", "Explanation:"},
		},
		{
			name:     "correction",
			load:     loader.GetCorrectionTemplate,
			contains: []string{"did not fully satisfy the constraints", "{{.Analysis}}"},
		},
		{
			name:     "review",
			load:     loader.GetReviewTemplate,
			contains: []string{"STRENGTHS:", "WEAKNESSES:", "POTENTIAL IMPROVEMENTS:", "ANALYSIS OF QUESTIONS:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := tt.load()
			if err != nil {
				t.Fatalf("load returned error: %v", err)
			}
			if content == "" {
				t.Fatal("load returned empty string")
			}
			if content != strings.TrimSpace(content) {
				t.Error("template has surrounding whitespace")
			}
			for _, want := range tt.contains {
				if !strings.Contains(content, want) {
					t.Errorf("template does not contain %q", want)
				}
			}
		})
	}
}
