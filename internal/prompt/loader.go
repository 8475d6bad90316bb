package prompt

import (
	"strings"

	"github.com/Conceptual-Machines/constraint-api/pkg/embedded"
)

type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetSystemFramingTemplate loads the template for the system framing turn
func (l *Loader) GetSystemFramingTemplate() (string, error) {
	return strings.TrimSpace(string(embedded.SystemFramingTmpl)), nil
}

// GetAnalysisTemplate loads the template asking the model why constraints failed
func (l *Loader) GetAnalysisTemplate() (string, error) {
	return strings.TrimSpace(string(embedded.AnalysisPromptTmpl)), nil
}

// GetCorrectionTemplate loads the template for correction turns
func (l *Loader) GetCorrectionTemplate() (string, error) {
	return strings.TrimSpace(string(embedded.CorrectionPromptTmpl)), nil
}

// GetReviewTemplate loads the cross-model review template
func (l *Loader) GetReviewTemplate() (string, error) {
	return strings.TrimSpace(string(embedded.ReviewPromptTmpl)), nil
}
