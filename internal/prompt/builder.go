package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Builder renders the prompts sent to the generation model
type Builder struct {
	framing    *template.Template
	analysis   *template.Template
	correction *template.Template
	review     *template.Template
}

// NewPromptBuilder parses the embedded templates. They are compiled into the
// binary, so a parse failure panics.
func NewPromptBuilder() *Builder {
	loader := NewPromptLoader()
	return &Builder{
		framing:    mustParse("system_framing", loader.GetSystemFramingTemplate),
		analysis:   mustParse("analysis_prompt", loader.GetAnalysisTemplate),
		correction: mustParse("correction_prompt", loader.GetCorrectionTemplate),
		review:     mustParse("review_prompt", loader.GetReviewTemplate),
	}
}

func mustParse(name string, load func() (string, error)) *template.Template {
	text, err := load()
	if err != nil {
		panic(fmt.Sprintf("prompt: load %s: %v", name, err))
	}
	return template.Must(template.New(name).Parse(text))
}

// CorrectionInput holds what goes into a correction turn
type CorrectionInput struct {
	Response    string
	Analysis    string
	Constraints string
	Example     string
}

// SystemFraming renders the framing from bullet rules and an optional
// formatting example.
func (b *Builder) SystemFraming(rules, example string) (string, error) {
	return execute(b.framing, map[string]string{
		"Rules":   rules,
		"Example": example,
	})
}

// AnalysisPrompt asks the model why the response misses the given constraints
func (b *Builder) AnalysisPrompt(response, constraints string) (string, error) {
	return execute(b.analysis, map[string]string{
		"Response":    response,
		"Constraints": constraints,
	})
}

// CorrectionPrompt asks the model to revise its last response
func (b *Builder) CorrectionPrompt(in CorrectionInput) (string, error) {
	return execute(b.correction, in)
}

// ReviewPrompt asks the model for a structured critique of another answer
func (b *Builder) ReviewPrompt(response string) (string, error) {
	return execute(b.review, map[string]string{"Response": response})
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", tmpl.Name(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}
