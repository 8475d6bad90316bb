package embedded

import (
	_ "embed"
)

// Embed all prompt templates
//
//go:embed data/prompts/system_framing.tmpl
var SystemFramingTmpl []byte

//go:embed data/prompts/analysis_prompt.tmpl
var AnalysisPromptTmpl []byte

//go:embed data/prompts/correction_prompt.tmpl
var CorrectionPromptTmpl []byte

//go:embed data/prompts/review_prompt.tmpl
var ReviewPromptTmpl []byte
