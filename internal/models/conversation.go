package models

// Role is the author of a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message exchanged with the text-generation model
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Transcript is the append-only record of one request's conversation.
// A Transcript belongs to exactly one request and must not be shared.
type Transcript struct {
	framing string
	turns   []Turn
}

// NewTranscript creates an empty transcript with the given system framing
func NewTranscript(framing string) *Transcript {
	return &Transcript{framing: framing}
}

// Framing returns the system framing sent alongside every turn
func (t *Transcript) Framing() string {
	return t.framing
}

// AppendUser appends a user turn
func (t *Transcript) AppendUser(text string) {
	t.turns = append(t.turns, Turn{Role: RoleUser, Text: text})
}

// AppendAssistant appends an assistant turn
func (t *Transcript) AppendAssistant(text string) {
	t.turns = append(t.turns, Turn{Role: RoleAssistant, Text: text})
}

// Turns returns a copy of the turns so callers cannot rewrite history
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns
func (t *Transcript) Len() int {
	return len(t.turns)
}

// GenerationResult is the outcome of a constrained generation request.
// IterationCount is the number of correction rounds after the first answer.
type GenerationResult struct {
	Text           string `json:"response"`
	IterationCount int    `json:"iterationCount"`
}

// TokenUsage is the token accounting reported by a model back-end
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}
