package config

// Config contains configuration shared by the generation agents
type Config struct {
	// MaxCorrectionRounds caps correction turns per request. 0 means no cap.
	MaxCorrectionRounds int
}

// Unbounded reports whether the correction loop runs until the response is
// valid.
func (c Config) Unbounded() bool {
	return c.MaxCorrectionRounds <= 0
}
