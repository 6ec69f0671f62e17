package quiz

// Config controls a Generator.
type Config struct {
	// MaxRepairAttempts is the number of repair prompts allowed after the
	// first generation; total calls are MaxRepairAttempts+1.
	MaxRepairAttempts int

	Temperature float64
	MaxTokens   int

	// System is the system prompt. Empty means SystemPrompt.
	System string

	// StructuredOutput sends Schema with every request so providers use
	// their native JSON mode.
	StructuredOutput bool

	// Purpose labels requests in the LLM event log.
	Purpose string
}

// DefaultConfig returns the direct-generation defaults.
func DefaultConfig() Config {
	return Config{
		MaxRepairAttempts: 2,
		Temperature:       0.2,
		MaxTokens:         900,
		System:            SystemPrompt,
		Purpose:           "quiz-generate",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxRepairAttempts < 0 {
		c.MaxRepairAttempts = 0
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = d.MaxTokens
	}
	if c.System == "" {
		c.System = d.System
	}
	if c.Purpose == "" {
		c.Purpose = d.Purpose
	}
	return c
}
