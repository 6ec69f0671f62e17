package quiz

import (
	"fmt"
	"strings"
)

// ParseError is returned when model output is not a decodable quiz.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "invalid quiz JSON: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError carries every rule violation from one validation pass,
// in validator order.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("quiz failed validation: %s", strings.Join(e.Errors, "; "))
}

// ExhaustedRepairError is terminal: the repair budget was spent and Last
// holds the final attempt's ParseError or ValidationError.
type ExhaustedRepairError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedRepairError) Error() string {
	return fmt.Sprintf("quiz generation failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedRepairError) Unwrap() error { return e.Last }

// InfrastructureError wraps a failure to reach the model at all. It is
// never retried by the repair loop.
type InfrastructureError struct {
	Err error
}

func (e *InfrastructureError) Error() string {
	return "LLM error: " + e.Err.Error()
}

func (e *InfrastructureError) Unwrap() error { return e.Err }
