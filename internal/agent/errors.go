package agent

import (
	"errors"
	"fmt"
)

// ErrMaxIterations is returned when the model keeps calling tools past
// the loop's iteration bound.
var ErrMaxIterations = errors.New("agent: max iterations exceeded")

// ErrUnknownTool matches any UnknownToolError via errors.Is.
var ErrUnknownTool = errors.New("agent: unknown tool")

// UnknownToolError names a tool the model asked for that is not registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("agent: unknown tool %q", e.Name)
}

func (e *UnknownToolError) Is(target error) bool { return target == ErrUnknownTool }

// DuplicateToolError is returned when a name is registered twice.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("agent: tool %q already registered", e.Name)
}

// ArgumentError wraps a schema or decode failure of tool arguments.
type ArgumentError struct {
	Tool string
	Err  error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("agent: invalid arguments for %s: %v", e.Tool, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }
