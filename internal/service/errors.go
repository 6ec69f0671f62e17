package service

import "fmt"

// RequestError is a request the caller must fix.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string { return e.Message }

// TooLargeError is a transcript over the length limit.
type TooLargeError struct {
	Message string
}

func (e *TooLargeError) Error() string { return e.Message }

// GenerationError is a quiz that could not be produced: the model was
// unreachable or its output never validated.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("quiz generation failed: %s", e.Message)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func invalid(format string, args ...any) error {
	return &RequestError{Message: fmt.Sprintf(format, args...)}
}
