package quiz

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// StripCodeFences removes a surrounding markdown fence (```json or ```)
// and the whitespace around it.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Parse decodes raw model output into a Candidate. Decoding is strict:
// unknown fields, type mismatches and trailing data all fail with a
// *ParseError.
func Parse(raw string) (*Candidate, error) {
	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return nil, &ParseError{Err: errors.New("empty response")}
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.DisallowUnknownFields()

	var c Candidate
	if err := dec.Decode(&c); err != nil {
		return nil, &ParseError{Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Err: errors.New("unexpected data after JSON object")}
	}
	return &c, nil
}
