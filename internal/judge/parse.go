package judge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/SHivit700/InteLect/internal/llm"
	"github.com/SHivit700/InteLect/internal/quiz"
)

// Verdict labels the model may return.
const (
	VerdictCorrect   = "CORRECT"
	VerdictPartial   = "PARTIALLY_CORRECT"
	VerdictIncorrect = "INCORRECT"
)

// verdictSchema checks the model's final answer before it is trusted.
var verdictSchema = &llm.Schema{
	Name:        "answer-verdict",
	Description: "A judgement of a student's answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_correct": map[string]any{"type": "boolean"},
			"verdict":    map[string]any{"type": "string", "enum": []any{VerdictCorrect, VerdictPartial, VerdictIncorrect}},
			"feedback":   map[string]any{"type": "string", "minLength": 1},
		},
		"required":             []any{"is_correct", "feedback"},
		"additionalProperties": false,
	},
}

type agentVerdict struct {
	IsCorrect bool   `json:"is_correct"`
	Verdict   string `json:"verdict"`
	Feedback  string `json:"feedback"`
}

// parseStrict decodes the model's final text as a verdict object. A
// PARTIALLY_CORRECT verdict passes whatever is_correct says.
func parseStrict(raw string) (Verdict, error) {
	body := quiz.StripCodeFences(raw)
	if body == "" {
		return Verdict{}, errors.New("empty verdict")
	}
	if err := llm.ValidateJSON(verdictSchema, json.RawMessage(body)); err != nil {
		return Verdict{}, err
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.DisallowUnknownFields()
	var v agentVerdict
	if err := dec.Decode(&v); err != nil {
		return Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	return Verdict{
		IsCorrect: v.IsCorrect || v.Verdict == VerdictPartial,
		Feedback:  strings.TrimSpace(v.Feedback),
		Source:    SourceAgent,
	}, nil
}

var (
	looseObject    = regexp.MustCompile(`\{[\s\S]*"is_correct"[\s\S]*\}`)
	looseTrue      = regexp.MustCompile(`"is_correct"\s*:\s*true`)
	looseFeedback  = regexp.MustCompile(`"feedback"\s*:\s*"([^"]+)"`)
	loosePartially = regexp.MustCompile(`"verdict"\s*:\s*"PARTIALLY_CORRECT"`)
)

// parseLoose pulls a verdict out of text that only roughly resembles the
// requested object, such as JSON buried in prose. It is a lower
// confidence path than parseStrict and reports false when the text has
// no is_correct key at all.
func parseLoose(raw string) (Verdict, bool) {
	obj := looseObject.FindString(raw)
	if obj == "" {
		return Verdict{}, false
	}
	feedback := "Answer validated."
	if m := looseFeedback.FindStringSubmatch(obj); m != nil {
		feedback = m[1]
	}
	return Verdict{
		IsCorrect: looseTrue.MatchString(obj) || loosePartially.MatchString(obj),
		Feedback:  feedback,
		Source:    SourceAgentLoose,
	}, true
}
