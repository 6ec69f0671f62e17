package quiz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n{\"a\":1}\n\t ", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}

func TestParse_FencedEqualsUnfenced(t *testing.T) {
	raw := quizJSON(2, 1, "easy")

	plain, err := Parse(raw)
	require.NoError(t, err)
	fenced, err := Parse("\n\n  ```json\n" + raw + "\n```  \n")
	require.NoError(t, err)

	assert.Equal(t, plain, fenced)
}

func TestParse_Strict(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown top-level field", `{"questions": [], "title": "x"}`},
		{"unknown question field", `{"questions": [{"type": "mcq", "hint": "x"}]}`},
		{"number for string", `{"questions": [{"type": "mcq", "answer": 1}]}`},
		{"truncated", `{"questions": [{"type": "mcq", "question": "What`},
		{"trailing data", `{"questions": []} {"questions": []}`},
		{"empty", "```json\n```"},
		{"prose", "Here is your quiz!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected ParseError, got %v", err)
			assert.NotEmpty(t, pe.Err.Error())
		})
	}
}

func TestParse_DistinguishesNullAndEmptyOptions(t *testing.T) {
	c, err := Parse(`{"questions": [
		{"type": "short_answer", "options": null},
		{"type": "short_answer", "options": []},
		{"type": "short_answer"}
	]}`)
	require.NoError(t, err)
	assert.Nil(t, c.Questions[0].Options)
	assert.NotNil(t, c.Questions[1].Options)
	assert.Nil(t, c.Questions[2].Options)
}
