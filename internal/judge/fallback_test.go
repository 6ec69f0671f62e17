package judge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SHivit700/InteLect/internal/quiz"
)

func TestFallbackMatch(t *testing.T) {
	cfg := DefaultFallbackConfig()
	tests := []struct {
		name    string
		correct string
		user    string
		want    bool
	}{
		{"shared word", "machine learning", "learning from data", true},
		{"case insensitive", "Photosynthesis", "PHOTOSYNTHESIS", true},
		{"short tokens ignored", "machine learning", "ML techniques", false},
		{"stopwords ignored", "the mitochondria", "the answer", false},
		{"correct inside user", "backprop", "backpropagation", true},
		{"user inside correct", "a transformer encoder stack", "encod", true},
		{"blank user", "anything", "   ", false},
		{"unrelated", "entropy", "velocity", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.Match(tt.correct, tt.user))
		})
	}
}

func TestFallbackMatch_Deterministic(t *testing.T) {
	cfg := DefaultFallbackConfig()
	first := cfg.Match("machine learning", "ML techniques")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, cfg.Match("machine learning", "ML techniques"))
	}
}

func TestFallbackMatch_Configurable(t *testing.T) {
	strict := FallbackConfig{MinTokenLen: 6, PrefixLen: 0}
	assert.False(t, strict.Match("dropout layer", "layer norm"))
	assert.True(t, DefaultFallbackConfig().Match("dropout layer", "layer norm"))
	assert.True(t, strict.Match("regularization helps", "regularization"))
}

func TestParseStrict(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		correct bool
		wantErr bool
	}{
		{"correct", `{"is_correct": true, "verdict": "CORRECT", "feedback": "Great"}`, true, false},
		{"partial passes", `{"is_correct": false, "verdict": "PARTIALLY_CORRECT", "feedback": "Close"}`, true, false},
		{"verdict optional", `{"is_correct": false, "feedback": "No"}`, false, false},
		{"fenced", "```json\n{\"is_correct\": true, \"feedback\": \"Yes\"}\n```", true, false},
		{"unknown field", `{"is_correct": true, "feedback": "Yes", "score": 1}`, false, true},
		{"missing feedback", `{"is_correct": true}`, false, true},
		{"bad verdict", `{"is_correct": true, "verdict": "MAYBE", "feedback": "x"}`, false, true},
		{"prose", `The answer is correct.`, false, true},
		{"empty", "  ", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := parseStrict(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.correct, v.IsCorrect)
			assert.Equal(t, SourceAgent, v.Source)
		})
	}
}

func TestParseLoose(t *testing.T) {
	v, ok := parseLoose(`Result: {"is_correct" : true, "feedback": "Well reasoned"} done`)
	assert.True(t, ok)
	assert.True(t, v.IsCorrect)
	assert.Equal(t, "Well reasoned", v.Feedback)

	v, ok = parseLoose(`{"is_correct": false}`)
	assert.True(t, ok)
	assert.False(t, v.IsCorrect)
	assert.Equal(t, "Answer validated.", v.Feedback)

	_, ok = parseLoose("CORRECT")
	assert.False(t, ok)
}

func TestTools(t *testing.T) {
	req := Request{Type: quiz.TypeMCQ, Question: "Q", CorrectAnswer: "b", Options: options, Transcript: "text"}
	assert.Equal(t, "CORRECT: The answer B is correct.", checkMCQ(req, " b"))
	assert.Equal(t, "INCORRECT: The correct answer is B: Backpropagation", checkMCQ(req, "A"))

	empty := answerContext(req, "")
	assert.Contains(t, empty, "VERDICT: INCORRECT (no answer given)")

	assert.Equal(t, "Great job! You demonstrated a solid understanding of this concept.", feedbackFor("CORRECT"))
	assert.Contains(t, feedbackFor("partially_correct"), "right track")
	assert.Contains(t, feedbackFor("INCORRECT"), "learning opportunity")
}
