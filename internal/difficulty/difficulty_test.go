package difficulty

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perf(level string, accuracy float64) *Performance {
	return &Performance{SegmentNumber: 1, QuizDifficulty: level, TotalQuestions: 5, Accuracy: accuracy}
}

func TestNext(t *testing.T) {
	tests := []struct {
		name      string
		prev      *Performance
		forced    Level
		want      Level
		rationale string
	}{
		{"no history", nil, "", Easy, "First segment - starting with easy questions to build confidence."},
		{"easy high", perf("easy", 0.85), "", Medium, "Student achieved 85% accuracy on the previous easy quiz. Increasing difficulty."},
		{"medium high", perf("medium", 0.8), "", Hard, "Student achieved 80% accuracy on the previous medium quiz. Increasing difficulty."},
		{"hard high stays", perf("hard", 0.85), "", Hard, "Student achieved 85% accuracy on the previous hard quiz. Increasing difficulty."},
		{"medium middling", perf("medium", 0.6), "", Medium, "Student achieved 60% accuracy. Maintaining medium difficulty."},
		{"hold boundary", perf("hard", 0.5), "", Hard, "Student achieved 50% accuracy. Maintaining hard difficulty."},
		{"easy low stays", perf("easy", 0.2), "", Easy, "Student achieved 20% accuracy. Decreasing to easy to build confidence."},
		{"hard low", perf("HARD", 0.3), "", Medium, "Student achieved 30% accuracy. Decreasing to medium to build confidence."},
		{"unknown previous up", perf("expert", 0.9), "", Hard, "Student achieved 90% accuracy on the previous expert quiz. Increasing difficulty."},
		{"unknown previous hold", perf("expert", 0.6), "", Medium, "Student achieved 60% accuracy. Maintaining medium difficulty."},
		{"forced wins", perf("easy", 0.1), Hard, Hard, "Difficulty was pre-determined by the system."},
		{"forced without history", nil, Medium, Medium, "Difficulty was pre-determined by the system."},
		{"invalid forced ignored", nil, Level("extreme"), Easy, "First segment - starting with easy questions to build confidence."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(tt.prev, tt.forced)
			assert.Equal(t, tt.want, got.Level)
			assert.Equal(t, tt.rationale, got.Rationale)
		})
	}
}

func TestNext_Pure(t *testing.T) {
	p := perf("medium", 0.75)
	first := Next(p, "")
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, Next(p, ""))
	}
	assert.Equal(t, "medium", p.QuizDifficulty)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel(" Hard ")
	require.NoError(t, err)
	assert.Equal(t, Hard, l)

	_, err = ParseLevel("expert")
	assert.Error(t, err)
}

func TestUpDown(t *testing.T) {
	assert.Equal(t, Medium, Easy.Up())
	assert.Equal(t, Hard, Medium.Up())
	assert.Equal(t, Hard, Hard.Up())
	assert.Equal(t, Medium, Hard.Down())
	assert.Equal(t, Easy, Medium.Down())
	assert.Equal(t, Easy, Easy.Down())
}

func TestGuidelines(t *testing.T) {
	for _, l := range []Level{Easy, Medium, Hard} {
		assert.True(t, strings.HasPrefix(Guidelines(l), strings.ToUpper(string(l))+" DIFFICULTY GUIDELINES:"))
	}
	assert.Empty(t, Guidelines("expert"))
}
