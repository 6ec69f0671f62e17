// Package difficulty decides the next quiz difficulty from a learner's
// performance on the previous segment.
package difficulty

import (
	"fmt"
	"strings"
)

// Level is a difficulty level.
type Level string

const (
	Easy   Level = "easy"
	Medium Level = "medium"
	Hard   Level = "hard"
)

// Accuracy thresholds for moving between levels.
const (
	StepUpAccuracy = 0.80
	HoldAccuracy   = 0.50
)

// ParseLevel reads a level name, ignoring case and surrounding space.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("invalid difficulty %q: must be easy, medium, or hard", s)
	}
	return l, nil
}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// Up returns the next harder level. Hard and unknown levels give Hard.
func (l Level) Up() Level {
	if l == Easy {
		return Medium
	}
	return Hard
}

// Down returns the next easier level. Easy and unknown levels give Easy.
func (l Level) Down() Level {
	if l == Hard {
		return Medium
	}
	return Easy
}

// Attempt is one answered question from a previous quiz.
type Attempt struct {
	QuestionNumber int    `json:"question_number"`
	QuestionText   string `json:"question_text"`
	UserAnswer     string `json:"user_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
	Feedback       string `json:"feedback"`
	Explanation    string `json:"explanation,omitempty"`
}

// Performance summarizes a learner's previous quiz.
type Performance struct {
	SegmentNumber  int       `json:"segment_number"`
	QuizDifficulty string    `json:"quiz_difficulty"`
	TotalQuestions int       `json:"total_questions"`
	CorrectCount   int       `json:"correct_count"`
	Accuracy       float64   `json:"accuracy"`
	Attempts       []Attempt `json:"attempts"`
}

// Decision is the level chosen for the next quiz and why.
type Decision struct {
	Level     Level
	Rationale string
}

// Next picks the difficulty for the next quiz. A valid forced level wins
// outright; otherwise the previous accuracy moves the previous level up,
// keeps it or moves it down. With no history the learner starts on Easy.
func Next(prev *Performance, forced Level) Decision {
	if forced.Valid() {
		return Decision{Level: forced, Rationale: "Difficulty was pre-determined by the system."}
	}
	if prev == nil {
		return Decision{Level: Easy, Rationale: "First segment - starting with easy questions to build confidence."}
	}

	last := Level(strings.ToLower(strings.TrimSpace(prev.QuizDifficulty)))
	pct := fmt.Sprintf("%.0f", prev.Accuracy*100)

	switch {
	case prev.Accuracy >= StepUpAccuracy:
		return Decision{
			Level:     last.Up(),
			Rationale: fmt.Sprintf("Student achieved %s%% accuracy on the previous %s quiz. Increasing difficulty.", pct, last),
		}
	case prev.Accuracy >= HoldAccuracy:
		next := last
		if !next.Valid() {
			next = Medium
		}
		return Decision{
			Level:     next,
			Rationale: fmt.Sprintf("Student achieved %s%% accuracy. Maintaining %s difficulty.", pct, next),
		}
	default:
		next := last.Down()
		return Decision{
			Level:     next,
			Rationale: fmt.Sprintf("Student achieved %s%% accuracy. Decreasing to %s to build confidence.", pct, next),
		}
	}
}
