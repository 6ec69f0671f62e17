package quiz

import "strings"

// QuestionType is the kind of question.
type QuestionType string

const (
	TypeMCQ         QuestionType = "mcq"
	TypeShortAnswer QuestionType = "short_answer"
)

// Difficulty is a question's difficulty label.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Valid reports whether d is one of the three known labels.
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// Option is one lettered MCQ choice.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a validated quiz question. Options is non-nil exactly when
// Type is TypeMCQ, and then holds A-D with Answer naming one of them.
type Question struct {
	Type              QuestionType `json:"type"`
	Question          string       `json:"question"`
	Options           []Option     `json:"options"`
	Answer            string       `json:"answer"`
	Explanation       string       `json:"explanation"`
	Difficulty        Difficulty   `json:"difficulty"`
	LearningObjective string       `json:"learning_objective,omitempty"`
}

// OptionText returns the text of the option with the given id, matched
// case-insensitively, or "" when absent.
func (q Question) OptionText(id string) string {
	for _, o := range q.Options {
		if strings.EqualFold(o.ID, strings.TrimSpace(id)) {
			return o.Text
		}
	}
	return ""
}

// Candidate is decoded model output before rule validation. Fields are
// kept loose so the validator can see exactly what the model sent: a nil
// Options slice means "null or missing", an empty one means "[]".
type Candidate struct {
	Questions []CandidateQuestion `json:"questions"`
}

// CandidateQuestion is one question as the model wrote it.
type CandidateQuestion struct {
	Type              string            `json:"type"`
	Question          string            `json:"question"`
	Options           []CandidateOption `json:"options"`
	Answer            string            `json:"answer"`
	Explanation       string            `json:"explanation"`
	Difficulty        string            `json:"difficulty"`
	LearningObjective *string           `json:"learning_objective"`
}

// CandidateOption is one option as the model wrote it.
type CandidateOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
