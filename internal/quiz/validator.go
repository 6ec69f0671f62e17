package quiz

import (
	"fmt"
	"strings"
)

const (
	MinQuestions = 3
	MaxQuestions = 5
	MinMCQ       = 2
)

var optionIDs = [...]string{"A", "B", "C", "D"}

// Outcome is the result of one validation pass. Exactly one of Questions
// and Errors is set.
type Outcome struct {
	Questions []Question
	Errors    []string
}

// OK reports whether validation passed.
func (o Outcome) OK() bool { return len(o.Errors) == 0 }

// Err returns a *ValidationError for a failed outcome, nil otherwise.
func (o Outcome) Err() error {
	if o.OK() {
		return nil
	}
	return &ValidationError{Errors: o.Errors}
}

// Validate checks c against the quiz rules. Every rule runs, so Errors is
// the complete list of violations in a stable order. On success the
// questions are normalized: text trimmed, option ids and MCQ answers
// upper-cased.
func Validate(c *Candidate) Outcome {
	if c == nil {
		c = &Candidate{}
	}
	var errs []string

	n := len(c.Questions)
	if n < MinQuestions {
		errs = append(errs, fmt.Sprintf("Must have at least %d questions, got %d", MinQuestions, n))
	}
	if n > MaxQuestions {
		errs = append(errs, fmt.Sprintf("Must have at most %d questions, got %d", MaxQuestions, n))
	}

	mcq := 0
	for _, q := range c.Questions {
		if QuestionType(strings.ToLower(q.Type)) == TypeMCQ {
			mcq++
		}
	}
	if mcq < MinMCQ {
		errs = append(errs, fmt.Sprintf("Must have at least %d MCQ questions, got %d", MinMCQ, mcq))
	}

	for i, q := range c.Questions {
		errs = append(errs, validateQuestion(q, fmt.Sprintf("Question %d", i+1))...)
	}

	if len(errs) > 0 {
		return Outcome{Errors: errs}
	}

	questions := make([]Question, n)
	for i, q := range c.Questions {
		questions[i] = normalize(q)
	}
	return Outcome{Questions: questions}
}

func validateQuestion(q CandidateQuestion, prefix string) []string {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, prefix+": "+fmt.Sprintf(format, args...))
	}

	typ := QuestionType(strings.ToLower(q.Type))
	if typ != TypeMCQ && typ != TypeShortAnswer {
		add("Invalid type '%s'. Must be 'mcq' or 'short_answer'", typ)
	}

	if diff := Difficulty(strings.ToLower(q.Difficulty)); !diff.Valid() {
		add("Invalid difficulty '%s'. Must be 'easy', 'medium', or 'hard'", diff)
	}

	if strings.TrimSpace(q.Question) == "" {
		add("Question text cannot be empty")
	}
	if strings.TrimSpace(q.Answer) == "" {
		add("Answer cannot be empty")
	}
	if strings.TrimSpace(q.Explanation) == "" {
		add("Explanation cannot be empty")
	}

	switch typ {
	case TypeMCQ:
		if q.Options == nil {
			add("MCQ must have options, got null")
			break
		}
		if len(q.Options) != len(optionIDs) {
			add("MCQ must have exactly %d options, got %d", len(optionIDs), len(q.Options))
		}
		ids := make([]string, len(q.Options))
		for i, o := range q.Options {
			ids[i] = strings.ToUpper(strings.TrimSpace(o.ID))
		}
		if !sameIDSet(ids) {
			add("MCQ options must have ids A, B, C, D. Got: [%s]", strings.Join(ids, ", "))
		}
		for _, o := range q.Options {
			if strings.TrimSpace(o.Text) == "" {
				add("Option %s has empty text", o.ID)
			}
		}
		if !isOptionID(strings.ToUpper(strings.TrimSpace(q.Answer))) {
			add("MCQ answer must be A, B, C, or D. Got: '%s'", q.Answer)
		}
	case TypeShortAnswer:
		if q.Options != nil {
			add("short_answer must have options=null, got options with %d items", len(q.Options))
		}
	}

	return errs
}

// sameIDSet reports whether ids, as a set, is exactly {A,B,C,D}.
func sameIDSet(ids []string) bool {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !isOptionID(id) {
			return false
		}
		seen[id] = true
	}
	return len(seen) == len(optionIDs)
}

func isOptionID(s string) bool {
	for _, id := range optionIDs {
		if s == id {
			return true
		}
	}
	return false
}

func normalize(q CandidateQuestion) Question {
	out := Question{
		Type:        QuestionType(strings.ToLower(q.Type)),
		Question:    strings.TrimSpace(q.Question),
		Answer:      strings.TrimSpace(q.Answer),
		Explanation: strings.TrimSpace(q.Explanation),
		Difficulty:  Difficulty(strings.ToLower(q.Difficulty)),
	}
	if q.LearningObjective != nil {
		out.LearningObjective = strings.TrimSpace(*q.LearningObjective)
	}
	if out.Type == TypeMCQ {
		out.Answer = strings.ToUpper(out.Answer)
		out.Options = make([]Option, len(q.Options))
		for i, o := range q.Options {
			out.Options[i] = Option{
				ID:   strings.ToUpper(strings.TrimSpace(o.ID)),
				Text: strings.TrimSpace(o.Text),
			}
		}
	}
	return out
}

// FormatErrorsForRepair renders errs, in order, as the violation block of
// a repair prompt. The closing instruction is added by RepairPrompt.
func FormatErrorsForRepair(errs []string) string {
	var b strings.Builder
	b.WriteString("The previous output had the following validation errors:")
	for _, e := range errs {
		b.WriteString("\n- ")
		b.WriteString(e)
	}
	return b.String()
}
