package quiz

import (
	"encoding/json"
	"fmt"
	"strings"
)

func mcqJSON(text, answer, difficulty string) string {
	return fmt.Sprintf(`{
		"type": "mcq",
		"question": %q,
		"options": [
			{"id": "A", "text": "Gradient descent"},
			{"id": "B", "text": "Backpropagation"},
			{"id": "C", "text": "Dropout"},
			{"id": "D", "text": "Batch normalization"}
		],
		"answer": %q,
		"explanation": "The lecture describes this technique directly.",
		"difficulty": %q,
		"learning_objective": "Recall core training techniques"
	}`, text, answer, difficulty)
}

func shortJSON(text, difficulty string) string {
	return fmt.Sprintf(`{
		"type": "short_answer",
		"question": %q,
		"options": null,
		"answer": "It reduces overfitting by randomly disabling neurons",
		"explanation": "Dropout is introduced as a regularizer.",
		"difficulty": %q,
		"learning_objective": null
	}`, text, difficulty)
}

// quizJSON builds a quiz with the given number of MCQ and short-answer
// questions, all at difficulty.
func quizJSON(mcq, short int, difficulty string) string {
	var qs []string
	for i := 0; i < mcq; i++ {
		qs = append(qs, mcqJSON(fmt.Sprintf("Which technique computes gradients, variant %d?", i+1), "b", difficulty))
	}
	for i := 0; i < short; i++ {
		qs = append(qs, shortJSON(fmt.Sprintf("Why is dropout used, variant %d?", i+1), difficulty))
	}
	return `{"questions": [` + strings.Join(qs, ",") + `]}`
}

func mustCandidate(raw string) *Candidate {
	var c Candidate
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		panic(err)
	}
	return &c
}
