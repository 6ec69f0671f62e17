package judge

import (
	"context"
	"fmt"
	"strings"

	"github.com/SHivit700/InteLect/internal/agent"
	"github.com/SHivit700/InteLect/internal/quiz"
)

const (
	toolAnswerContext = "get_answer_context"
	toolCheckMCQ      = "check_mcq_answer"
	toolFeedback      = "generate_feedback"
)

// contextChars is how much of the transcript get_answer_context shares.
const contextChars = 500

type answerArgs struct {
	UserAnswer string `json:"user_answer"`
}

type feedbackArgs struct {
	Result     string `json:"result"`
	UserAnswer string `json:"user_answer"`
}

var (
	answerSchema = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user_answer": map[string]any{"type": "string", "description": "The user's answer"},
		},
		"required": []any{"user_answer"},
	}
	feedbackSchema = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"result": map[string]any{
				"type":        "string",
				"description": "Whether the answer was correct: CORRECT, PARTIALLY_CORRECT, or INCORRECT",
			},
			"user_answer": map[string]any{"type": "string", "description": "The user's original answer"},
		},
		"required": []any{"result"},
	}
)

// Tools returns the judging tools bound to req.
func Tools(req Request) []agent.Tool {
	return []agent.Tool{
		{
			Name: toolCheckMCQ,
			Description: `Checks if a user's MCQ answer matches the correct answer.
Use this for multiple choice questions where the answer is A, B, C, or D.
Returns CORRECT or INCORRECT with the correct answer.`,
			Schema: answerSchema,
			Handler: agent.Typed(toolCheckMCQ, answerSchema, func(_ context.Context, a answerArgs) (string, error) {
				return checkMCQ(req, a.UserAnswer), nil
			}),
		},
		{
			Name: toolAnswerContext,
			Description: `Retrieves the expected answer and relevant context for YOU to semantically evaluate the user's short answer.
DO NOT rely on exact keyword matching. Judge whether the user's answer conveys the same meaning as the expected answer, even if worded differently.
After calling this tool decide if the answer is CORRECT, PARTIALLY_CORRECT or INCORRECT.
Be LENIENT - if the user demonstrates understanding of the core concept, mark it CORRECT.`,
			Schema: answerSchema,
			Handler: agent.Typed(toolAnswerContext, answerSchema, func(_ context.Context, a answerArgs) (string, error) {
				return answerContext(req, a.UserAnswer), nil
			}),
		},
		{
			Name: toolFeedback,
			Description: `Generates personalized feedback for the user based on their answer.
Provides encouraging and educational feedback to help them learn.
Use this after determining if the answer is correct or incorrect.`,
			Schema: feedbackSchema,
			Handler: agent.Typed(toolFeedback, feedbackSchema, func(_ context.Context, a feedbackArgs) (string, error) {
				return "FEEDBACK: " + feedbackFor(a.Result), nil
			}),
		},
	}
}

func checkMCQ(req Request, answer string) string {
	user := strings.ToUpper(strings.TrimSpace(answer))
	correct := strings.ToUpper(strings.TrimSpace(req.CorrectAnswer))
	if user == correct {
		return fmt.Sprintf("CORRECT: The answer %s is correct.", correct)
	}
	return fmt.Sprintf("INCORRECT: The correct answer is %s: %s", correct, optionText(req.Options, correct))
}

func answerContext(req Request, answer string) string {
	if strings.TrimSpace(answer) == "" {
		return fmt.Sprintf("USER_ANSWER: (empty - no answer provided)\nEXPECTED_ANSWER: %s\nQUESTION: %s\nVERDICT: INCORRECT (no answer given)",
			req.CorrectAnswer, req.Question)
	}
	return fmt.Sprintf(`=== SEMANTIC EVALUATION REQUIRED ===

USER_ANSWER: %s

EXPECTED_ANSWER: %s

QUESTION: %s

RELEVANT_CONTEXT: %s

=== YOUR TASK ===
Compare the USER_ANSWER to the EXPECTED_ANSWER semantically.
- Accept synonyms and equivalent phrasings (e.g., "ML" = "machine learning")
- Accept partial answers if they capture the core concept
- Accept different word order if meaning is preserved
- Only mark INCORRECT if the answer is fundamentally wrong

Provide your verdict: CORRECT, PARTIALLY_CORRECT, or INCORRECT`,
		answer, req.CorrectAnswer, req.Question, prefix(req.Transcript, contextChars))
}

func feedbackFor(result string) string {
	switch r := strings.ToUpper(strings.TrimSpace(result)); {
	case strings.HasPrefix(r, "CORRECT"):
		return "Great job! You demonstrated a solid understanding of this concept."
	case strings.HasPrefix(r, "PARTIALLY"):
		return "You're on the right track! Review the explanation to strengthen your understanding of the missing concepts."
	default:
		return "This is a learning opportunity! Review the explanation carefully and try to understand why the correct answer applies here."
	}
}

func optionText(options []quiz.Option, id string) string {
	for _, o := range options {
		if strings.EqualFold(strings.TrimSpace(o.ID), id) {
			return o.Text
		}
	}
	return ""
}
