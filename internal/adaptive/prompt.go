package adaptive

import (
	"fmt"
	"strings"

	"github.com/SHivit700/InteLect/internal/difficulty"
)

// SystemPrompt pins every question to level and carries its writing
// guidelines.
func SystemPrompt(level difficulty.Level) string {
	return fmt.Sprintf(`You are a quiz generation assistant. Your task is to generate quiz questions from lecture transcript content.

CRITICAL: ALL questions MUST be at "%[1]s" difficulty level. No exceptions.

%[2]s

RULES:
1. Output ONLY valid JSON. No markdown, no code fences.
2. At least 2 questions MUST be MCQ (multiple choice).
3. MCQ questions MUST have exactly 4 options with ids "A", "B", "C", "D".
4. MCQ answers MUST be exactly one of: "A", "B", "C", or "D".
5. short_answer questions MUST have options set to null.
6. All questions must be answerable using ONLY the transcript content.
7. Do NOT reference the transcript in questions.
8. Explanations must be 1-2 sentences.
9. difficulty MUST be "%[3]s" for EVERY question.
10. type must be "mcq" or "short_answer".

OUTPUT FORMAT:
{
  "questions": [
    {
      "type": "mcq",
      "question": "...",
      "options": [{"id": "A", "text": "..."}, {"id": "B", "text": "..."}, {"id": "C", "text": "..."}, {"id": "D", "text": "..."}],
      "answer": "A",
      "explanation": "...",
      "difficulty": "%[3]s",
      "learning_objective": null
    }
  ]
}`, strings.ToUpper(string(level)), difficulty.Guidelines(level), level)
}

// UserPrompt asks for n questions from transcript, all at level.
func UserPrompt(transcript string, level difficulty.Level, n int) string {
	return fmt.Sprintf(`Generate exactly %[1]d quiz questions from the following lecture transcript.

IMPORTANT: All questions MUST be at "%[2]s" difficulty level.

TRANSCRIPT:
%[3]s

Remember: 
- Output ONLY valid JSON
- ALL questions must have "difficulty": "%[2]s"
- At least 2 questions must be MCQ type`, n, level, transcript)
}
