package recap

import (
	"fmt"
	"strings"
)

const SystemPrompt = `You are an educational assistant that analyzes quiz results and recommends lecture segments for students to review.

Given:
1. A list of lecture segments with their titles, timestamps, and key topics
2. Quiz answers showing which questions were answered correctly or incorrectly

Your task:
- Analyze the incorrectly answered questions
- Match each incorrect answer to the most relevant segment(s) based on the question content and segment topics
- Prioritize segments that cover foundational concepts needed for understanding other material
- Provide clear, encouraging reasons for why each segment should be reviewed

OUTPUT FORMAT (strict JSON, no markdown):
{
  "recommendations": [
    {
      "segment_number": 1,
      "segment_title": "Introduction to Topic",
      "start_timestamp": 0.0,
      "end_timestamp": 300.0,
      "reason": "This segment covers the fundamental concepts needed to understand question 3.",
      "priority": 1
    }
  ],
  "summary": "Brief encouraging summary of what the student should focus on."
}

RULES:
1. Output ONLY valid JSON. No markdown, no code fences.
2. Only recommend segments related to incorrectly answered questions.
3. If all answers are correct, return empty recommendations with a congratulatory summary.
4. Priority 1 = most important, higher numbers = less urgent.
5. Keep reasons concise and encouraging (1-2 sentences).
6. Do not recommend more than 5 segments.`

// UserPrompt lists the segments and the graded answers.
func UserPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("LECTURE SEGMENTS:\n")
	for _, s := range req.Segments {
		fmt.Fprintf(&b, "- Segment %d: %q\n", s.SegmentNumber, s.SegmentTitle)
		fmt.Fprintf(&b, "  Time: %s - %s\n", formatTime(s.StartTimestamp), formatTime(s.EndTimestamp))
		if len(s.KeyTopics) > 0 {
			fmt.Fprintf(&b, "  Topics: %s\n", strings.Join(s.KeyTopics, ", "))
		}
	}

	b.WriteString("\nQUIZ RESULTS:\n")
	for _, a := range req.Answers {
		status := "✓ CORRECT"
		if !a.IsCorrect {
			status = "✗ INCORRECT"
		}
		fmt.Fprintf(&b, "Question %d: %s\n", a.QuestionNumber, status)
		fmt.Fprintf(&b, "  Q: %s\n", a.QuestionText)
		if !a.IsCorrect {
			fmt.Fprintf(&b, "  User answered: %s\n", a.UserAnswer)
			fmt.Fprintf(&b, "  Correct answer: %s\n", a.CorrectAnswer)
		}
	}

	b.WriteString("\nBased on the incorrect answers, recommend which segments the student should review.\n")
	return b.String()
}
