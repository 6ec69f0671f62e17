package difficulty

var guidelines = map[Level]string{
	Easy: `EASY DIFFICULTY GUIDELINES:
- Ask about basic definitions and terminology
- Use simple, straightforward questions
- Avoid complex reasoning or multi-step problems
- Focus on recall of key facts
- Use clear, unambiguous language
- MCQ distractors should be obviously different from the correct answer`,
	Medium: `MEDIUM DIFFICULTY GUIDELINES:
- Ask about relationships between concepts
- Require understanding, not just memorization
- Include some application of knowledge
- MCQ distractors should be plausible but distinguishable
- May require connecting 2-3 pieces of information
- Include "why" and "how" questions, not just "what"`,
	Hard: `HARD DIFFICULTY GUIDELINES:
- Ask about complex relationships and synthesis of ideas
- Require analysis, evaluation, or application to new scenarios
- Include questions that require multi-step reasoning
- MCQ distractors should be very plausible, testing deep understanding
- May require connecting multiple concepts across the transcript
- Include edge cases, exceptions, or nuanced understanding`,
}

// Guidelines returns prompt guidance for writing questions at l, or ""
// for an unknown level.
func Guidelines(l Level) string {
	return guidelines[l]
}
