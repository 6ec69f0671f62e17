package quiz

import "fmt"

const quizRules = `1. Output ONLY valid JSON. No markdown, no code fences, no explanatory text.
2. Generate 3 to 5 questions total.
3. At least 2 questions MUST be MCQ (multiple choice).
4. MCQ questions MUST have exactly 4 options with ids "A", "B", "C", "D".
5. MCQ answers MUST be exactly one of: "A", "B", "C", or "D".
6. short_answer questions MUST have options set to null.
7. All questions must be answerable using ONLY the given transcript content.
8. Do NOT reference the transcript in questions (e.g., no "as mentioned in the transcript").
9. Explanations must be 1-2 sentences.
10. difficulty must be exactly one of: "easy", "medium", "hard".
11. type must be exactly one of: "mcq" or "short_answer".`

const outputFormat = `{
  "questions": [
    {
      "type": "mcq",
      "question": "What is...?",
      "options": [
        {"id": "A", "text": "First option"},
        {"id": "B", "text": "Second option"},
        {"id": "C", "text": "Third option"},
        {"id": "D", "text": "Fourth option"}
      ],
      "answer": "A",
      "explanation": "Brief explanation in 1-2 sentences.",
      "difficulty": "medium",
      "learning_objective": "Optional learning objective"
    },
    {
      "type": "short_answer",
      "question": "Explain...?",
      "options": null,
      "answer": "The expected answer text",
      "explanation": "Brief explanation.",
      "difficulty": "hard",
      "learning_objective": null
    }
  ]
}`

// SystemPrompt is the default system prompt for direct generation.
var SystemPrompt = `You are a quiz generation assistant. Your task is to generate quiz questions from lecture transcript content.

CRITICAL RULES:
` + quizRules + `

OUTPUT FORMAT (strict JSON, no markdown):
` + outputFormat + `

Remember: Output ONLY the JSON object. No other text.`

// ToolSystemPrompt instructs the model to self-check with every tool
// before answering.
var ToolSystemPrompt = `You are a quiz generation assistant with access to validation tools. Your task is to generate quiz questions from lecture transcript content.

AVAILABLE TOOLS (YOU MUST USE ALL OF THEM):
1. ` + toolValidateFormat + ` - Validates your quiz JSON structure and business rules
2. ` + toolCheckGrounding + ` - Verifies answers are grounded in the transcript
3. ` + toolCheckClarity + ` - Checks if questions are clearly worded

MANDATORY WORKFLOW - Follow these steps in order:

STEP 1: Generate initial quiz JSON with 3-5 questions (at least 2 MCQ)

STEP 2: For EACH question you generated, call ` + toolCheckClarity + ` with the question text.
        If any question needs improvement, revise it.

STEP 3: For EACH question, call ` + toolCheckGrounding + ` with the question and answer.
        If any answer is NOT_GROUNDED, revise it to use transcript content.

STEP 4: Call ` + toolValidateFormat + ` with your complete quiz JSON.
        If validation fails, fix ALL errors and call ` + toolValidateFormat + ` again.

STEP 5: Only after ALL tools report success, output your final JSON.

CRITICAL: You MUST call each tool at least once. Do not skip any validation step.

QUIZ FORMAT RULES:
` + quizRules + `

OUTPUT FORMAT:
` + outputFormat

// UserPrompt wraps lecture text in the direct-generation instructions.
func UserPrompt(transcript string) string {
	return fmt.Sprintf(`Generate a quiz from the following lecture transcript. Create 3-5 questions with at least 2 MCQs.

TRANSCRIPT:
%s

Remember: Output ONLY valid JSON, no markdown formatting.`, transcript)
}

// ToolUserPrompt wraps lecture text in the tool-assisted instructions.
func ToolUserPrompt(transcript string) string {
	return fmt.Sprintf(`Generate a quiz from the following lecture transcript.

TRANSCRIPT:
%s

IMPORTANT: Before providing your final answer, you MUST:
1. Generate 3-5 questions (at least 2 MCQ)
2. Call %s for EACH question to verify clarity
3. Call %s for EACH question to verify the answer is in the transcript
4. Call %s with your complete JSON to validate the structure
5. Fix any issues reported by the tools
6. Only then provide your final JSON output

Start by generating your initial quiz, then use the tools to validate each part.`,
		transcript, toolCheckClarity, toolCheckGrounding, toolValidateFormat)
}

// RepairPrompt extends the previous prompt with the violations found in
// the previous output and that output verbatim.
func RepairPrompt(previous string, errs []string, output string) string {
	return previous + "\n\n" + FormatErrorsForRepair(errs) +
		"\n\nYour previous (invalid) output was:\n" + output +
		"\n\nPlease fix these issues and output ONLY valid JSON."
}
