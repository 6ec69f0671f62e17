package quiz

import "github.com/SHivit700/InteLect/internal/llm"

// Schema is the JSON schema of a quiz as the model must emit it. It is
// sent for native structured output when Config.StructuredOutput is set.
// Counts, the MCQ mix and option ids are left to Validate so repair
// prompts carry its messages.
var Schema = &llm.Schema{
	Name:        "lecture-quiz",
	Description: "A 3-5 question quiz generated from a lecture transcript",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type": "string",
							"enum": []any{"mcq", "short_answer"},
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The question text, answerable from the lecture alone",
						},
						"options": map[string]any{
							"type":        "array",
							"description": "Exactly 4 options A-D for mcq. Omit or null for short_answer.",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"id":   map[string]any{"type": "string", "description": "One of A, B, C, D"},
									"text": map[string]any{"type": "string"},
								},
								"required":             []any{"id", "text"},
								"additionalProperties": false,
							},
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "Option letter for mcq, expected answer text for short_answer",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "1-2 sentence explanation",
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"easy", "medium", "hard"},
						},
						"learning_objective": map[string]any{"type": "string"},
					},
					"required":             []any{"type", "question", "answer", "explanation", "difficulty"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
