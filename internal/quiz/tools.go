package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/SHivit700/InteLect/internal/agent"
	"github.com/SHivit700/InteLect/internal/llm"
	"github.com/SHivit700/InteLect/internal/logger"
)

const (
	toolValidateFormat = "validate_quiz_format"
	toolCheckGrounding = "check_answer_in_transcript"
	toolCheckClarity   = "check_question_clarity"
)

// DefaultToolIterations bounds the tool-assisted loop: one draft, a
// clarity and grounding check per question, validation and a revision.
const DefaultToolIterations = 25

type validateFormatArgs struct {
	QuizJSON string `json:"quiz_json"`
}

type groundingArgs struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type clarityArgs struct {
	Question string `json:"question"`
}

var (
	validateFormatSchema = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"quiz_json": map[string]any{
				"type":        "string",
				"description": "The complete quiz JSON string to validate, including the outer object with 'questions' array",
			},
		},
		"required": []any{"quiz_json"},
	}
	groundingSchema = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string", "description": "The question text being asked"},
			"answer":   map[string]any{"type": "string", "description": "The answer or correct option text to verify"},
		},
		"required": []any{"question", "answer"},
	}
	claritySchema = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string", "description": "The question text to analyze for clarity"},
		},
		"required": []any{"question"},
	}
)

// Tools returns the self-check tools for generating a quiz from
// transcript. Grounding checks run against transcript.
func Tools(transcript string) []agent.Tool {
	return []agent.Tool{
		{
			Name: toolValidateFormat,
			Description: `Validates a quiz JSON string against the required format and business rules.
Call this tool BEFORE returning your final answer to ensure the quiz is valid.
Returns "VALID" if the quiz passes all checks, or a detailed list of validation errors.`,
			Schema: validateFormatSchema,
			Handler: agent.Typed(toolValidateFormat, validateFormatSchema, func(_ context.Context, a validateFormatArgs) (string, error) {
				return validateFormat(a.QuizJSON), nil
			}),
		},
		{
			Name: toolCheckGrounding,
			Description: `Verifies that a question's answer is grounded in the lecture transcript content.
Call this for each question to ensure answers come from the actual lecture material.
Returns "GROUNDED" if the answer appears supported by the transcript, or explains what's missing.`,
			Schema: groundingSchema,
			Handler: agent.Typed(toolCheckGrounding, groundingSchema, func(_ context.Context, a groundingArgs) (string, error) {
				if strings.TrimSpace(transcript) == "" {
					return "ERROR: No transcript available for verification", nil
				}
				return CheckGrounding(transcript, a.Answer).String(), nil
			}),
		},
		{
			Name: toolCheckClarity,
			Description: `Analyzes a question for clarity and potential ambiguity issues.
Checks for double negatives, vague quantifiers, ambiguous pronouns and overly long questions.
Returns "CLEAR" if the question is well-formed, or suggests specific improvements.`,
			Schema: claritySchema,
			Handler: agent.Typed(toolCheckClarity, claritySchema, func(_ context.Context, a clarityArgs) (string, error) {
				return FormatClarity(CheckClarity(a.Question)), nil
			}),
		},
	}
}

func validateFormat(quizJSON string) string {
	c, err := Parse(quizJSON)
	if err != nil {
		return "INVALID: JSON parse error - " + err.(*ParseError).Err.Error()
	}
	out := Validate(c)
	if !out.OK() {
		return fmt.Sprintf("INVALID: Found %d validation errors:\n- %s", len(out.Errors), strings.Join(out.Errors, "\n- "))
	}
	return fmt.Sprintf("VALID: Quiz contains %d valid questions", len(out.Questions))
}

// ToolGenerator lets the model check its own draft with Tools before
// answering, then validates the final answer once. There is no repair
// loop; the tools play that role.
type ToolGenerator struct {
	provider llm.Provider
	config   Config
	maxIter  int
	log      *logger.Logger
}

// NewToolGenerator creates a ToolGenerator. maxIterations <= 0 means
// DefaultToolIterations.
func NewToolGenerator(provider llm.Provider, cfg Config, maxIterations int, log *logger.Logger) *ToolGenerator {
	if log == nil {
		log = logger.Nop()
	}
	if maxIterations <= 0 {
		maxIterations = DefaultToolIterations
	}
	cfg = cfg.withDefaults()
	if cfg.System == SystemPrompt {
		cfg.System = ToolSystemPrompt
	}
	return &ToolGenerator{provider: provider, config: cfg, maxIter: maxIterations, log: log}
}

// FromTranscript runs the tool loop over transcript.
func (g *ToolGenerator) FromTranscript(ctx context.Context, transcript string) Result {
	ctx = llm.WithPurpose(ctx, g.config.Purpose+"-tools")
	ctx, span := tracer.Start(ctx, "quiz.generate_with_tools")
	defer span.End()

	registry, err := agent.NewRegistry(Tools(transcript)...)
	if err != nil {
		return failed("Agent error: "+err.Error(), 0, err)
	}
	loop := agent.NewLoop(g.provider, registry, agent.Config{
		MaxIterations: g.maxIter,
		MaxTokens:     g.config.MaxTokens,
		Temperature:   g.config.Temperature,
	}, g.log)

	out, err := loop.Run(ctx, g.config.System, ToolUserPrompt(transcript))
	if err != nil {
		span.RecordError(err)
		g.log.Error("tool-assisted generation failed", "error", err)
		return failed("Agent error: "+err.Error(), 1, &InfrastructureError{Err: err})
	}

	c, err := Parse(out)
	if err != nil {
		g.log.Warn("agent returned invalid JSON", "error", err)
		return failed("Agent returned invalid JSON: "+err.(*ParseError).Err.Error(), 1, err)
	}
	outcome := Validate(c)
	if !outcome.OK() {
		g.log.Warn("agent output failed validation", "errors", outcome.Errors)
		return failed("Agent output failed validation: "+strings.Join(outcome.Errors, "; "), 1, outcome.Err())
	}

	g.log.Info("quiz generated with tools", "questions", len(outcome.Questions))
	return succeeded(outcome.Questions, 1)
}
