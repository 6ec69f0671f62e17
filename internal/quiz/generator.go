package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/SHivit700/InteLect/internal/llm"
	"github.com/SHivit700/InteLect/internal/logger"
)

var tracer = otel.Tracer("intelect/quiz")

// QuizGenerator turns lecture text into a validated quiz.
type QuizGenerator interface {
	FromTranscript(ctx context.Context, transcript string) Result
}

// Generator runs the generate, parse, validate, repair loop against a
// provider. It is stateless between calls and safe to share.
type Generator struct {
	provider llm.Provider
	config   Config
	log      *logger.Logger
}

// NewGenerator creates a Generator. A nil log discards output.
func NewGenerator(provider llm.Provider, cfg Config, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{provider: provider, config: cfg.withDefaults(), log: log}
}

// FromTranscript generates a quiz for raw lecture text.
func (g *Generator) FromTranscript(ctx context.Context, transcript string) Result {
	return g.Generate(ctx, UserPrompt(transcript))
}

// Generate sends prompt and repairs the output until it validates or the
// repair budget runs out. Provider failures end the run at once.
func (g *Generator) Generate(ctx context.Context, prompt string) Result {
	ctx = llm.WithPurpose(ctx, g.config.Purpose)
	ctx, span := tracer.Start(ctx, "quiz.generate", trace.WithAttributes(
		attribute.Int("quiz.max_repair_attempts", g.config.MaxRepairAttempts),
	))
	defer span.End()

	maxAttempts := g.config.MaxRepairAttempts + 1
	current := prompt

	for attempt := 1; ; attempt++ {
		raw, err := g.call(llm.WithAttempt(ctx, attempt), current)
		if err != nil {
			g.log.Error("quiz generation aborted", "attempt", attempt, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "llm error")
			span.SetAttributes(attribute.Int("quiz.attempts", attempt))
			return failed("LLM error: "+err.Error(), attempt, &InfrastructureError{Err: err})
		}

		questions, cerr := check(raw)
		if cerr == nil {
			span.SetAttributes(
				attribute.Int("quiz.attempts", attempt),
				attribute.Int("quiz.questions", len(questions)),
			)
			g.log.Info("quiz generated", "attempts", attempt, "questions", len(questions))
			return succeeded(questions, attempt)
		}

		errs := violations(cerr)
		span.AddEvent("invalid output", trace.WithAttributes(
			attribute.Int("quiz.attempt", attempt),
			attribute.StringSlice("quiz.errors", errs),
		))
		g.log.Warn("quiz output rejected", "attempt", attempt, "max_attempts", maxAttempts, "errors", errs)

		if attempt >= maxAttempts {
			msg := fmt.Sprintf("Quiz generation failed after %d attempts. Last errors: %s",
				maxAttempts, strings.Join(errs, "; "))
			span.SetStatus(codes.Error, "repair budget exhausted")
			span.SetAttributes(attribute.Int("quiz.attempts", attempt))
			return failed(msg, attempt, &ExhaustedRepairError{Attempts: attempt, Last: cerr})
		}

		current = RepairPrompt(current, errs, raw)
	}
}

// call makes one model request. A structured-output response the
// provider rejected against Schema is handed back as raw text so the
// validator can report on it like any other output.
func (g *Generator) call(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	req := llm.Request{
		System:      g.config.System,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	if g.config.StructuredOutput {
		req.Schema = Schema
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		// Rejected or truncated output is content to repair, not an outage.
		if raw, ok := partialContent(err); ok && ctx.Err() == nil {
			return raw, nil
		}
		return "", err
	}
	return resp.Text(), nil
}

// partialContent extracts the text carried by a schema rejection or a
// max-tokens stop.
func partialContent(err error) (string, bool) {
	var invalid *llm.ErrInvalidResponse
	if errors.As(err, &invalid) {
		return string(invalid.Content), len(invalid.Content) > 0
	}
	var truncated *llm.ErrMaxTokensExceeded
	if errors.As(err, &truncated) {
		return string(truncated.Content), true
	}
	return "", false
}

// check parses and validates raw, returning a *ParseError or
// *ValidationError on failure.
func check(raw string) ([]Question, error) {
	c, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	out := Validate(c)
	if !out.OK() {
		return nil, out.Err()
	}
	return out.Questions, nil
}

// violations renders a check error as the list fed to the repair prompt.
func violations(err error) []string {
	var pe *ParseError
	if errors.As(err, &pe) {
		return []string{"JSON parse error: " + pe.Err.Error()}
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Errors
	}
	return []string{err.Error()}
}
