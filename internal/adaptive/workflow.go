// Package adaptive generates quizzes whose questions all sit at one
// difficulty level chosen from the learner's previous performance.
package adaptive

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/SHivit700/InteLect/internal/difficulty"
	"github.com/SHivit700/InteLect/internal/llm"
	"github.com/SHivit700/InteLect/internal/logger"
	"github.com/SHivit700/InteLect/internal/quiz"
	"github.com/SHivit700/InteLect/internal/transcript"
)

var tracer = otel.Tracer("intelect/adaptive")

const DefaultNumQuestions = 3

// Request describes one adaptive quiz.
type Request struct {
	VideoID      string
	SegmentID    int
	Segments     []transcript.Segment
	NumQuestions int

	// Previous is the learner's last quiz, nil for the first segment.
	Previous *difficulty.Performance

	// Forced skips the policy when set to a valid level.
	Forced difficulty.Level
}

// Response is a generated adaptive quiz.
type Response struct {
	QuizID              string          `json:"quiz_id"`
	VideoID             string          `json:"video_id"`
	SegmentID           int             `json:"segment_id"`
	Difficulty          string          `json:"difficulty"`
	DifficultyReasoning string          `json:"difficulty_reasoning"`
	Questions           []quiz.Question `json:"questions"`
}

// Config tunes the underlying generator.
type Config struct {
	MaxRepairAttempts int
	Temperature       float64
	MaxTokens         int
	StructuredOutput  bool
}

func DefaultConfig() Config {
	return Config{MaxRepairAttempts: 2, Temperature: 0.2, MaxTokens: 1200}
}

// Workflow is safe for concurrent use.
type Workflow struct {
	provider llm.Provider
	config   Config
	log      *logger.Logger
}

func NewWorkflow(provider llm.Provider, cfg Config, log *logger.Logger) *Workflow {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	return &Workflow{provider: provider, config: cfg, log: log}
}

// Generate decides the difficulty, runs the repair loop with a prompt
// pinned to it and forces the level onto every returned question. A
// failed run returns an error wrapping the quiz failure.
func (w *Workflow) Generate(ctx context.Context, req Request) (*Response, error) {
	decision := difficulty.Next(req.Previous, req.Forced)
	n := req.NumQuestions
	if n <= 0 {
		n = DefaultNumQuestions
	}

	ctx, span := tracer.Start(ctx, "adaptive.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("adaptive.video_id", req.VideoID),
		attribute.Int("adaptive.segment_id", req.SegmentID),
		attribute.String("adaptive.difficulty", string(decision.Level)),
	)

	log := w.log.With("video_id", req.VideoID, "segment_id", req.SegmentID)
	log.Info("adaptive difficulty chosen", "difficulty", decision.Level, "reason", decision.Rationale)

	gen := quiz.NewGenerator(w.provider, quiz.Config{
		MaxRepairAttempts: w.config.MaxRepairAttempts,
		Temperature:       w.config.Temperature,
		MaxTokens:         w.config.MaxTokens,
		System:            SystemPrompt(decision.Level),
		StructuredOutput:  w.config.StructuredOutput,
		Purpose:           "quiz-adaptive",
	}, log)

	res := gen.Generate(ctx, UserPrompt(transcript.Flatten(req.Segments), decision.Level, n))
	span.SetAttributes(attribute.Int("quiz.attempts", res.Attempts))
	if !res.OK() {
		span.RecordError(res.Err())
		span.SetStatus(codes.Error, "generation failed")
		return nil, fmt.Errorf("adaptive quiz for segment %d: %w", req.SegmentID, res.Err())
	}

	questions := uniform(res.Questions, quiz.Difficulty(decision.Level))
	return &Response{
		QuizID:              fmt.Sprintf("%s_segment_%d", req.VideoID, req.SegmentID),
		VideoID:             req.VideoID,
		SegmentID:           req.SegmentID,
		Difficulty:          string(decision.Level),
		DifficultyReasoning: decision.Rationale,
		Questions:           questions,
	}, nil
}

// uniform returns questions with every difficulty set to level when any
// of them strays from it. The input slice is left untouched.
func uniform(questions []quiz.Question, level quiz.Difficulty) []quiz.Question {
	mismatch := false
	for _, q := range questions {
		if q.Difficulty != level {
			mismatch = true
			break
		}
	}
	if !mismatch {
		return questions
	}
	out := make([]quiz.Question, len(questions))
	for i, q := range questions {
		q.Difficulty = level
		out[i] = q
	}
	return out
}
