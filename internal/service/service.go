// Package service validates API requests and runs the quiz workflows on
// their behalf. The HTTP server and the CLI both go through it.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/SHivit700/InteLect/internal/adaptive"
	"github.com/SHivit700/InteLect/internal/config"
	"github.com/SHivit700/InteLect/internal/difficulty"
	"github.com/SHivit700/InteLect/internal/judge"
	"github.com/SHivit700/InteLect/internal/llm"
	"github.com/SHivit700/InteLect/internal/logger"
	"github.com/SHivit700/InteLect/internal/quiz"
	"github.com/SHivit700/InteLect/internal/recap"
	"github.com/SHivit700/InteLect/internal/transcript"
)

// Service is safe for concurrent use; it holds no per-request state.
type Service struct {
	generator   quiz.QuizGenerator
	adaptive    *adaptive.Workflow
	judge       *judge.Judge
	recap       *recap.Recommender
	timeout     time.Duration
	concurrency int
	log         *logger.Logger
}

// New wires the workflows to provider using cfg.
func New(provider llm.Provider, cfg config.Config, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}

	// Generation surfaces outages on the first failed call; judging and
	// recap absorb failures, so they keep the transport retries.
	direct := llm.WithoutRetry(provider)

	qc := quiz.DefaultConfig()
	qc.MaxRepairAttempts = cfg.Quiz.MaxRepairAttempts
	qc.StructuredOutput = cfg.Quiz.StructuredOutput

	var gen quiz.QuizGenerator
	if cfg.Quiz.UseTools {
		gen = quiz.NewToolGenerator(direct, qc, cfg.Quiz.ToolIterations, log)
	} else {
		gen = quiz.NewGenerator(direct, qc, log)
	}

	ac := adaptive.DefaultConfig()
	ac.MaxRepairAttempts = cfg.Quiz.MaxRepairAttempts
	ac.StructuredOutput = cfg.Quiz.StructuredOutput

	jc := judge.DefaultConfig()
	jc.MaxIterations = cfg.Judge.MaxIterations
	jc.Fallback = judge.FallbackConfig{MinTokenLen: cfg.Judge.MinTokenLen, PrefixLen: cfg.Judge.PrefixLen}

	concurrency := cfg.Quiz.SegmentConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Service{
		generator:   gen,
		adaptive:    adaptive.NewWorkflow(direct, ac, log),
		judge:       judge.NewJudge(provider, jc, log),
		recap:       recap.NewRecommender(provider, log),
		timeout:     cfg.LLM.Timeout,
		concurrency: concurrency,
		log:         log,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// GenerateQuiz validates req and generates a quiz from its transcript. A
// missing quiz_id is replaced by a fresh UUID.
func (s *Service) GenerateQuiz(ctx context.Context, req QuizRequest) (*QuizResponse, error) {
	if err := ValidateQuizRequest(req); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if req.QuizID != nil {
		id = *req.QuizID
	}
	log := s.log.With("quiz_id", id)
	log.Info("generating quiz", "chars", len(req.Transcript))

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res := s.generator.FromTranscript(ctx, req.Transcript)
	if !res.OK() {
		log.Error("quiz generation failed", "attempts", res.Attempts, "error", res.Failure)
		return nil, &GenerationError{Message: res.Failure, Err: res.Err()}
	}

	window := 0
	if req.SourceWindowMinutes != nil {
		window = *req.SourceWindowMinutes
	}
	log.Info("quiz generated", "questions", len(res.Questions), "attempts", res.Attempts)
	return &QuizResponse{QuizID: id, SourceWindowMinutes: window, Questions: res.Questions}, nil
}

// GenerateStructured condenses segments into one prompt, optionally
// focused on a target segment, and generates a single quiz from it.
func (s *Service) GenerateStructured(ctx context.Context, req StructuredQuizRequest) (*QuizResponse, error) {
	if err := ValidateStructuredRequest(req); err != nil {
		return nil, err
	}
	target := ""
	if req.TargetSegment != nil {
		target = *req.TargetSegment
	}
	return s.generate(ctx, req.Segments, target, req.QuizID, req.QuestionsPerSegment)
}

// GeneratePerSegment generates one quiz per segment, in parallel up to the
// configured concurrency. Quiz ids are the base id with "_segment_N"
// appended. The first failure cancels the rest.
func (s *Service) GeneratePerSegment(ctx context.Context, req StructuredQuizRequest) ([]QuizResponse, error) {
	if err := ValidateStructuredRequest(req); err != nil {
		return nil, err
	}
	base := uuid.NewString()
	if req.QuizID != nil {
		base = *req.QuizID
	}

	out := make([]QuizResponse, len(req.Segments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, seg := range req.Segments {
		n := i + 1
		if seg.SegmentNumber != nil {
			n = *seg.SegmentNumber
		}
		id := fmt.Sprintf("%s_segment_%d", base, n)
		g.Go(func() error {
			resp, err := s.generate(gctx, []transcript.Segment{seg}, "", &id, req.QuestionsPerSegment)
			if err != nil {
				return fmt.Errorf("segment %d: %w", n, err)
			}
			out[i] = *resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) generate(ctx context.Context, segments []transcript.Segment, target string, quizID *string, perQuiz *int) (*QuizResponse, error) {
	processed := transcript.Process(segments)
	content := transcript.BuildPrompt(processed, target)
	if perQuiz != nil {
		content += fmt.Sprintf("\n\nGenerate exactly %d questions.", *perQuiz)
	}
	s.log.Info("processed transcript",
		"segments", len(segments),
		"topics", len(processed.KeyTopics),
		"minutes", fmt.Sprintf("%.1f", processed.TotalDurationMinutes),
	)

	req := QuizRequest{QuizID: quizID, Transcript: content}
	if minutes := int(processed.TotalDurationMinutes); minutes > 0 {
		req.SourceWindowMinutes = &minutes
	}
	return s.GenerateQuiz(ctx, req)
}

// GenerateAdaptive generates a quiz pinned to the difficulty chosen from
// the learner's previous performance.
func (s *Service) GenerateAdaptive(ctx context.Context, req AdaptiveQuizRequest) (*adaptive.Response, error) {
	if err := ValidateAdaptiveRequest(req); err != nil {
		return nil, err
	}

	n := adaptive.DefaultNumQuestions
	if req.NumQuestions != nil {
		n = *req.NumQuestions
	}
	var forced difficulty.Level
	if req.TargetDifficulty != nil && strings.TrimSpace(*req.TargetDifficulty) != "" {
		forced, _ = difficulty.ParseLevel(*req.TargetDifficulty)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.adaptive.Generate(ctx, adaptive.Request{
		VideoID:      req.VideoID,
		SegmentID:    req.SegmentID,
		Segments:     req.Segments,
		NumQuestions: n,
		Previous:     req.PreviousPerformance,
		Forced:       forced,
	})
	if err != nil {
		s.log.Error("adaptive generation failed", "video_id", req.VideoID, "segment_id", req.SegmentID, "error", err)
		return nil, &GenerationError{Message: err.Error(), Err: err}
	}
	return resp, nil
}

// ValidateAnswer judges a learner's answer. Judging itself never fails;
// only a malformed request returns an error.
func (s *Service) ValidateAnswer(ctx context.Context, req AnswerValidationRequest) (*AnswerValidationResponse, error) {
	if err := ValidateAnswerRequest(req); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	v := s.judge.Judge(ctx, judge.Request{
		Type:          quiz.QuestionType(req.QuestionType),
		Question:      req.QuestionText,
		CorrectAnswer: req.CorrectAnswer,
		UserAnswer:    req.UserAnswer,
		Options:       req.Options,
		Transcript:    req.Transcript,
	})
	return &AnswerValidationResponse{IsCorrect: v.IsCorrect, Feedback: v.Feedback}, nil
}

// Recommend suggests segments to rewatch after a quiz.
func (s *Service) Recommend(ctx context.Context, req recap.Request) (*recap.Response, error) {
	if strings.TrimSpace(req.VideoID) == "" {
		return nil, invalid("video_id is required")
	}
	for _, a := range req.Answers {
		if a.QuestionNumber < 1 {
			return nil, invalid("question_number must be positive, got %d", a.QuestionNumber)
		}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp := s.recap.Recommend(ctx, req)
	return &resp, nil
}

// IsGenerationFailure reports whether err is a failed quiz generation.
func IsGenerationFailure(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
