// Package judge decides whether a learner's answer is correct. Multiple
// choice answers are compared directly; short answers go to the model
// through a tool loop with a lexical fallback when that fails.
package judge

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/SHivit700/InteLect/internal/agent"
	"github.com/SHivit700/InteLect/internal/llm"
	"github.com/SHivit700/InteLect/internal/logger"
	"github.com/SHivit700/InteLect/internal/quiz"
)

var tracer = otel.Tracer("intelect/judge")

// Where a verdict came from.
const (
	SourceDirect     = "direct"
	SourceAgent      = "agent"
	SourceAgentLoose = "agent-loose"
	SourceFallback   = "fallback"
)

// Request is one answer to judge.
type Request struct {
	Type          quiz.QuestionType
	Question      string
	CorrectAnswer string
	UserAnswer    string
	Options       []quiz.Option
	Transcript    string
}

// Verdict is the judgement on an answer.
type Verdict struct {
	IsCorrect bool   `json:"is_correct"`
	Feedback  string `json:"feedback"`
	Source    string `json:"-"`
}

type Config struct {
	MaxIterations int
	MaxTokens     int
	Temperature   float64
	Fallback      FallbackConfig
}

func DefaultConfig() Config {
	return Config{MaxIterations: 10, MaxTokens: 600, Fallback: DefaultFallbackConfig()}
}

// Judge is stateless and safe for concurrent use.
type Judge struct {
	provider llm.Provider
	config   Config
	log      *logger.Logger
}

// NewJudge creates a Judge. provider may be nil, in which case short
// answers are always judged by the fallback heuristic.
func NewJudge(provider llm.Provider, cfg Config, log *logger.Logger) *Judge {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 10
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	if cfg.Fallback == (FallbackConfig{}) {
		cfg.Fallback = DefaultFallbackConfig()
	}
	return &Judge{provider: provider, config: cfg, log: log}
}

// Judge never fails: when the model cannot produce a verdict the answer is
// graded by the fallback heuristic.
func (j *Judge) Judge(ctx context.Context, req Request) Verdict {
	ctx, span := tracer.Start(ctx, "judge.answer")
	defer span.End()
	span.SetAttributes(attribute.String("judge.type", string(req.Type)))

	var v Verdict
	if req.Type == quiz.TypeMCQ {
		v = judgeMCQ(req)
	} else {
		v = j.judgeShort(ctx, req)
	}

	span.SetAttributes(
		attribute.Bool("judge.correct", v.IsCorrect),
		attribute.String("judge.source", v.Source),
	)
	j.log.Info("answer judged", "type", req.Type, "correct", v.IsCorrect, "source", v.Source)
	return v
}

func judgeMCQ(req Request) Verdict {
	user := strings.ToUpper(strings.TrimSpace(req.UserAnswer))
	correct := strings.ToUpper(strings.TrimSpace(req.CorrectAnswer))
	if user == correct {
		return Verdict{IsCorrect: true, Feedback: "Correct!", Source: SourceDirect}
	}
	feedback := "The correct answer is " + correct
	if text := optionText(req.Options, correct); text != "" {
		feedback = fmt.Sprintf("The correct answer is %s: %s", correct, text)
	}
	return Verdict{IsCorrect: false, Feedback: feedback, Source: SourceDirect}
}

func (j *Judge) judgeShort(ctx context.Context, req Request) Verdict {
	if j.provider == nil {
		return j.fallback(req)
	}

	registry, err := agent.NewRegistry(Tools(req)...)
	if err != nil {
		j.log.Error("judge tools rejected", "error", err)
		return j.fallback(req)
	}
	loop := agent.NewLoop(j.provider, registry, agent.Config{
		MaxIterations: j.config.MaxIterations,
		MaxTokens:     j.config.MaxTokens,
		Temperature:   j.config.Temperature,
	}, j.log)

	out, err := loop.Run(llm.WithPurpose(ctx, "answer-judge"), SystemPrompt, UserPrompt(req))
	if err != nil {
		j.log.Warn("judging loop failed, using fallback", "error", err)
		return j.fallback(req)
	}

	v, err := parseStrict(out)
	if err == nil {
		return v
	}
	j.log.Debug("verdict not strict JSON", "error", err)
	if v, ok := parseLoose(out); ok {
		j.log.Warn("verdict recovered from loose output")
		return v
	}
	j.log.Warn("verdict unparseable, using fallback", "output", prefix(out, 200))
	return j.fallback(req)
}

func (j *Judge) fallback(req Request) Verdict {
	if j.config.Fallback.Match(req.CorrectAnswer, req.UserAnswer) {
		return Verdict{IsCorrect: true, Feedback: "Good answer! You showed understanding of the concept.", Source: SourceFallback}
	}
	return Verdict{IsCorrect: false, Feedback: "The expected answer was: " + req.CorrectAnswer, Source: SourceFallback}
}
