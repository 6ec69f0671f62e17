package agent

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/SHivit700/InteLect/internal/llm"
	"github.com/SHivit700/InteLect/internal/logger"
)

var tracer = otel.Tracer("intelect/agent")

// Config bounds a tool loop.
type Config struct {
	// MaxIterations is the number of model calls allowed per Run.
	MaxIterations int

	MaxTokens   int
	Temperature float64
}

// Loop drives a model through tool calls until it answers in plain text.
// A Loop holds no per-run state and may be shared across goroutines.
type Loop struct {
	provider llm.Provider
	registry *Registry
	config   Config
	log      *logger.Logger
}

// NewLoop creates a Loop. A nil log discards output.
func NewLoop(provider llm.Provider, registry *Registry, cfg Config, log *logger.Logger) *Loop {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 10
	}
	return &Loop{provider: provider, registry: registry, config: cfg, log: log}
}

// Run sends user under system and answers tool calls until the model
// returns a response without any. The final text is returned.
func (l *Loop) Run(ctx context.Context, system, user string) (string, error) {
	ctx, span := tracer.Start(ctx, "agent.run")
	defer span.End()

	messages := []llm.Message{{Role: llm.RoleUser, Content: user}}
	tools := l.registry.Specs()

	for iter := 1; iter <= l.config.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return "", err
		}

		resp, err := l.provider.Generate(llm.WithAttempt(ctx, iter), llm.Request{
			System:      system,
			Messages:    messages,
			Tools:       tools,
			MaxTokens:   l.config.MaxTokens,
			Temperature: l.config.Temperature,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "llm error")
			return "", fmt.Errorf("agent iteration %d: %w", iter, err)
		}

		if len(resp.ToolCalls) == 0 {
			span.SetAttributes(attribute.Int("agent.iterations", iter))
			l.log.Debug("agent finished", "iterations", iter, "purpose", llm.PurposeFrom(ctx))
			return resp.Text(), nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Text(),
			ToolCalls: resp.ToolCalls,
		})
		messages = append(messages, llm.Message{
			Role:        llm.RoleUser,
			ToolResults: l.dispatchAll(ctx, resp.ToolCalls),
		})
	}

	span.SetAttributes(attribute.Int("agent.iterations", l.config.MaxIterations))
	span.SetStatus(codes.Error, ErrMaxIterations.Error())
	l.log.Warn("agent hit iteration limit", "max_iterations", l.config.MaxIterations, "purpose", llm.PurposeFrom(ctx))
	return "", ErrMaxIterations
}

// dispatchAll runs every call in order. Failures become error results
// the model can react to.
func (l *Loop) dispatchAll(ctx context.Context, calls []llm.ToolCall) []llm.ToolResult {
	results := make([]llm.ToolResult, 0, len(calls))
	for _, call := range calls {
		out, err := l.registry.Dispatch(ctx, call)
		if err != nil {
			l.log.Debug("tool call failed", "tool", call.Name, "error", err)
			msg := "ERROR: " + err.Error()
			if errors.Is(err, ErrUnknownTool) {
				msg = fmt.Sprintf("ERROR: unknown tool %q. Available tools: %v", call.Name, l.registry.Names())
			}
			results = append(results, llm.ToolResult{CallID: call.ID, Name: call.Name, Content: msg, IsError: true})
			continue
		}
		l.log.Debug("tool call", "tool", call.Name)
		results = append(results, llm.ToolResult{CallID: call.ID, Name: call.Name, Content: out})
	}
	return results
}
