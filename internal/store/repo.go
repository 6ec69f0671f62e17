package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit      int       // max results (0 = unlimited)
	Purpose    string    // exact purpose match ("" = any)
	RequestID  string    // exact request id match ("" = any)
	FailedOnly bool      // only unsuccessful calls
	From       time.Time // timestamp >= From
	To         time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	// Attempt numbers the call within one workflow run: 1 for a first
	// generation, higher for repairs and tool-loop turns.
	Attempt      int
	RequestID    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates calls and tokens for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
	Failures     int
	// FollowUps counts calls with Attempt > 1.
	FollowUps    int
}

// FailureRate is Failures over Calls, 0 for no calls.
func (u PurposeUsage) FailureRate() float64 {
	if u.Calls == 0 {
		return 0
	}
	return float64(u.Failures) / float64(u.Calls)
}

// ModelUsage aggregates tokens per model, for cost estimation.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// NopEventRepo discards events. Used when no database is configured.
type NopEventRepo struct{}

func (NopEventRepo) AppendLLMRequest(context.Context, LLMRequestEventData) error { return nil }
