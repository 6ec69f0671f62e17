package cmd

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHivit700/InteLect/internal/store"
)

// seedEvents writes one repaired generation run that ended in an outage,
// one judge call and one recap call.
func seedEvents(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	repo := s.EventRepo()
	for _, e := range []store.LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "quiz-generate", Attempt: 1, RequestID: "req-1",
			InputTokens: 1000, OutputTokens: 500, LatencyMs: 900, Success: true, RequestBody: `{"system":"quiz"}`},
		{Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "quiz-generate", Attempt: 2, RequestID: "req-1",
			InputTokens: 1200, OutputTokens: 400, LatencyMs: 700, Success: true},
		{Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "quiz-generate", Attempt: 3, RequestID: "req-1",
			LatencyMs: 200, ErrorMessage: "provider unavailable"},
		{Provider: "mock", Model: "mock-model", Purpose: "answer-judge", Attempt: 1, RequestID: "req-2",
			InputTokens: 300, OutputTokens: 50, LatencyMs: 100, Success: true},
		{Provider: "mock", Model: "mock-model", Purpose: "recap", Attempt: 1,
			InputTokens: 200, OutputTokens: 80, LatencyMs: 100, Success: true},
	} {
		require.NoError(t, repo.AppendLLMRequest(context.Background(), e))
	}
	return path
}

func TestLLMList_FailedOnly(t *testing.T) {
	isolate(t)
	db := seedEvents(t)

	out, err := execute(t, "--db", db, "llm", "list", "--failed")
	require.NoError(t, err)
	assert.Contains(t, out, "quiz-generate")
	assert.Contains(t, out, "failed")
	assert.NotContains(t, out, "answer-judge")
	assert.NotContains(t, out, "recap")
}

func TestLLMList_ByRequest(t *testing.T) {
	isolate(t)
	db := seedEvents(t)

	out, err := execute(t, "--db", db, "llm", "list", "--request-id", "req-1", "--since", "1h")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "quiz-generate"))
	assert.NotContains(t, out, "answer-judge")

	out, err = execute(t, "--db", db, "llm", "list", "--request-id", "nope")
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM events found.")
}

func TestLLMView(t *testing.T) {
	isolate(t)
	db := seedEvents(t)

	out, err := execute(t, "--db", db, "llm", "view", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Request:   req-1")
	assert.Contains(t, out, "Purpose:   quiz-generate (generation)")
	assert.Contains(t, out, "Attempt:   3")
	assert.Contains(t, out, "Status:    failed")
	assert.Contains(t, out, "Error:     provider unavailable")
	assert.Contains(t, out, "(not captured)")

	out, err = execute(t, "--db", db, "llm", "view", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `{"system":"quiz"}`)
	assert.Contains(t, out, "Cost:      $0.0035")

	_, err = execute(t, "--db", db, "llm", "view", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLLMStats(t *testing.T) {
	isolate(t)
	db := seedEvents(t)

	out, err := execute(t, "--db", db, "llm", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage by Workflow")
	assert.Contains(t, out, "Usage by Purpose")
	assert.Contains(t, out, "generation")
	assert.Contains(t, out, "judging")
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "Pricing unavailable for: mock-model")
}

func TestLLMCommands_DatabaseOff(t *testing.T) {
	isolate(t)
	_, err := execute(t, "--db", "off", "llm", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestByWorkflow(t *testing.T) {
	rows := byWorkflow([]store.PurposeUsage{
		{Purpose: "quiz-generate", Calls: 3, FollowUps: 2, Failures: 1, InputTokens: 2200, AvgLatencyMs: 600},
		{Purpose: "answer-judge", Calls: 2, FollowUps: 1, AvgLatencyMs: 100},
		{Purpose: "quiz-adaptive", Calls: 1, AvgLatencyMs: 1200, InputTokens: 800},
		{Purpose: "recap", Calls: 1, AvgLatencyMs: 50},
	})
	require.Len(t, rows, 3)

	gen := rows[0]
	assert.Equal(t, "generation", gen.Purpose)
	assert.Equal(t, 4, gen.Calls)
	assert.Equal(t, 2, gen.FollowUps)
	assert.Equal(t, 1, gen.Failures)
	assert.Equal(t, 3000, gen.InputTokens)
	assert.Equal(t, int64(750), gen.AvgLatencyMs)

	assert.Equal(t, "judging", rows[1].Purpose)
	assert.Equal(t, "recap", rows[2].Purpose)
}

func TestWorkflowOf(t *testing.T) {
	assert.Equal(t, "generation", workflowOf("quiz-generate-tools"))
	assert.Equal(t, "judging", workflowOf("answer-judge"))
	assert.Equal(t, "recap", workflowOf("recap"))
	assert.Equal(t, "other", workflowOf(""))
}
