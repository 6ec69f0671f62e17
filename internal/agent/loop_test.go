package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHivit700/InteLect/internal/llm"
)

func toolCall(id, name, args string) llm.MockResponse {
	return llm.MockResponse{ToolCalls: []llm.ToolCall{{ID: id, Name: name, Arguments: json.RawMessage(args)}}}
}

func newEchoLoop(t *testing.T, mock *llm.MockProvider, maxIter int) *Loop {
	t.Helper()
	reg, err := NewRegistry(echoTool())
	require.NoError(t, err)
	return NewLoop(mock, reg, Config{MaxIterations: maxIter, MaxTokens: 256}, nil)
}

func TestLoop_ReturnsFinalText(t *testing.T) {
	mock := llm.NewMockProvider(
		toolCall("c1", "echo", `{"text":"hello"}`),
		llm.MockText(`{"done":true}`),
	)
	loop := newEchoLoop(t, mock, 5)

	out, err := loop.Run(context.Background(), "sys", "go")
	require.NoError(t, err)
	assert.Equal(t, `{"done":true}`, out)
	require.Equal(t, 2, mock.CallCount())

	second := mock.LastCall()
	require.Len(t, second.Messages, 3)
	assert.Equal(t, llm.RoleAssistant, second.Messages[1].Role)
	results := second.Messages[2].ToolResults
	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].CallID)
	assert.Equal(t, "ECHO: hello", results[0].Content)
	assert.False(t, results[0].IsError)
	assert.Len(t, second.Tools, 1)
}

func TestLoop_UnknownToolBecomesErrorResult(t *testing.T) {
	mock := llm.NewMockProvider(
		toolCall("c1", "missing", `{}`),
		llm.MockText("ok"),
	)
	loop := newEchoLoop(t, mock, 5)

	out, err := loop.Run(context.Background(), "sys", "go")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	res := mock.LastCall().Messages[2].ToolResults[0]
	assert.True(t, res.IsError)
	assert.True(t, strings.Contains(res.Content, "unknown tool"), res.Content)
}

func TestLoop_EnforcesMaxIterations(t *testing.T) {
	mock := llm.NewMockProvider(
		toolCall("c1", "echo", `{"text":"a"}`),
		toolCall("c2", "echo", `{"text":"b"}`),
		toolCall("c3", "echo", `{"text":"c"}`),
	)
	loop := newEchoLoop(t, mock, 2)

	_, err := loop.Run(context.Background(), "sys", "go")
	require.ErrorIs(t, err, ErrMaxIterations)
	assert.Equal(t, 2, mock.CallCount())
}

func TestLoop_PropagatesProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	loop := newEchoLoop(t, mock, 3)

	_, err := loop.Run(context.Background(), "sys", "go")
	var unavail *llm.ErrProviderUnavailable
	require.True(t, errors.As(err, &unavail), "got %v", err)
}

func TestLoop_StopsOnCancel(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("unused"))
	loop := newEchoLoop(t, mock, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loop.Run(ctx, "sys", "go")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, mock.CallCount())
}
