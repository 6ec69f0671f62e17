package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHivit700/InteLect/internal/config"
	"github.com/SHivit700/InteLect/internal/llm"
	"github.com/SHivit700/InteLect/internal/service"
)

const validQuiz = `{"questions":[
 {"type":"mcq","question":"What does dropout disable?","options":[{"id":"A","text":"Neurons"},{"id":"B","text":"Weights"},{"id":"C","text":"Biases"},{"id":"D","text":"Inputs"}],"answer":"A","explanation":"Dropout disables neurons.","difficulty":"easy"},
 {"type":"mcq","question":"When is dropout active?","options":[{"id":"A","text":"Inference"},{"id":"B","text":"Training"},{"id":"C","text":"Both"},{"id":"D","text":"Neither"}],"answer":"B","explanation":"Only during training.","difficulty":"easy"},
 {"type":"short_answer","question":"Why use dropout?","options":null,"answer":"To reduce overfitting","explanation":"It regularizes.","difficulty":"medium"}
]}`

var lecture = strings.Repeat("Dropout randomly disables neurons during training to reduce overfitting. ", 3)

func newTestServer(t *testing.T, responses ...llm.MockResponse) (*httptest.Server, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	cfg := config.Default()
	cfg.LLM.Provider = "mock"
	svc := service.New(mock, cfg, nil)
	ts := httptest.NewServer(New(svc, cfg.Server, "1.2.3", nil).Handler())
	t.Cleanup(ts.Close)
	return ts, mock
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

const adaptiveBody = `{
	"video_id": "vid", "segment_id": 2,
	"segments": [{"segment_title": "Intro", "segment_start_timestamp": 0, "segment_end_timestamp": 60,
		"transcript": [{"start_timestamp": 0, "end_timestamp": 60, "text": "Dropout disables neurons."}]}],
	"previous_performance": {"segment_number": 1, "quiz_difficulty": "easy", "total_questions": 3,
		"correct_count": 3, "accuracy": 0.9, "attempts": []}
}`

func quizBody(transcript string) string {
	b, _ := json.Marshal(map[string]any{"transcript": transcript, "quiz_id": "q-1"})
	return string(b)
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, HealthResponse{Status: "healthy", Version: "1.2.3"}, body)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestQuiz_Success(t *testing.T) {
	ts, _ := newTestServer(t, llm.MockText(validQuiz))
	resp, body := post(t, ts, "/quiz", quizBody(lecture))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "q-1", body["quiz_id"])
	assert.EqualValues(t, 0, body["source_window_minutes"])
	assert.Len(t, body["questions"], 3)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		body      string
		responses []llm.MockResponse
		status    int
		code      string
		message   string
	}{
		{
			name: "malformed json", path: "/quiz", body: `{"transcript": `,
			status: http.StatusBadRequest, code: "invalid_request",
		},
		{
			name: "short transcript", path: "/quiz", body: quizBody("short"),
			status: http.StatusBadRequest, code: "validation_error",
			message: "Transcript too short. Minimum length is 50 characters.",
		},
		{
			name: "long transcript", path: "/quiz", body: quizBody(strings.Repeat("a", 50001)),
			status: http.StatusRequestEntityTooLarge, code: "payload_too_large",
		},
		{
			name: "body over limit", path: "/quiz", body: quizBody(strings.Repeat("a", MaxBodyBytes+1)),
			status: http.StatusRequestEntityTooLarge, code: "payload_too_large",
		},
		{
			name: "generation failure", path: "/quiz", body: quizBody(lecture),
			responses: []llm.MockResponse{llm.MockText("x"), llm.MockText("x"), llm.MockText("x")},
			status:    http.StatusBadGateway, code: "generation_failed",
			message: "Quiz generation failed. Please try again later.",
		},
		{
			name: "provider unreachable", path: "/quiz", body: quizBody(lecture),
			responses: []llm.MockResponse{{Err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}}},
			status:    http.StatusServiceUnavailable, code: "generation_unavailable",
			message: "The quiz generator is temporarily unavailable. Please try again later.",
		},
		{
			name: "adaptive provider unreachable", path: "/quiz/adaptive",
			body:      adaptiveBody,
			responses: []llm.MockResponse{{Err: &llm.ErrProviderUnavailable{Err: errors.New("timeout")}}},
			status:    http.StatusServiceUnavailable, code: "generation_unavailable",
		},
		{
			name: "no segments", path: "/quiz/structured", body: `{"segments": []}`,
			status: http.StatusBadRequest, code: "validation_error",
			message: "At least one transcript segment is required",
		},
		{
			name: "bad answer type", path: "/quiz/validate-answer",
			body:   `{"question_text":"Q","question_type":"essay","correct_answer":"A","user_answer":"B"}`,
			status: http.StatusBadRequest, code: "validation_error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := newTestServer(t, tt.responses...)
			resp, body := post(t, ts, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, body["error"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			}
		})
	}
}

func TestValidateAnswer(t *testing.T) {
	ts, mock := newTestServer(t)
	resp, body := post(t, ts, "/quiz/validate-answer",
		`{"question_text":"Which?","question_type":"mcq","correct_answer":"B","user_answer":"c",
		  "options":[{"id":"A","text":"One"},{"id":"B","text":"Two"},{"id":"C","text":"Three"},{"id":"D","text":"Four"}]}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["is_correct"])
	assert.Equal(t, "The correct answer is B: Two", body["feedback"])
	assert.Equal(t, 0, mock.CallCount())
}

func TestAdaptive(t *testing.T) {
	ts, _ := newTestServer(t, llm.MockText(validQuiz))
	resp, body := post(t, ts, "/quiz/adaptive", adaptiveBody)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "vid_segment_2", body["quiz_id"])
	assert.Equal(t, "medium", body["difficulty"])
	for _, q := range body["questions"].([]any) {
		assert.Equal(t, "medium", q.(map[string]any)["difficulty"])
	}
}

func TestStructuredPerSegment(t *testing.T) {
	ts, _ := newTestServer(t, llm.MockText(validQuiz), llm.MockText(validQuiz))
	seg := `{"segment_title": "%s", "segment_start_timestamp": 0, "segment_end_timestamp": 120,
		"transcript": [{"start_timestamp": 0, "end_timestamp": 120, "text": "Dropout is a regularization technique that disables neurons during training."}]}`
	body := `{"quiz_id": "lec", "segments": [` + strings.Replace(seg, "%s", "One", 1) + "," + strings.Replace(seg, "%s", "Two", 1) + `]}`

	resp, out := post(t, ts, "/quiz/structured?per_segment=true", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	quizzes := out["quizzes"].([]any)
	require.Len(t, quizzes, 2)
	assert.Equal(t, "lec_segment_1", quizzes[0].(map[string]any)["quiz_id"])
	assert.Equal(t, "lec_segment_2", quizzes[1].(map[string]any)["quiz_id"])
}

func TestRecommendations(t *testing.T) {
	ts, mock := newTestServer(t)
	resp, body := post(t, ts, "/quiz/recap/recommendations",
		`{"video_id": "v", "segments": [], "answers": [{"question_number": 1, "question_text": "Q", "user_answer": "a", "correct_answer": "a", "is_correct": true}]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Excellent work! You answered all questions correctly. No review needed.", body["summary"])
	assert.Equal(t, 0, mock.CallCount())
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/quiz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	cfg := config.Default().Server
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	srv := New(nil, cfg, "test", nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
