package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHivit700/InteLect/internal/config"
	"github.com/SHivit700/InteLect/internal/difficulty"
	"github.com/SHivit700/InteLect/internal/llm"
	"github.com/SHivit700/InteLect/internal/logger"
	"github.com/SHivit700/InteLect/internal/quiz"
	"github.com/SHivit700/InteLect/internal/recap"
	"github.com/SHivit700/InteLect/internal/transcript"
)

const validQuiz = `{"questions":[
 {"type":"mcq","question":"What does dropout disable?","options":[{"id":"A","text":"Neurons"},{"id":"B","text":"Weights"},{"id":"C","text":"Biases"},{"id":"D","text":"Inputs"}],"answer":"a","explanation":"Dropout disables neurons.","difficulty":"easy"},
 {"type":"mcq","question":"When is dropout active?","options":[{"id":"A","text":"Inference"},{"id":"B","text":"Training"},{"id":"C","text":"Both"},{"id":"D","text":"Neither"}],"answer":"B","explanation":"Only during training.","difficulty":"easy"},
 {"type":"short_answer","question":"Why use dropout?","options":null,"answer":"To reduce overfitting","explanation":"It regularizes.","difficulty":"medium"}
]}`

var lecture = strings.Repeat("Dropout randomly disables neurons during training to reduce overfitting. ", 3)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.LLM.Provider = "mock"
	cfg.Quiz.SegmentConcurrency = 2
	return cfg
}

func ptr[T any](v T) *T { return &v }

func segments(n int) []transcript.Segment {
	var out []transcript.Segment
	for i := 0; i < n; i++ {
		out = append(out, transcript.Segment{
			SegmentNumber:         ptr(i + 1),
			SegmentTitle:          "Part " + string(rune('A'+i)),
			SegmentStartTimestamp: float64(i * 300),
			SegmentEndTimestamp:   float64((i + 1) * 300),
			Transcript: []transcript.Entry{
				{StartTimestamp: float64(i * 300), EndTimestamp: float64((i+1)*300 - 150), Text: "Dropout is a regularization technique that disables neurons."},
				{StartTimestamp: float64((i+1)*300 - 150), EndTimestamp: float64((i + 1) * 300), Text: "Remember that it is only active during training."},
			},
		})
	}
	return out
}

func TestValidateQuizRequest(t *testing.T) {
	tests := []struct {
		name     string
		req      QuizRequest
		tooLarge bool
		msg      string
	}{
		{"empty", QuizRequest{Transcript: "   "}, false, "Transcript cannot be empty"},
		{"short", QuizRequest{Transcript: "too short"}, false, "Transcript too short. Minimum length is 50 characters."},
		{"long", QuizRequest{Transcript: strings.Repeat("x", 50001)}, true, "Transcript too long. Maximum length is 50000 characters. Received 50001 characters."},
		{"blank id", QuizRequest{Transcript: lecture, QuizID: ptr(" ")}, false, "quiz_id cannot be empty if provided"},
		{"zero window", QuizRequest{Transcript: lecture, SourceWindowMinutes: ptr(0)}, false, "source_window_minutes must be positive if provided"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuizRequest(tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.msg, err.Error())
			var tl *TooLargeError
			assert.Equal(t, tt.tooLarge, errors.As(err, &tl))
		})
	}

	assert.NoError(t, ValidateQuizRequest(QuizRequest{Transcript: lecture, QuizID: ptr("q1"), SourceWindowMinutes: ptr(5)}))
	assert.NoError(t, ValidateQuizRequest(QuizRequest{Transcript: strings.Repeat("é", 50)}), "length counts characters")
}

func TestValidateAdaptiveRequest(t *testing.T) {
	ok := AdaptiveQuizRequest{VideoID: "v", SegmentID: 1, Segments: segments(1)}
	require.NoError(t, ValidateAdaptiveRequest(ok))

	tests := []struct {
		name   string
		mutate func(*AdaptiveQuizRequest)
	}{
		{"no video", func(r *AdaptiveQuizRequest) { r.VideoID = "" }},
		{"no segments", func(r *AdaptiveQuizRequest) { r.Segments = nil }},
		{"empty segment", func(r *AdaptiveQuizRequest) { r.Segments = []transcript.Segment{{SegmentTitle: "x"}} }},
		{"too few questions", func(r *AdaptiveQuizRequest) { r.NumQuestions = ptr(2) }},
		{"too many questions", func(r *AdaptiveQuizRequest) { r.NumQuestions = ptr(6) }},
		{"bad difficulty", func(r *AdaptiveQuizRequest) { r.TargetDifficulty = ptr("expert") }},
		{"bad accuracy", func(r *AdaptiveQuizRequest) { r.PreviousPerformance = &difficulty.Performance{Accuracy: 1.5} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ok
			tt.mutate(&req)
			var re *RequestError
			assert.True(t, errors.As(ValidateAdaptiveRequest(req), &re))
		})
	}
}

func TestValidateAnswerRequest(t *testing.T) {
	ok := AnswerValidationRequest{QuestionType: "mcq", CorrectAnswer: "B", UserAnswer: "b"}
	assert.NoError(t, ValidateAnswerRequest(ok))

	bad := ok
	bad.QuestionType = "essay"
	assert.Error(t, ValidateAnswerRequest(bad))

	bad = ok
	bad.UserAnswer = " "
	assert.EqualError(t, ValidateAnswerRequest(bad), "user_answer cannot be empty")
}

func TestGenerateQuiz(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(validQuiz))
	svc := New(mock, testConfig(), logger.Nop())

	resp, err := svc.GenerateQuiz(context.Background(), QuizRequest{Transcript: lecture, SourceWindowMinutes: ptr(10)})
	require.NoError(t, err)
	assert.Len(t, resp.Questions, 3)
	assert.Equal(t, "A", resp.Questions[0].Answer)
	assert.Equal(t, 10, resp.SourceWindowMinutes)
	assert.Len(t, resp.QuizID, 36, "generated UUID")
}

func TestGenerateQuiz_Failure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("nope"), llm.MockText("nope"), llm.MockText("nope"))
	svc := New(mock, testConfig(), nil)

	_, err := svc.GenerateQuiz(context.Background(), QuizRequest{Transcript: lecture, QuizID: ptr("q1")})
	require.Error(t, err)
	assert.True(t, IsGenerationFailure(err))
	var exhausted *quiz.ExhaustedRepairError
	assert.True(t, errors.As(err, &exhausted))
	assert.Equal(t, 3, mock.CallCount())
}

func TestGenerateQuiz_OutageNotRetried(t *testing.T) {
	down := func() llm.MockResponse {
		return llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}}
	}
	mock := llm.NewMockProvider(down(), down(), down())
	retried := llm.WithRetry(mock, llm.RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: time.Millisecond, Multiplier: 2}, nil)
	svc := New(retried, testConfig(), nil)

	_, err := svc.GenerateQuiz(context.Background(), QuizRequest{Transcript: lecture, QuizID: ptr("q1")})
	require.Error(t, err)
	var infra *quiz.InfrastructureError
	assert.ErrorAs(t, err, &infra)
	assert.Equal(t, 1, mock.CallCount())
}

func TestValidateAnswer_KeepsTransportRetries(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("connection reset")}},
		llm.MockText(`{"is_correct": true, "verdict": "CORRECT", "feedback": "Right."}`),
	)
	retried := llm.WithRetry(mock, llm.RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: time.Millisecond, Multiplier: 2}, nil)
	svc := New(retried, testConfig(), nil)

	resp, err := svc.ValidateAnswer(context.Background(), AnswerValidationRequest{
		QuestionText:  "Why use dropout?",
		QuestionType:  "short_answer",
		CorrectAnswer: "To reduce overfitting",
		UserAnswer:    "It prevents overfitting",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsCorrect)
	assert.Equal(t, "Right.", resp.Feedback)
	assert.Equal(t, 2, mock.CallCount())
}

func TestGenerateQuiz_InvalidNeverCallsModel(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := New(mock, testConfig(), nil)
	_, err := svc.GenerateQuiz(context.Background(), QuizRequest{Transcript: "short"})
	var re *RequestError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 0, mock.CallCount())
}

func TestGenerateStructured(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(validQuiz))
	svc := New(mock, testConfig(), nil)

	resp, err := svc.GenerateStructured(context.Background(), StructuredQuizRequest{
		Segments:      segments(2),
		QuizID:        ptr("lecture-1"),
		TargetSegment: ptr("Part B"),
	})
	require.NoError(t, err)
	assert.Equal(t, "lecture-1", resp.QuizID)
	assert.Equal(t, 10, resp.SourceWindowMinutes)

	prompt := mock.LastCall().Messages[0].Content
	assert.Contains(t, prompt, "FOCUS SEGMENT: Part B")
}

func TestGenerateStructured_NoSegments(t *testing.T) {
	svc := New(llm.NewMockProvider(), testConfig(), nil)
	_, err := svc.GenerateStructured(context.Background(), StructuredQuizRequest{})
	assert.EqualError(t, err, "At least one transcript segment is required")
}

func TestGeneratePerSegment(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(validQuiz), llm.MockText(validQuiz), llm.MockText(validQuiz))
	svc := New(mock, testConfig(), nil)

	out, err := svc.GeneratePerSegment(context.Background(), StructuredQuizRequest{Segments: segments(3), QuizID: ptr("lec")})
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, q := range out {
		assert.Equal(t, "lec_segment_"+string(rune('1'+i)), q.QuizID)
		assert.Equal(t, 5, q.SourceWindowMinutes)
	}
	assert.Equal(t, 3, mock.CallCount())
}

func TestGeneratePerSegment_FailureCancels(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	cfg := testConfig()
	cfg.Quiz.SegmentConcurrency = 1
	svc := New(mock, cfg, nil)

	_, err := svc.GeneratePerSegment(context.Background(), StructuredQuizRequest{Segments: segments(3)})
	require.Error(t, err)
	assert.True(t, IsGenerationFailure(err))
	var infra *quiz.InfrastructureError
	assert.True(t, errors.As(err, &infra))
}

func TestGenerateAdaptive(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(validQuiz))
	svc := New(mock, testConfig(), nil)

	resp, err := svc.GenerateAdaptive(context.Background(), AdaptiveQuizRequest{
		VideoID: "vid", SegmentID: 2, Segments: segments(1),
		TargetDifficulty: ptr("Hard"),
	})
	require.NoError(t, err)
	assert.Equal(t, "vid_segment_2", resp.QuizID)
	assert.Equal(t, "hard", resp.Difficulty)
	for _, q := range resp.Questions {
		assert.Equal(t, quiz.Hard, q.Difficulty)
	}
}

func TestValidateAnswer(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := New(mock, testConfig(), nil)

	resp, err := svc.ValidateAnswer(context.Background(), AnswerValidationRequest{
		QuestionText: "Which?", QuestionType: "mcq", CorrectAnswer: "B", UserAnswer: "b",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsCorrect)
	assert.Equal(t, 0, mock.CallCount())
}

func TestRecommend(t *testing.T) {
	svc := New(llm.NewMockProvider(), testConfig(), nil)

	_, err := svc.Recommend(context.Background(), recap.Request{})
	assert.Error(t, err)

	resp, err := svc.Recommend(context.Background(), recap.Request{
		VideoID: "v",
		Answers: []recap.AnswerResult{{QuestionNumber: 1, IsCorrect: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalQuestions)
	assert.Contains(t, resp.Summary, "Excellent work")
}
