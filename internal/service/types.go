package service

import (
	"github.com/SHivit700/InteLect/internal/difficulty"
	"github.com/SHivit700/InteLect/internal/quiz"
	"github.com/SHivit700/InteLect/internal/transcript"
)

type QuizRequest struct {
	QuizID              *string `json:"quiz_id,omitempty"`
	SourceWindowMinutes *int    `json:"source_window_minutes,omitempty"`
	Transcript          string  `json:"transcript"`
}

type StructuredQuizRequest struct {
	Segments            []transcript.Segment `json:"segments"`
	QuizID              *string              `json:"quiz_id,omitempty"`
	TargetSegment       *string              `json:"target_segment,omitempty"`
	QuestionsPerSegment *int                 `json:"questions_per_segment,omitempty"`
}

type QuizResponse struct {
	QuizID              string          `json:"quiz_id"`
	SourceWindowMinutes int             `json:"source_window_minutes"`
	Questions           []quiz.Question `json:"questions"`
}

type AdaptiveQuizRequest struct {
	VideoID             string                  `json:"video_id"`
	SegmentID           int                     `json:"segment_id"`
	Segments            []transcript.Segment    `json:"segments"`
	NumQuestions        *int                    `json:"num_questions,omitempty"`
	PreviousPerformance *difficulty.Performance `json:"previous_performance,omitempty"`
	TargetDifficulty    *string                 `json:"target_difficulty,omitempty"`
}

type AnswerValidationRequest struct {
	Transcript    string        `json:"transcript,omitempty"`
	QuestionText  string        `json:"question_text"`
	QuestionType  string        `json:"question_type"`
	CorrectAnswer string        `json:"correct_answer"`
	UserAnswer    string        `json:"user_answer"`
	Options       []quiz.Option `json:"options,omitempty"`
}

type AnswerValidationResponse struct {
	IsCorrect bool   `json:"is_correct"`
	Feedback  string `json:"feedback"`
}

// ErrorResponse is the body of every failed HTTP call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
