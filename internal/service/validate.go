package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/SHivit700/InteLect/internal/difficulty"
	"github.com/SHivit700/InteLect/internal/quiz"
	"github.com/SHivit700/InteLect/internal/transcript"
)

// Transcript length limits, in characters.
const (
	MinTranscriptLength = 50
	MaxTranscriptLength = 50000
)

// Adaptive question count bounds.
const (
	MinAdaptiveQuestions = 3
	MaxAdaptiveQuestions = 5
)

// ValidateQuizRequest checks a plain transcript request. An over-long
// transcript yields a *TooLargeError, anything else a *RequestError.
func ValidateQuizRequest(req QuizRequest) error {
	if strings.TrimSpace(req.Transcript) == "" {
		return invalid("Transcript cannot be empty")
	}
	n := utf8.RuneCountInString(req.Transcript)
	if n < MinTranscriptLength {
		return invalid("Transcript too short. Minimum length is %d characters.", MinTranscriptLength)
	}
	if n > MaxTranscriptLength {
		return &TooLargeError{Message: tooLong(n)}
	}
	if req.QuizID != nil && strings.TrimSpace(*req.QuizID) == "" {
		return invalid("quiz_id cannot be empty if provided")
	}
	if req.SourceWindowMinutes != nil && *req.SourceWindowMinutes <= 0 {
		return invalid("source_window_minutes must be positive if provided")
	}
	return nil
}

func tooLong(n int) string {
	return fmt.Sprintf("Transcript too long. Maximum length is %d characters. Received %d characters.", MaxTranscriptLength, n)
}

func validateSegments(segments []transcript.Segment) error {
	if len(segments) == 0 {
		return invalid("At least one transcript segment is required")
	}
	for i, s := range segments {
		if len(s.Transcript) == 0 {
			return invalid("Segment %d has no transcript entries", i+1)
		}
	}
	return nil
}

// ValidateStructuredRequest checks the parts of a structured request that
// exist before prompt building.
func ValidateStructuredRequest(req StructuredQuizRequest) error {
	if err := validateSegments(req.Segments); err != nil {
		return err
	}
	if req.QuizID != nil && strings.TrimSpace(*req.QuizID) == "" {
		return invalid("quiz_id cannot be empty if provided")
	}
	if n := req.QuestionsPerSegment; n != nil && (*n < quiz.MinQuestions || *n > quiz.MaxQuestions) {
		return invalid("questions_per_segment must be between %d and %d", quiz.MinQuestions, quiz.MaxQuestions)
	}
	return nil
}

// ValidateAdaptiveRequest checks an adaptive request.
func ValidateAdaptiveRequest(req AdaptiveQuizRequest) error {
	if strings.TrimSpace(req.VideoID) == "" {
		return invalid("video_id is required")
	}
	if err := validateSegments(req.Segments); err != nil {
		return err
	}
	if n := req.NumQuestions; n != nil && (*n < MinAdaptiveQuestions || *n > MaxAdaptiveQuestions) {
		return invalid("num_questions must be between %d and %d", MinAdaptiveQuestions, MaxAdaptiveQuestions)
	}
	if d := req.TargetDifficulty; d != nil && strings.TrimSpace(*d) != "" {
		if _, err := difficulty.ParseLevel(*d); err != nil {
			return invalid("target_difficulty must be easy, medium, or hard")
		}
	}
	if p := req.PreviousPerformance; p != nil && (p.Accuracy < 0 || p.Accuracy > 1) {
		return invalid("previous_performance.accuracy must be between 0 and 1")
	}
	if n := utf8.RuneCountInString(transcript.Flatten(req.Segments)); n > MaxTranscriptLength {
		return &TooLargeError{Message: tooLong(n)}
	}
	return nil
}

// ValidateAnswerRequest checks an answer validation request.
func ValidateAnswerRequest(req AnswerValidationRequest) error {
	switch quiz.QuestionType(req.QuestionType) {
	case quiz.TypeMCQ, quiz.TypeShortAnswer:
	default:
		return invalid("question_type must be mcq or short_answer, got %q", req.QuestionType)
	}
	if strings.TrimSpace(req.CorrectAnswer) == "" {
		return invalid("correct_answer cannot be empty")
	}
	if strings.TrimSpace(req.UserAnswer) == "" {
		return invalid("user_answer cannot be empty")
	}
	return nil
}
