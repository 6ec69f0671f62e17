// Package recap recommends lecture segments to rewatch after a quiz.
package recap

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/SHivit700/InteLect/internal/llm"
	"github.com/SHivit700/InteLect/internal/logger"
	"github.com/SHivit700/InteLect/internal/quiz"
)

var tracer = otel.Tracer("intelect/recap")

// MaxRecommendations caps the segments returned.
const MaxRecommendations = 5

const (
	summaryAllCorrect = "Excellent work! You answered all questions correctly. No review needed."
	summaryDefault    = "Review the recommended segments to strengthen your understanding."
	summaryFallback   = "Unable to generate specific recommendations. Please review the material for questions you answered incorrectly."
)

// SegmentInfo describes a segment without its transcript.
type SegmentInfo struct {
	SegmentNumber  int      `json:"segment_number"`
	SegmentTitle   string   `json:"segment_title"`
	StartTimestamp float64  `json:"start_timestamp"`
	EndTimestamp   float64  `json:"end_timestamp"`
	KeyTopics      []string `json:"key_topics,omitempty"`
}

// AnswerResult is one graded quiz answer.
type AnswerResult struct {
	QuestionNumber int    `json:"question_number"`
	QuestionText   string `json:"question_text"`
	UserAnswer     string `json:"user_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
	SourceSegment  *int   `json:"source_segment,omitempty"`
}

type Request struct {
	VideoID  string         `json:"video_id"`
	Segments []SegmentInfo  `json:"segments"`
	Answers  []AnswerResult `json:"answers"`
}

// Recommendation is a segment to rewatch. Priority 1 is most urgent.
type Recommendation struct {
	SegmentNumber  int     `json:"segment_number"`
	SegmentTitle   string  `json:"segment_title"`
	StartTimestamp float64 `json:"start_timestamp"`
	EndTimestamp   float64 `json:"end_timestamp"`
	Reason         string  `json:"reason"`
	Priority       int     `json:"priority"`
}

type Response struct {
	VideoID         string           `json:"video_id"`
	Recommendations []Recommendation `json:"recommendations"`
	Summary         string           `json:"summary"`
	TotalIncorrect  int              `json:"total_incorrect"`
	TotalQuestions  int              `json:"total_questions"`
}

// Recommender asks the model which segments explain the missed answers.
type Recommender struct {
	provider llm.Provider
	log      *logger.Logger
}

func NewRecommender(provider llm.Provider, log *logger.Logger) *Recommender {
	if log == nil {
		log = logger.Nop()
	}
	return &Recommender{provider: provider, log: log}
}

// Recommend never fails. Without any wrong answers the model is not
// called; when the model fails or answers nonsense the response carries
// no recommendations and a generic summary.
func (r *Recommender) Recommend(ctx context.Context, req Request) Response {
	resp := Response{
		VideoID:         req.VideoID,
		Recommendations: []Recommendation{},
		TotalQuestions:  len(req.Answers),
	}
	for _, a := range req.Answers {
		if !a.IsCorrect {
			resp.TotalIncorrect++
		}
	}
	if resp.TotalIncorrect == 0 {
		resp.Summary = summaryAllCorrect
		return resp
	}

	ctx, span := tracer.Start(ctx, "recap.recommend")
	defer span.End()
	span.SetAttributes(
		attribute.Int("recap.incorrect", resp.TotalIncorrect),
		attribute.Int("recap.questions", resp.TotalQuestions),
	)

	log := r.log.With("video_id", req.VideoID)
	log.Info("generating recommendations", "incorrect", resp.TotalIncorrect, "questions", resp.TotalQuestions)

	if r.provider == nil {
		resp.Summary = summaryFallback
		return resp
	}
	text, err := llm.Complete(llm.WithPurpose(ctx, "recap"), r.provider, SystemPrompt, UserPrompt(req), 0.3, 1000)
	if err != nil {
		span.RecordError(err)
		log.Error("recommendation request failed", "error", err)
		resp.Summary = summaryFallback
		return resp
	}

	recs, summary, err := parse(text)
	if err != nil {
		log.Warn("recommendation output unparseable", "error", err)
		resp.Summary = summaryFallback
		return resp
	}
	resp.Recommendations = recs
	resp.Summary = summary
	span.SetAttributes(attribute.Int("recap.recommendations", len(recs)))
	return resp
}

type rawRecommendation struct {
	SegmentNumber  int     `json:"segment_number"`
	SegmentTitle   string  `json:"segment_title"`
	StartTimestamp float64 `json:"start_timestamp"`
	EndTimestamp   float64 `json:"end_timestamp"`
	Reason         string  `json:"reason"`
	Priority       *int    `json:"priority"`
}

type rawResponse struct {
	Recommendations []rawRecommendation `json:"recommendations"`
	Summary         *string             `json:"summary"`
}

// parse reads the model output leniently: fences are removed and unknown
// fields ignored. Recommendations come back sorted by priority.
func parse(text string) ([]Recommendation, string, error) {
	var raw rawResponse
	if err := json.Unmarshal([]byte(quiz.StripCodeFences(text)), &raw); err != nil {
		return nil, "", fmt.Errorf("decode recommendations: %w", err)
	}

	recs := make([]Recommendation, 0, len(raw.Recommendations))
	for _, rr := range raw.Recommendations {
		priority := 1
		if rr.Priority != nil {
			priority = *rr.Priority
		}
		recs = append(recs, Recommendation{
			SegmentNumber:  rr.SegmentNumber,
			SegmentTitle:   rr.SegmentTitle,
			StartTimestamp: rr.StartTimestamp,
			EndTimestamp:   rr.EndTimestamp,
			Reason:         rr.Reason,
			Priority:       priority,
		})
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Priority < recs[j].Priority })
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}

	summary := summaryDefault
	if raw.Summary != nil && strings.TrimSpace(*raw.Summary) != "" {
		summary = *raw.Summary
	}
	return recs, summary, nil
}

// formatTime renders seconds as m:ss.
func formatTime(seconds float64) string {
	total := int(math.Max(seconds, 0))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
