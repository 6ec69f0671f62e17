package transcript

import (
	"regexp"
	"strings"
)

// DefaultTitle names the single segment built by FromPlainText.
const DefaultTitle = "Lecture Content"

var spaces = regexp.MustCompile(`\s+`)

// Process condenses segments: entries are joined into one paragraph per
// segment, key points are extracted and durations computed.
func Process(segments []Segment) Processed {
	out := Processed{
		Segments:  make([]ProcessedSegment, len(segments)),
		KeyTopics: make([]string, len(segments)),
	}
	for i, s := range segments {
		text := joinEntries(s.Transcript)
		out.Segments[i] = ProcessedSegment{
			Title:           s.SegmentTitle,
			Text:            text,
			DurationMinutes: (s.SegmentEndTimestamp - s.SegmentStartTimestamp) / 60,
			KeyPoints:       KeyPoints(text),
		}
		out.KeyTopics[i] = s.SegmentTitle
	}
	out.FullText = fullText(out.Segments)
	out.TotalDurationMinutes = totalMinutes(segments)
	return out
}

// FromPlainText wraps unsegmented lecture text as a single segment.
func FromPlainText(text, title string) Processed {
	if title == "" {
		title = DefaultTitle
	}
	return Processed{
		Segments: []ProcessedSegment{{
			Title:     title,
			Text:      text,
			KeyPoints: KeyPoints(text),
		}},
		FullText:  text,
		KeyTopics: []string{title},
	}
}

// Flatten renders segments as "## title" blocks with the raw entry text,
// the form used as generation and grounding input.
func Flatten(segments []Segment) string {
	blocks := make([]string, len(segments))
	for i, s := range segments {
		texts := make([]string, len(s.Transcript))
		for j, e := range s.Transcript {
			texts[j] = e.Text
		}
		blocks[i] = "## " + s.SegmentTitle + "\n" + strings.Join(texts, " ")
	}
	return strings.Join(blocks, "\n\n")
}

func joinEntries(entries []Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if t := strings.TrimSpace(e.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.TrimSpace(spaces.ReplaceAllString(strings.Join(parts, " "), " "))
}

func fullText(segments []ProcessedSegment) string {
	blocks := make([]string, len(segments))
	for i, s := range segments {
		blocks[i] = "## " + s.Title + "\n" + s.Text
	}
	return strings.Join(blocks, "\n\n")
}

func totalMinutes(segments []Segment) float64 {
	if len(segments) == 0 {
		return 0
	}
	start, end := segments[0].SegmentStartTimestamp, segments[0].SegmentEndTimestamp
	for _, s := range segments[1:] {
		start = min(start, s.SegmentStartTimestamp)
		end = max(end, s.SegmentEndTimestamp)
	}
	return (end - start) / 60
}
