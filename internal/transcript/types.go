package transcript

// Entry is one timestamped line of a transcript. Timestamps are seconds.
type Entry struct {
	StartTimestamp float64 `json:"start_timestamp"`
	EndTimestamp   float64 `json:"end_timestamp"`
	Text           string  `json:"text"`
}

// Segment is a titled stretch of a lecture.
type Segment struct {
	SegmentNumber         *int    `json:"segment_number,omitempty"`
	SegmentTitle          string  `json:"segment_title"`
	SegmentStartTimestamp float64 `json:"segment_start_timestamp"`
	SegmentEndTimestamp   float64 `json:"segment_end_timestamp"`
	Transcript            []Entry `json:"transcript"`
}

// ProcessedSegment is a segment condensed for prompting.
type ProcessedSegment struct {
	Title           string   `json:"title"`
	Text            string   `json:"text"`
	DurationMinutes float64  `json:"duration_minutes"`
	KeyPoints       []string `json:"key_points"`
}

// Processed is a whole lecture condensed for prompting.
type Processed struct {
	Segments             []ProcessedSegment `json:"segments"`
	FullText             string             `json:"full_text"`
	KeyTopics            []string           `json:"key_topics"`
	TotalDurationMinutes float64            `json:"total_duration_minutes"`
}
