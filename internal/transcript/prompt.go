package transcript

import (
	"fmt"
	"strings"
)

// BuildPrompt renders p as a generation prompt: the topic list, then the
// content, then the instructions. When target names a segment (case
// insensitive) only that segment and its key points are included;
// otherwise every segment is.
func BuildPrompt(p Processed, target string) string {
	var b strings.Builder

	b.WriteString("Generate a quiz from the following lecture content.\n\n")

	b.WriteString("LECTURE TOPICS:\n")
	for i, topic := range p.KeyTopics {
		fmt.Fprintf(&b, "%d. %s\n", i+1, topic)
	}
	b.WriteString("\n")

	if seg, ok := findSegment(p, target); ok {
		fmt.Fprintf(&b, "FOCUS SEGMENT: %s\n\n", seg.Title)
		b.WriteString("CONTENT:\n")
		b.WriteString(seg.Text)
		b.WriteString("\n")
		if len(seg.KeyPoints) > 0 {
			b.WriteString("\nKEY POINTS TO COVER:\n")
			for _, kp := range seg.KeyPoints {
				fmt.Fprintf(&b, "- %s\n", kp)
			}
		}
	} else {
		b.WriteString("LECTURE CONTENT:\n\n")
		for _, seg := range p.Segments {
			fmt.Fprintf(&b, "### %s\n%s\n\n", seg.Title, seg.Text)
		}
	}

	b.WriteString("\n")
	b.WriteString("Create 3-5 questions covering the main concepts. Include at least 2 MCQ questions.\n")
	b.WriteString("Questions should test understanding, not just memorization.\n\n")
	b.WriteString("Remember: Output ONLY valid JSON, no markdown formatting.\n")
	return b.String()
}

func findSegment(p Processed, target string) (ProcessedSegment, bool) {
	target = strings.TrimSpace(target)
	if target == "" {
		return ProcessedSegment{}, false
	}
	for _, s := range p.Segments {
		if strings.EqualFold(s.Title, target) {
			return s, true
		}
	}
	return ProcessedSegment{}, false
}
