package transcript

import (
	"regexp"
	"strings"
)

const (
	minKeyPointLen = 20
	maxKeyPointLen = 150
	maxKeyPoints   = 5
)

var (
	sentenceEnd = regexp.MustCompile(`[.!?]`)

	definitionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(is|are|means|refers to|defined as)\b`),
		regexp.MustCompile(`(?i)\b(basically|essentially|fundamentally)\b`),
	}
	emphasisPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(important|key|critical|crucial|must|always|never|remember)\b`),
		regexp.MustCompile(`(?i)\b(the main|the key|the important|the crucial)\b`),
	}
)

// KeyPoints picks up to five definition or emphasis sentences from text,
// in order. Each is cut to 150 characters.
func KeyPoints(text string) []string {
	var points []string
	seen := map[string]bool{}
	for _, s := range sentenceEnd.Split(text, -1) {
		s = strings.TrimSpace(s)
		if len([]rune(s)) <= minKeyPointLen {
			continue
		}
		if !matchesAny(s, definitionPatterns) && !matchesAny(s, emphasisPatterns) {
			continue
		}
		p := truncate(s, maxKeyPointLen)
		if seen[p] {
			continue
		}
		seen[p] = true
		points = append(points, p)
		if len(points) == maxKeyPoints {
			break
		}
	}
	return points
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
