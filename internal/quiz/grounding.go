package quiz

import (
	"fmt"
	"regexp"
	"strings"
)

// GroundingLevel classifies how much of an answer appears in a transcript.
type GroundingLevel string

const (
	Grounded          GroundingLevel = "GROUNDED"
	PartiallyGrounded GroundingLevel = "PARTIALLY_GROUNDED"
	NotGrounded       GroundingLevel = "NOT_GROUNDED"
)

// Grounding is the result of CheckGrounding.
type Grounding struct {
	Level    GroundingLevel
	Coverage float64
	Found    []string
	Missing  []string
}

// String renders the verdict in the form the generation tools return.
func (g Grounding) String() string {
	pct := int(g.Coverage * 100)
	switch {
	case g.Level == Grounded && len(g.Found) == 0 && len(g.Missing) == 0:
		return "GROUNDED: Answer contains only common words, assuming valid"
	case g.Level == Grounded:
		return fmt.Sprintf("GROUNDED: %d%% of key terms found in transcript. Found: %s", pct, strings.Join(head(g.Found, 5), ", "))
	case g.Level == PartiallyGrounded:
		return fmt.Sprintf("PARTIALLY_GROUNDED: %d%% of key terms found. Missing: %s. Consider revising.", pct, strings.Join(head(g.Missing, 3), ", "))
	default:
		return fmt.Sprintf("NOT_GROUNDED: Only %d%% of key terms found in transcript. Missing: %s. This answer may not be supported by the lecture content.", pct, strings.Join(head(g.Missing, 5), ", "))
	}
}

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

var commonWords = toSet(
	"the", "a", "an", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "must", "shall", "can", "need", "dare",
	"that", "this", "these", "those", "which", "what", "who", "whom",
	"and", "or", "but", "if", "then", "else", "when", "where", "why",
	"how", "all", "each", "every", "both", "few", "more", "most", "other",
	"some", "such", "no", "nor", "not", "only", "own", "same", "so",
	"than", "too", "very", "just", "also", "now", "here", "there",
	"with", "from", "for", "about", "into", "through", "during", "before",
	"after", "above", "below", "between", "under", "over", "out", "off",
)

// CheckGrounding estimates whether answer is supported by transcript by
// looking for the answer's distinct key terms (longer than three
// characters, common words excluded) as substrings of the transcript.
func CheckGrounding(transcript, answer string) Grounding {
	terms := keyTerms(answer)
	if len(terms) == 0 {
		return Grounding{Level: Grounded, Coverage: 1}
	}

	lower := strings.ToLower(transcript)
	var g Grounding
	for _, t := range terms {
		if strings.Contains(lower, t) {
			g.Found = append(g.Found, t)
		} else {
			g.Missing = append(g.Missing, t)
		}
	}
	g.Coverage = float64(len(g.Found)) / float64(len(terms))

	switch {
	case g.Coverage >= 0.7:
		g.Level = Grounded
	case g.Coverage >= 0.4:
		g.Level = PartiallyGrounded
	default:
		g.Level = NotGrounded
	}
	return g
}

func keyTerms(s string) []string {
	cleaned := nonAlnum.ReplaceAllString(strings.ToLower(s), " ")
	seen := map[string]bool{}
	var out []string
	for _, w := range whitespace.Split(cleaned, -1) {
		if len(w) <= 3 || commonWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
