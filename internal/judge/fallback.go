package judge

import (
	"regexp"
	"strings"
)

// FallbackConfig tunes the lexical heuristic used when the model cannot
// judge an answer. The defaults accept most on-topic answers.
type FallbackConfig struct {
	// MinTokenLen drops words of this many runes or fewer.
	MinTokenLen int
	// PrefixLen is how many leading runes of one answer must appear in
	// the other for a prefix match. Zero disables the check.
	PrefixLen int
}

func DefaultFallbackConfig() FallbackConfig {
	return FallbackConfig{MinTokenLen: 2, PrefixLen: 15}
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "any": true, "can": true,
	"was": true, "were": true, "with": true, "that": true, "this": true,
	"from": true, "they": true, "have": true, "has": true, "its": true,
	"into": true, "than": true, "then": true, "them": true, "what": true,
	"when": true, "which": true, "who": true, "will": true, "would": true,
	"there": true, "their": true, "about": true, "also": true, "been": true,
	"does": true, "because": true, "some": true, "such": true, "these": true,
}

// Match reports whether user plausibly answers correct: the answers share
// a content word, or one contains the other's first PrefixLen runes. A
// blank answer never matches. Match is deterministic.
func (c FallbackConfig) Match(correct, user string) bool {
	u := strings.ToLower(strings.TrimSpace(user))
	k := strings.ToLower(strings.TrimSpace(correct))
	if u == "" || k == "" {
		return false
	}

	want := c.tokens(k)
	for w := range c.tokens(u) {
		if want[w] {
			return true
		}
	}

	if c.PrefixLen > 0 {
		return strings.Contains(u, prefix(k, c.PrefixLen)) || strings.Contains(k, prefix(u, c.PrefixLen))
	}
	return false
}

func (c FallbackConfig) tokens(s string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range nonWord.Split(s, -1) {
		if len([]rune(w)) > c.MinTokenLen && !stopwords[w] {
			out[w] = true
		}
	}
	return out
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
