package quiz

import (
	"fmt"
	"regexp"
	"strings"
)

const maxClearWords = 35

var (
	negatives       = wordPatterns("not", "no", "never", "neither", "nor", "nothing", "nobody", "nowhere", "none")
	vagueQuantities = wordPatterns("some", "many", "few", "several", "various", "numerous", "certain", "most")
	absolutes       = wordPatterns("always", "never", "all", "every", "only", "must")
	pronounStarts   = []string{"it ", "this ", "that ", "these ", "those ", "they "}
)

type wordPattern struct {
	word string
	re   *regexp.Regexp
}

func wordPatterns(words ...string) []wordPattern {
	out := make([]wordPattern, len(words))
	for i, w := range words {
		out[i] = wordPattern{word: w, re: regexp.MustCompile(`\b` + w + `\b`)}
	}
	return out
}

func matching(s string, patterns []wordPattern) []string {
	var out []string
	for _, p := range patterns {
		if p.re.MatchString(s) {
			out = append(out, p.word)
		}
	}
	return out
}

// CheckClarity lists wording problems in a question. An empty result
// means the question reads clearly.
func CheckClarity(question string) []string {
	var issues []string
	lower := strings.ToLower(question)

	if len(matching(lower, negatives)) >= 2 {
		issues = append(issues, "Contains double negative - consider rephrasing positively")
	}
	if vague := matching(lower, vagueQuantities); len(vague) > 0 {
		issues = append(issues, fmt.Sprintf("Contains vague quantifier(s): %s - consider being more specific", strings.Join(vague, ", ")))
	}
	for _, p := range pronounStarts {
		if strings.HasPrefix(lower, p) {
			issues = append(issues, "Starts with ambiguous pronoun - clarify what is being referred to")
			break
		}
	}
	if words := len(whitespace.Split(question, -1)); words > maxClearWords {
		issues = append(issues, fmt.Sprintf("Question is very long (%d words) - consider simplifying", words))
	}
	if strings.Count(question, "?") > 1 {
		issues = append(issues, "Contains multiple question marks - split into separate questions")
	}
	if strings.Contains(lower, "all of the above") || strings.Contains(lower, "none of the above") {
		issues = append(issues, "Question text references answer options - this should only appear in options")
	}
	if abs := matching(lower, absolutes); len(abs) >= 2 {
		issues = append(issues, fmt.Sprintf("Contains multiple absolute terms (%s) - may be unnecessarily restrictive", strings.Join(abs, ", ")))
	}
	return issues
}

// FormatClarity renders CheckClarity's result the way the generation
// tool reports it.
func FormatClarity(issues []string) string {
	if len(issues) == 0 {
		return "CLEAR: Question is well-formed and unambiguous"
	}
	return fmt.Sprintf("NEEDS_IMPROVEMENT: Found %d potential clarity issue(s):\n- %s",
		len(issues), strings.Join(issues, "\n- "))
}
