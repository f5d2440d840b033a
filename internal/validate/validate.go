package validate

import (
	"strings"
	"unicode"
)

const (
	minContentLength = 100
	maxBlankLineRuns = 5
	minReadableRatio = 0.7
)

// Checks holds the individual quality predicates applied to parsed
// newsletter content.
type Checks struct {
	HasContent            bool `json:"has_content"`
	HasSentences          bool `json:"has_sentences"`
	NoExcessiveWhitespace bool `json:"no_excessive_whitespace"`
	ReadableRatio         bool `json:"readable_ratio"`
}

/// Validate applies quality heuristics to parsed content. It is pure:
// the caller decides how a failed check combines with other review
// signals.
func Validate(content string) (bool, Checks) {
	checks := Checks{
		HasContent:            len(content) > minContentLength,
		HasSentences:          strings.ContainsAny(content, ".!?"),
		NoExcessiveWhitespace: strings.Count(content, "\n\n\n") < maxBlankLineRuns,
		ReadableRatio:         true,
	}

	if content != "" {
		readable := 0
		for _, c := range content {
			if unicode.IsLetter(c) || unicode.IsDigit(c) || unicode.IsSpace(c) {
				readable++
			}
		}
		checks.ReadableRatio = float64(readable)/float64(len([]rune(content))) > minReadableRatio
	}

	valid := checks.HasContent && checks.HasSentences &&
		checks.NoExcessiveWhitespace && checks.ReadableRatio
	return valid, checks
}
