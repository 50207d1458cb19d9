// Package match filters a document snapshot down to the lines containing any
// of a set of literal terms.
package match

import (
	"strings"

	"grephl/internal/domain"
)

// Filter returns the lines of snapshot that contain at least one non-blank
// term as a case-sensitive substring. Lines keep their original order and
// appear once no matter how many terms hit them. With no usable terms the
// result is empty.
func Filter(snapshot []string, terms []string) []domain.MatchedLine {
	terms = domain.CleanTerms(terms)
	if len(terms) == 0 {
		return nil
	}

	var results []domain.MatchedLine
	for i, line := range snapshot {
		if containsAny(line, terms) {
			results = append(results, domain.MatchedLine{Number: i + 1, Text: line})
		}
	}
	return results
}

func containsAny(line string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(line, t) {
			return true
		}
	}
	return false
}

// Texts returns the text of each matched line
func Texts(lines []domain.MatchedLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}
