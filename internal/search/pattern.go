package search

import (
	"regexp"
	"strings"
)

// Titles embed quality tags and release years, so stored text rarely matches a
// query byte-for-byte. These helpers build the regex fragments the repository
// feeds into case-insensitive $regex filters.

const maxRelaxedPatternLen = 64

// PhrasePattern escapes a query for literal substring matching.
func PhrasePattern(query string) string {
	return regexp.QuoteMeta(strings.TrimSpace(query))
}

// RelaxedPattern matches the query with any punctuation or spacing between its
// alphanumeric characters, so "spider man" finds "Spider-Man". Returns "" when
// the query normalizes to nothing or is too long to make a sane pattern.
func RelaxedPattern(query string) string {
	compact := strings.ReplaceAll(Normalize(query), " ", "")
	if compact == "" || len(compact) > maxRelaxedPatternLen {
		return ""
	}
	parts := make([]string, 0, len(compact))
	for _, r := range compact {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, `[^a-zA-Z0-9]*`)
}

// AnchoredLiteral builds a whole-string pattern for a resolved genre literal.
func AnchoredLiteral(value string) string {
	return "^" + regexp.QuoteMeta(value) + "$"
}
