package search

import "strings"

// Relevance tiers. Downstream classification depends on these absolute values,
// so they are fixed rather than tunable.
const (
	scoreExact     = 100.0
	scoreContained = 80.0
	scoreWordBase  = 60.0

	exactThreshold = 80.0
	fuzzyThreshold = 50.0
)

// Search result classifications derived from the top composite score.
const (
	TypeExact   = "exact"
	TypeFuzzy   = "fuzzy"
	TypePartial = "partial"
)

// Similarity scores how well a record field matches a query. The comparison is
// performed on normalized text: equality scores 100, containment in either
// direction scores 80, otherwise the fraction of query words appearing as a
// substring of any field word is scaled to at most 60.
func Similarity(field, query string) float64 {
	f := Normalize(field)
	q := Normalize(query)
	if f == "" || q == "" {
		return 0
	}
	if f == q {
		return scoreExact
	}
	if strings.Contains(f, q) || strings.Contains(q, f) {
		return scoreContained
	}

	fieldWords := strings.Fields(f)
	queryWords := strings.Fields(q)
	if len(queryWords) == 0 {
		return 0
	}
	matched := 0
	for _, qw := range queryWords {
		for _, fw := range fieldWords {
			if strings.Contains(fw, qw) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(queryWords)) * scoreWordBase
}

// Classify labels a result set from its top composite score.
func Classify(topScore float64) string {
	switch {
	case topScore >= exactThreshold:
		return TypeExact
	case topScore >= fuzzyThreshold:
		return TypeFuzzy
	default:
		return TypePartial
	}
}
