package search

import (
	"strings"
	"time"

	"github.com/Taranv8/hdhub4u/internal/models"
)

// Composite-score weights. The similarity tiers in score.go carry the
// classification semantics; these only shape ordering among matches.
const (
	weightTitle      = 1.0
	weightShortTitle = 0.8
	weightHeading    = 0.6

	bonusGenre    = 10.0
	bonusLanguage = 5.0
	bonusPerWord  = 3.0

	ratingWeight      = 1.5
	recencyBonusMax   = 5.0
	recencyWindowDays = 730.0
)

// CompositeScore ranks a candidate record against a query. The base is the best
// weighted similarity across the three title fields; genre and language
// substring hits add flat bonuses, star and director hits add a bonus per query
// word, and the rating and release recency nudge close calls apart.
func CompositeScore(m models.Movie, query string, now time.Time) float64 {
	score := weightedTitleScore(m, query)

	q := Normalize(query)
	if q == "" {
		return score
	}

	for _, genre := range m.Genre {
		g := Normalize(genre)
		if g != "" && (strings.Contains(q, g) || strings.Contains(g, q)) {
			score += bonusGenre
			break
		}
	}

	lang := Normalize(m.Language)
	if lang != "" && (strings.Contains(q, lang) || strings.Contains(lang, q)) {
		score += bonusLanguage
	}

	stars := Normalize(m.Stars)
	director := Normalize(m.Director)
	for _, word := range strings.Fields(q) {
		if stars != "" && strings.Contains(stars, word) {
			score += bonusPerWord
		}
		if director != "" && strings.Contains(director, word) {
			score += bonusPerWord
		}
	}

	score += m.IMDBRating * ratingWeight
	score += recencyBonus(m.ReleaseDate, now)
	return score
}

func weightedTitleScore(m models.Movie, query string) float64 {
	best := Similarity(m.Title, query) * weightTitle
	if s := Similarity(m.ShortTitle, query) * weightShortTitle; s > best {
		best = s
	}
	if s := Similarity(m.Heading, query) * weightHeading; s > best {
		best = s
	}
	return best
}

func recencyBonus(releaseDate time.Time, now time.Time) float64 {
	if releaseDate.IsZero() || releaseDate.After(now) {
		return 0
	}
	ageDays := now.Sub(releaseDate).Hours() / 24
	if ageDays >= recencyWindowDays {
		return 0
	}
	return recencyBonusMax * (1 - ageDays/recencyWindowDays)
}
