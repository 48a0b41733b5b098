package search

import (
	"net/url"
	"sort"
	"strings"
)

// ResolveGenre maps a URL slug onto the genre literal actually stored in the
// catalog. Stored genre values are free text with inconsistent casing and
// punctuation, so resolution walks a cascade of increasingly permissive
// strategies and stops at the first hit:
//
//  1. exact match on the punctuation-free normalized key
//  2. case-insensitive exact match on the decoded slug
//  3. case-insensitive match with hyphens replaced by spaces
//  4. fuzzy: normalized keys contain each other, shortest genre wins
//  5. casing variants of the slug (Title Case, PascalCase, upper, lower)
//
// When nothing matches, the Title-Cased slug is returned verbatim so a query is
// still issued; it may legitimately find zero records.
func ResolveGenre(slug string, genres []string) string {
	decoded := decodeSlug(slug)
	normalizedInput := NormalizeKey(decoded)

	for _, genre := range genres {
		if genre == "" {
			continue
		}
		if NormalizeKey(genre) == normalizedInput {
			return genre
		}
	}

	for _, genre := range genres {
		if genre != "" && strings.EqualFold(genre, decoded) {
			return genre
		}
	}

	withSpaces := strings.ReplaceAll(decoded, "-", " ")
	for _, genre := range genres {
		if genre != "" && strings.EqualFold(genre, withSpaces) {
			return genre
		}
	}

	var fuzzy []string
	for _, genre := range genres {
		if genre == "" {
			continue
		}
		key := NormalizeKey(genre)
		if key == "" {
			continue
		}
		if strings.Contains(key, normalizedInput) || strings.Contains(normalizedInput, key) {
			fuzzy = append(fuzzy, genre)
		}
	}
	if len(fuzzy) > 0 {
		// Shortest literal is the most specific match.
		sort.Slice(fuzzy, func(i, j int) bool { return len(fuzzy[i]) < len(fuzzy[j]) })
		return fuzzy[0]
	}

	for _, variant := range SlugVariants(decoded) {
		for _, genre := range genres {
			if genre != "" && strings.EqualFold(genre, variant) {
				return genre
			}
		}
	}

	return TitleCaseSlug(slug)
}

func decodeSlug(slug string) string {
	if decoded, err := url.PathUnescape(slug); err == nil {
		return decoded
	}
	return slug
}
