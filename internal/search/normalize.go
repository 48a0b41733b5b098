package search

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nonAlnumPattern   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	yearPattern       = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// Normalize lowercases text, strips everything outside [a-z0-9 ] and collapses
// runs of whitespace. It is a fixed point: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	out := strings.ToLower(text)
	out = nonAlnumPattern.ReplaceAllString(out, "")
	out = whitespacePattern.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// NormalizeKey collapses a genre or slug down to a bare comparison key: lowercase
// with every separator and punctuation mark removed, so "Sci-Fi", "sci_fi" and
// "SCIFI" compare equal. Underscores survive to mirror word-character semantics.
func NormalizeKey(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ExtractYear returns the first 4-digit year token in [1900, 2099] found in the
// text, or 0 when none is present.
func ExtractYear(text string) int {
	match := yearPattern.FindString(text)
	if match == "" {
		return 0
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return year
}

// Words splits normalized text into its whitespace-separated tokens.
func Words(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// TitleCaseSlug renders a hyphenated slug word-by-word in Title Case:
// "south-hindi" becomes "South Hindi".
func TitleCaseSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, word := range words {
		words[i] = capitalize(word)
	}
	return strings.Join(words, " ")
}

// SlugVariants generates the casing renderings tried against stored genre
// literals when no normalized match exists: the raw slug, Title Case,
// hyphenated Title Case, lower, upper and PascalCase.
func SlugVariants(slug string) []string {
	words := splitSlugWords(slug)
	titled := make([]string, len(words))
	for i, word := range words {
		titled[i] = capitalize(strings.ToLower(word))
	}
	titleCase := strings.Join(titled, " ")

	variants := []string{
		slug,
		titleCase,
		strings.ReplaceAll(titleCase, " ", "-"),
		strings.ToLower(slug),
		strings.ToUpper(slug),
		strings.Join(titled, ""),
	}

	seen := make(map[string]struct{}, len(variants))
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func splitSlugWords(slug string) []string {
	return strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == ' ' || r == '\t'
	})
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
