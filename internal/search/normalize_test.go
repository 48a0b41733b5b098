package search

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Inception", "inception"},
		{"strips punctuation", "Spider-Man: No Way Home!", "spiderman no way home"},
		{"collapses whitespace", "  the   dark\tknight ", "the dark knight"},
		{"keeps digits", "Blade Runner 2049", "blade runner 2049"},
		{"empty", "", ""},
		{"only punctuation", "?!*&", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Normalize(got); again != got {
				t.Errorf("Normalize is not a fixed point: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sci-Fi", "scifi"},
		{"SCI FI", "scifi"},
		{"sci_fi", "sci_fi"},
		{"Action & Adventure", "actionadventure"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeKey(tt.in); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"trailing year", "Inception 2010", 2010},
		{"leading year", "1999 The Matrix", 1999},
		{"no year", "Inception", 0},
		{"out of range low", "movie 1850", 0},
		{"out of range high", "movie 2150", 0},
		{"boundary 1900", "classic 1900", 1900},
		{"boundary 2099", "future 2099", 2099},
		{"not a standalone token", "id12019", 0},
		{"first of several", "Dune 2021 vs Dune 2024", 2021},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractYear(tt.in); got != tt.want {
				t.Errorf("ExtractYear(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTitleCaseSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"south-hindi", "South Hindi"},
		{"action", "Action"},
		{"nonexistent-category-xyz", "Nonexistent Category Xyz"},
		{"sci-fi", "Sci Fi"},
	}
	for _, tt := range tests {
		if got := TitleCaseSlug(tt.in); got != tt.want {
			t.Errorf("TitleCaseSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugVariants(t *testing.T) {
	got := SlugVariants("south-hindi")
	want := []string{
		"south-hindi",
		"South Hindi",
		"South-Hindi",
		"SOUTH-HINDI",
		"SouthHindi",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SlugVariants(south-hindi) = %v, want %v", got, want)
	}
}

func TestSlugVariantsDeduplicates(t *testing.T) {
	got := SlugVariants("action")
	seen := map[string]int{}
	for _, v := range got {
		seen[v]++
		if seen[v] > 1 {
			t.Errorf("duplicate variant %q in %v", v, got)
		}
	}
}

func TestWords(t *testing.T) {
	got := Words("The Dark-Knight Rises")
	want := []string{"the", "darkknight", "rises"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %v, want %v", got, want)
	}
	if Words("  ") != nil {
		t.Errorf("Words of blank input should be nil")
	}
}
