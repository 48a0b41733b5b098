package search

import (
	"testing"
	"time"

	"github.com/Taranv8/hdhub4u/internal/models"
)

var rankNow = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

func TestCompositeScoreOrdersTitleMatchFirst(t *testing.T) {
	exact := models.Movie{Title: "Inception (2010) Hindi Dubbed"}
	wordOverlap := models.Movie{Title: "Basic Inspection Manual"}

	query := "inception"
	if se, sw := CompositeScore(exact, query, rankNow), CompositeScore(wordOverlap, query, rankNow); se <= sw {
		t.Errorf("contained title scored %v, non-match scored %v; want contained higher", se, sw)
	}
}

func TestCompositeScoreExactThreshold(t *testing.T) {
	m := models.Movie{Title: "Inception (2010) Dual Audio 720p"}
	score := CompositeScore(m, "inception", rankNow)
	if score < 80 {
		t.Errorf("phrase containment in title scored %v, want >= 80", score)
	}
	if Classify(score) != TypeExact {
		t.Errorf("Classify(%v) = %q, want %q", score, Classify(score), TypeExact)
	}
}

func TestCompositeScoreBonuses(t *testing.T) {
	base := models.Movie{Title: "Edge of Tomorrow"}
	boosted := models.Movie{
		Title:    "Edge of Tomorrow",
		Genre:    models.StringList{"Action"},
		Language: "Hindi",
		Stars:    "Tom Cruise, Emily Blunt",
		Director: "Doug Liman",
	}

	query := "edge of tomorrow action hindi cruise liman"
	if sb, sp := CompositeScore(boosted, query, rankNow), CompositeScore(base, query, rankNow); sb <= sp {
		t.Errorf("boosted %v <= plain %v; genre/language/credit hits should add score", sb, sp)
	}
}

func TestCompositeScoreRatingBreaksTies(t *testing.T) {
	low := models.Movie{Title: "Dune", IMDBRating: 6.0}
	high := models.Movie{Title: "Dune", IMDBRating: 8.4}

	if sh, sl := CompositeScore(high, "dune", rankNow), CompositeScore(low, "dune", rankNow); sh <= sl {
		t.Errorf("higher rated %v <= lower rated %v", sh, sl)
	}
}

func TestRecencyBonus(t *testing.T) {
	tests := []struct {
		name     string
		released time.Time
		wantZero bool
	}{
		{"zero date", time.Time{}, true},
		{"future date", rankNow.Add(24 * time.Hour), true},
		{"older than window", rankNow.AddDate(-3, 0, 0), true},
		{"recent release", rankNow.AddDate(0, -1, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recencyBonus(tt.released, rankNow)
			if tt.wantZero && got != 0 {
				t.Errorf("recencyBonus = %v, want 0", got)
			}
			if !tt.wantZero && (got <= 0 || got > recencyBonusMax) {
				t.Errorf("recencyBonus = %v, want in (0, %v]", got, recencyBonusMax)
			}
		})
	}
}

func TestRecencyBonusDecays(t *testing.T) {
	newer := recencyBonus(rankNow.AddDate(0, -1, 0), rankNow)
	older := recencyBonus(rankNow.AddDate(0, -18, 0), rankNow)
	if newer <= older {
		t.Errorf("one-month-old bonus %v <= eighteen-month-old bonus %v", newer, older)
	}
}
