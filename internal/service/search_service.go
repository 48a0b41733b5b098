package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Taranv8/hdhub4u/internal/metrics"
	"github.com/Taranv8/hdhub4u/internal/models"
	"github.com/Taranv8/hdhub4u/internal/search"
)

const (
	SearchPageSize    = 30
	MaxSearchPageSize = 50

	recommendationLimit = 4
	searchCacheTTL      = 5 * time.Minute
)

// SearchService plans and ranks free-text catalog searches.
type SearchService struct {
	store    MovieStore
	redis    *redis.Client
	pageSize int
	now      func() time.Time
}

func NewSearchService(store MovieStore, rdb *redis.Client, pageSize int) *SearchService {
	if pageSize <= 0 {
		pageSize = SearchPageSize
	}
	if pageSize > MaxSearchPageSize {
		pageSize = MaxSearchPageSize
	}
	return &SearchService{
		store:    store,
		redis:    rdb,
		pageSize: pageSize,
		now:      time.Now,
	}
}

type scoredMovie struct {
	movie models.Movie
	score float64
}

// Search runs the multi-strategy query plan: pull every candidate that matches
// at least one strategy (intersected with the release year when the query
// names one), score the whole set in memory, then paginate the ranked list.
// The result set is labelled from the top score; recommendation failures only
// degrade to an empty list.
func (s *SearchService) Search(ctx context.Context, query string, page int) (models.SearchData, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.SearchData{}, fmt.Errorf("search query is required")
	}
	page = clampPage(page)

	cacheKey := fmt.Sprintf("search:%s:%d:%d", query, page, s.pageSize)
	var cached models.SearchData
	if s.getFromCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	start := s.now()
	year := search.ExtractYear(query)

	candidates, err := s.store.SearchCandidates(ctx, query, year)
	if err != nil {
		return models.SearchData{}, fmt.Errorf("search movies: %w", err)
	}

	scored := make([]scoredMovie, 0, len(candidates))
	now := s.now()
	for _, movie := range candidates {
		scored = append(scored, scoredMovie{
			movie: movie,
			score: search.CompositeScore(movie, query, now),
		})
	}
	// Stable sort keeps raw collection order for equal scores.
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	searchType := search.TypePartial
	if len(scored) > 0 {
		searchType = search.Classify(scored[0].score)
	}

	pageMovies := paginate(scored, page, s.pageSize)
	data := models.SearchData{
		Movies:          pageMovies,
		Recommendations: s.recommendations(ctx, scored, pageMovies, query),
		Pagination:      models.NewPaginationInfo(page, s.pageSize, int64(len(scored))),
		SearchType:      searchType,
		Query:           query,
	}

	metrics.SearchesTotal.WithLabelValues(searchType).Inc()
	metrics.SearchDuration.Observe(s.now().Sub(start).Seconds())

	s.setCache(ctx, cacheKey, data, searchCacheTTL)
	return data, nil
}

// recommendations derives a fallback list from the top hit, or from top-rated
// records when the search came up empty. It never fails the search call.
func (s *SearchService) recommendations(ctx context.Context, scored []scoredMovie, pageMovies []models.Movie, query string) []models.Movie {
	var recs []models.Movie
	var err error

	if len(scored) > 0 {
		exclude := make([]string, 0, len(pageMovies))
		for _, m := range pageMovies {
			exclude = append(exclude, m.ID)
		}
		recs, err = s.store.Related(ctx, scored[0].movie, exclude, recommendationLimit)
	} else {
		recs, err = s.fallbackRecommendations(ctx, query)
	}
	if err != nil {
		slog.Warn("recommendations unavailable", "query", query, "error", err)
		return []models.Movie{}
	}
	if recs == nil {
		recs = []models.Movie{}
	}
	return recs
}

func (s *SearchService) fallbackRecommendations(ctx context.Context, query string) ([]models.Movie, error) {
	pattern := ""
	if genres, err := s.store.DistinctGenres(ctx); err == nil {
		q := search.Normalize(query)
		for _, genre := range genres {
			g := search.Normalize(genre)
			if g != "" && strings.Contains(q, g) {
				pattern = search.AnchoredLiteral(genre)
				break
			}
		}
	}
	return s.store.TopRated(ctx, pattern, recommendationLimit)
}

func paginate(scored []scoredMovie, page, pageSize int) []models.Movie {
	start := (page - 1) * pageSize
	if start >= len(scored) {
		return []models.Movie{}
	}
	end := start + pageSize
	if end > len(scored) {
		end = len(scored)
	}
	out := make([]models.Movie, 0, end-start)
	for _, sm := range scored[start:end] {
		out = append(out, sm.movie)
	}
	return out
}

// ---- Redis helpers ----

func (s *SearchService) getFromCache(ctx context.Context, key string, out any) bool {
	if s.redis == nil {
		return false
	}
	raw, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

func (s *SearchService) setCache(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	if data, err := json.Marshal(value); err == nil {
		if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
			slog.Error("failed to set cache", "key", key, "error", err)
		}
	}
}
