package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Taranv8/hdhub4u/internal/cache"
	"github.com/Taranv8/hdhub4u/internal/metrics"
	"github.com/Taranv8/hdhub4u/internal/models"
	"github.com/Taranv8/hdhub4u/internal/search"
)

const (
	DefaultPageSize = 30
	MaxPageSize     = 100

	// DefaultMonthlyLimit is the only list size served from the shared
	// monthly cache; other limits go straight to storage.
	DefaultMonthlyLimit = 22

	listCacheTTL = 5 * time.Minute
)

// MovieStore is the storage surface the services depend on.
type MovieStore interface {
	GetByIDOrSlug(ctx context.Context, identifier string) (models.Movie, error)
	Latest(ctx context.Context, page, limit int) ([]models.Movie, int64, error)
	DistinctGenres(ctx context.Context) ([]string, error)
	ByGenre(ctx context.Context, genre string, page, limit int) ([]models.Movie, int64, error)
	SearchCandidates(ctx context.Context, query string, year int) ([]models.Movie, error)
	Related(ctx context.Context, movie models.Movie, excludeIDs []string, limit int) ([]models.Movie, error)
	TopRated(ctx context.Context, genrePattern string, limit int) ([]models.Movie, error)
	TopMonthly(ctx context.Context, limit int) ([]models.MonthlyMovie, error)
	UpdateDownloadCounters(ctx context.Context, id string, allTime, monthly int64, month, year int, when time.Time) error
}

// MovieService handles listing, detail, category and counter operations.
type MovieService struct {
	store        MovieStore
	detailCache  *cache.MovieCache
	monthlyCache *cache.MonthlyCache
	redis        *redis.Client
	pageSize     int
	now          func() time.Time
}

func NewMovieService(store MovieStore, detailCache *cache.MovieCache, monthlyCache *cache.MonthlyCache, rdb *redis.Client, pageSize int) *MovieService {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return &MovieService{
		store:        store,
		detailCache:  detailCache,
		monthlyCache: monthlyCache,
		redis:        rdb,
		pageSize:     pageSize,
		now:          time.Now,
	}
}

// ListLatest returns the newest releases, one page at a time.
func (s *MovieService) ListLatest(ctx context.Context, page int) (models.MovieListData, error) {
	page = clampPage(page)

	cacheKey := fmt.Sprintf("movies:latest:%d:%d", page, s.pageSize)
	var cached models.MovieListData
	if s.getFromCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	movies, total, err := s.store.Latest(ctx, page, s.pageSize)
	if err != nil {
		return models.MovieListData{}, fmt.Errorf("list latest movies: %w", err)
	}

	data := models.MovieListData{
		Movies:     movies,
		Pagination: models.NewPaginationInfo(page, s.pageSize, total),
	}
	s.setCache(ctx, cacheKey, data, listCacheTTL)
	return data, nil
}

// GetMovie returns a full record by ObjectID hex or link slug, served through
// the bounded TTL cache. The bool reports whether the record came from cache.
func (s *MovieService) GetMovie(ctx context.Context, identifier string) (models.Movie, bool, error) {
	movie, hit, err := s.detailCache.Get(ctx, identifier, func(ctx context.Context) (models.Movie, error) {
		return s.store.GetByIDOrSlug(ctx, identifier)
	})
	if err != nil {
		return models.Movie{}, false, err
	}
	if hit {
		metrics.CacheHitsTotal.Inc()
	} else {
		metrics.CacheMissesTotal.Inc()
	}
	return movie, hit, nil
}

// ListByCategory resolves a URL slug against the stored genre literals and
// lists the matching movies. An unresolvable slug still issues a query with the
// Title-Cased slug; zero matches is a success with an empty page.
func (s *MovieService) ListByCategory(ctx context.Context, slug string, page int) (models.MovieListData, error) {
	page = clampPage(page)

	cacheKey := fmt.Sprintf("movies:category:%s:%d:%d", slug, page, s.pageSize)
	var cached models.MovieListData
	if s.getFromCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	genres, err := s.store.DistinctGenres(ctx)
	if err != nil {
		return models.MovieListData{}, fmt.Errorf("list genres: %w", err)
	}
	genre := search.ResolveGenre(slug, genres)
	slog.Debug("resolved category slug", "slug", slug, "genre", genre)

	movies, total, err := s.store.ByGenre(ctx, genre, page, s.pageSize)
	if err != nil {
		return models.MovieListData{}, fmt.Errorf("list movies by category: %w", err)
	}

	data := models.MovieListData{
		Movies:     movies,
		Pagination: models.NewPaginationInfo(page, s.pageSize, total),
	}
	s.setCache(ctx, cacheKey, data, listCacheTTL)
	return data, nil
}

// Categories returns the distinct genre literals present in storage.
func (s *MovieService) Categories(ctx context.Context) ([]string, error) {
	return s.store.DistinctGenres(ctx)
}

// TopMonthly returns the most-downloaded movies of the current month through
// the shared coalesced cache.
func (s *MovieService) TopMonthly(ctx context.Context, limit int) ([]models.MonthlyMovie, error) {
	if limit == DefaultMonthlyLimit {
		return s.monthlyCache.Get(ctx, func(ctx context.Context) ([]models.MonthlyMovie, error) {
			return s.store.TopMonthly(ctx, limit)
		})
	}
	return s.store.TopMonthly(ctx, limit)
}

// IncrementDownload bumps both download counters for a movie. The monthly
// counter resets when the stored reset month/year differs from the current one;
// the all-time counter always increments.
func (s *MovieService) IncrementDownload(ctx context.Context, id string) (models.DownloadCountData, error) {
	movie, err := s.store.GetByIDOrSlug(ctx, id)
	if err != nil {
		return models.DownloadCountData{}, err
	}

	now := s.now()
	month := int(now.Month())
	year := now.Year()

	monthly := movie.MonthlyDownload
	if movie.LastResetMonth != month || movie.LastResetYear != year {
		monthly = 0
	}
	monthly++
	allTime := movie.AllTimeDownload + 1

	if err := s.store.UpdateDownloadCounters(ctx, movie.ID, allTime, monthly, month, year, now); err != nil {
		return models.DownloadCountData{}, err
	}
	metrics.DownloadIncrementsTotal.Inc()

	return models.DownloadCountData{AllTimeDownload: allTime, MonthlyDownload: monthly}, nil
}

// CacheStats exposes the detail cache for observability.
func (s *MovieService) CacheStats() cache.Stats {
	return s.detailCache.Stats()
}

// ClearCaches empties the in-memory caches and returns the number of detail
// entries dropped.
func (s *MovieService) ClearCaches() int {
	s.monthlyCache.Invalidate()
	return s.detailCache.Invalidate()
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// ---- Redis helpers ----

func (s *MovieService) getFromCache(ctx context.Context, key string, out any) bool {
	if s.redis == nil {
		return false
	}
	raw, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false
	}
	slog.Debug("cache hit", "key", key)
	return true
}

func (s *MovieService) setCache(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}
