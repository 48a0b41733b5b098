package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Taranv8/hdhub4u/internal/cache"
	"github.com/Taranv8/hdhub4u/internal/models"
	"github.com/Taranv8/hdhub4u/internal/repository"
)

// MovieService is the catalog surface the handlers call.
type MovieService interface {
	ListLatest(ctx context.Context, page int) (models.MovieListData, error)
	GetMovie(ctx context.Context, identifier string) (models.Movie, bool, error)
	ListByCategory(ctx context.Context, slug string, page int) (models.MovieListData, error)
	Categories(ctx context.Context) ([]string, error)
	TopMonthly(ctx context.Context, limit int) ([]models.MonthlyMovie, error)
	IncrementDownload(ctx context.Context, id string) (models.DownloadCountData, error)
	CacheStats() cache.Stats
	ClearCaches() int
}

// SearchService runs free-text searches.
type SearchService interface {
	Search(ctx context.Context, query string, page int) (models.SearchData, error)
}

// MovieHandler handles HTTP requests for the catalog.
type MovieHandler struct {
	movies MovieService
	search SearchService
}

func NewMovieHandler(movies MovieService, search SearchService) *MovieHandler {
	return &MovieHandler{movies: movies, search: search}
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func ok(c fiber.Ctx, data any) error {
	return c.JSON(successResponse{Success: true, Data: data})
}

func fail(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Success: false, Error: message})
}

// Health returns service health status.
func (h *MovieHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "movie-catalog",
	})
}

// ListMovies returns the latest releases, paginated.
func (h *MovieHandler) ListMovies(c fiber.Ctx) error {
	page := fiber.Query(c, "page", 1)
	if page < 1 {
		return fail(c, fiber.StatusBadRequest, "Page number must be a positive integer")
	}

	data, err := h.movies.ListLatest(c.Context(), page)
	if err != nil {
		slog.Error("failed to list movies", "page", page, "error", err)
		return fail(c, fiber.StatusInternalServerError, "failed to retrieve movies")
	}
	return ok(c, data)
}

// GetMovie returns a single movie by ObjectID hex or link slug.
func (h *MovieHandler) GetMovie(c fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fail(c, fiber.StatusBadRequest, "Movie ID is required")
	}

	movie, cached, err := h.movies.GetMovie(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Movie not found")
		}
		slog.Error("failed to get movie", "id", id, "error", err)
		return fail(c, fiber.StatusInternalServerError, "failed to retrieve movie")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    movie,
		"cached":  cached,
	})
}

// Search runs a free-text search with recommendations.
func (h *MovieHandler) Search(c fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query", c.Query("q")))
	if query == "" {
		return fail(c, fiber.StatusBadRequest, "Search query is required")
	}
	page := fiber.Query(c, "page", 1)
	if page < 1 {
		return fail(c, fiber.StatusBadRequest, "Invalid page number")
	}

	data, err := h.search.Search(c.Context(), query, page)
	if err != nil {
		slog.Error("search failed", "query", query, "error", err)
		return fail(c, fiber.StatusInternalServerError, "search failed")
	}
	return ok(c, data)
}

// ListByCategory lists movies for a category slug. Zero matches is still a
// success with an empty page.
func (h *MovieHandler) ListByCategory(c fiber.Ctx) error {
	slug := strings.TrimSpace(c.Params("slug"))
	if slug == "" {
		return fail(c, fiber.StatusBadRequest, "Category name is required")
	}
	page := fiber.Query(c, "page", 1)
	if page < 1 {
		return fail(c, fiber.StatusBadRequest, "Page number must be a positive integer")
	}

	data, err := h.movies.ListByCategory(c.Context(), slug, page)
	if err != nil {
		slog.Error("failed to list category", "slug", slug, "error", err)
		return fail(c, fiber.StatusInternalServerError, "failed to retrieve movies")
	}
	return ok(c, data)
}

// ListCategories returns every genre literal in storage.
func (h *MovieHandler) ListCategories(c fiber.Ctx) error {
	categories, err := h.movies.Categories(c.Context())
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		return fail(c, fiber.StatusInternalServerError, "failed to retrieve categories")
	}
	return ok(c, categories)
}

// TopMonthly returns the most-downloaded movies of the current month.
func (h *MovieHandler) TopMonthly(c fiber.Ctx) error {
	limit := fiber.Query(c, "limit", 22)
	if limit < 1 || limit > 100 {
		return fail(c, fiber.StatusBadRequest, "Limit must be between 1 and 100")
	}

	movies, err := h.movies.TopMonthly(c.Context(), limit)
	if err != nil {
		slog.Error("failed to list top monthly movies", "error", err)
		return fail(c, fiber.StatusInternalServerError, "failed to retrieve monthly movies")
	}
	return ok(c, movies)
}

type incrementRequest struct {
	MovieID string `json:"movieId"`
}

// IncrementDownload bumps the download counters for a movie.
func (h *MovieHandler) IncrementDownload(c fiber.Ctx) error {
	var req incrementRequest
	if err := c.Bind().JSON(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.MovieID) == "" {
		return fail(c, fiber.StatusBadRequest, "Movie ID is required")
	}

	data, err := h.movies.IncrementDownload(c.Context(), req.MovieID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Movie not found")
		}
		slog.Error("failed to increment download count", "id", req.MovieID, "error", err)
		return fail(c, fiber.StatusInternalServerError, "failed to update download count")
	}
	return ok(c, data)
}

// CacheStats exposes the detail cache state.
func (h *MovieHandler) CacheStats(c fiber.Ctx) error {
	return ok(c, h.movies.CacheStats())
}

// ClearCache empties the in-memory caches.
func (h *MovieHandler) ClearCache(c fiber.Ctx) error {
	cleared := h.movies.ClearCaches()
	slog.Info("cleared movie cache", "entries", cleared)
	return ok(c, fiber.Map{"cleared": cleared})
}
