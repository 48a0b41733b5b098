package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Taranv8/hdhub4u/internal/cache"
	"github.com/Taranv8/hdhub4u/internal/config"
	"github.com/Taranv8/hdhub4u/internal/database"
	"github.com/Taranv8/hdhub4u/internal/handler"
	"github.com/Taranv8/hdhub4u/internal/metrics"
	"github.com/Taranv8/hdhub4u/internal/repository"
	"github.com/Taranv8/hdhub4u/internal/service"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, err := database.NewMongo(ctx, cfg.Mongo)
	cancel()
	if err != nil {
		slog.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	// Connect to Redis (non-fatal if unavailable)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without list cache", "error", err)
		rdb = nil
	}

	// Initialize layers
	repo := repository.NewMovieRepository(client, cfg.Mongo.Database, cfg.Mongo.Collection)
	if err := repo.EnsureIndexes(context.Background()); err != nil {
		slog.Warn("failed to ensure indexes", "error", err)
	}

	detailCache := cache.NewMovieCache(cfg.Cache.DetailCapacity, cfg.Cache.DetailTTL)
	monthlyCache := cache.NewMonthlyCache(cfg.Cache.MonthlyTTL)

	movieSvc := service.NewMovieService(repo, detailCache, monthlyCache, rdb, cfg.PageSize)
	searchSvc := service.NewSearchService(repo, rdb, cfg.SearchPageSize)
	h := handler.NewMovieHandler(movieSvc, searchSvc)

	metrics.Register(prometheus.DefaultRegisterer)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Movie Catalog",
		ServerHeader: "Movie-Catalog",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Success: false, Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// API routes
	api := app.Group("/api/v1")
	api.Get("/health", h.Health)
	api.Get("/movies", h.ListMovies)
	api.Get("/movies/:id", h.GetMovie)
	api.Get("/search", h.Search)
	api.Get("/category/:slug", h.ListByCategory)
	api.Get("/categories", h.ListCategories)
	api.Get("/monthly-movies", h.TopMonthly)
	api.Post("/downloads/increment", h.IncrementDownload)
	api.Get("/admin/cache/stats", h.CacheStats)
	api.Delete("/admin/cache", h.ClearCache)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down movie catalog...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting movie catalog", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
