package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the catalog service.
type Config struct {
	Mongo Mongo
	Redis Redis
	Cache Cache
	Port  string

	PageSize       int
	SearchPageSize int
}

// Mongo holds MongoDB connection settings.
type Mongo struct {
	URI        string
	Database   string
	Collection string
}

// Redis holds Redis connection settings.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Cache holds the in-memory cache tuning knobs.
type Cache struct {
	DetailTTL      time.Duration
	DetailCapacity int
	MonthlyTTL     time.Duration
}

// Load reads configuration from environment variables, honoring a local .env
// file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Mongo: Mongo{
			URI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:   getEnv("MONGODB_DATABASE", "moviehub"),
			Collection: getEnv("MONGODB_COLLECTION", "movies"),
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Cache: Cache{
			DetailTTL:      time.Duration(getEnvInt("MOVIE_CACHE_TTL_HOURS", 24)) * time.Hour,
			DetailCapacity: getEnvInt("MOVIE_CACHE_CAPACITY", 100),
			MonthlyTTL:     time.Duration(getEnvInt("MONTHLY_CACHE_TTL_MINUTES", 30)) * time.Minute,
		},
		Port:           getEnv("SERVER_PORT", "8080"),
		PageSize:       getEnvInt("PAGE_SIZE", 30),
		SearchPageSize: getEnvInt("SEARCH_PAGE_SIZE", 30),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
