package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"MONGODB_URI", "MONGODB_DATABASE", "MONGODB_COLLECTION",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"MOVIE_CACHE_TTL_HOURS", "MOVIE_CACHE_CAPACITY", "MONTHLY_CACHE_TTL_MINUTES",
		"SERVER_PORT", "PAGE_SIZE", "SEARCH_PAGE_SIZE",
	}
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"MongoURI", cfg.Mongo.URI, "mongodb://localhost:27017"},
		{"MongoDatabase", cfg.Mongo.Database, "moviehub"},
		{"MongoCollection", cfg.Mongo.Collection, "movies"},
		{"RedisAddr", cfg.Redis.Addr, "127.0.0.1:6379"},
		{"RedisDB", cfg.Redis.DB, 0},
		{"DetailTTL", cfg.Cache.DetailTTL, 24 * time.Hour},
		{"DetailCapacity", cfg.Cache.DetailCapacity, 100},
		{"MonthlyTTL", cfg.Cache.MonthlyTTL, 30 * time.Minute},
		{"Port", cfg.Port, "8080"},
		{"PageSize", cfg.PageSize, 30},
		{"SearchPageSize", cfg.SearchPageSize, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", tt.got, tt.got, tt.want, tt.want)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGODB_URI", "mongodb://remote:27017")
	t.Setenv("MOVIE_CACHE_TTL_HOURS", "6")
	t.Setenv("MOVIE_CACHE_CAPACITY", "250")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PAGE_SIZE", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Mongo.URI != "mongodb://remote:27017" {
		t.Errorf("Mongo.URI = %q", cfg.Mongo.URI)
	}
	if cfg.Cache.DetailTTL != 6*time.Hour {
		t.Errorf("Cache.DetailTTL = %v", cfg.Cache.DetailTTL)
	}
	if cfg.Cache.DetailCapacity != 250 {
		t.Errorf("Cache.DetailCapacity = %d", cfg.Cache.DetailCapacity)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.PageSize != 15 {
		t.Errorf("PageSize = %d", cfg.PageSize)
	}
}

func TestLoadIgnoresInvalidInts(t *testing.T) {
	clearEnv(t)
	t.Setenv("MOVIE_CACHE_CAPACITY", "not-a-number")
	t.Setenv("PAGE_SIZE", "-5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Cache.DetailCapacity != 100 {
		t.Errorf("Cache.DetailCapacity = %d, want default", cfg.Cache.DetailCapacity)
	}
	if cfg.PageSize != 30 {
		t.Errorf("PageSize = %d, want default", cfg.PageSize)
	}
}
