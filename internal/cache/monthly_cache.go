package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Taranv8/hdhub4u/internal/models"
)

const DefaultMonthlyTTL = 30 * time.Minute

// MonthlyFetchFunc loads the top monthly downloads list.
type MonthlyFetchFunc func(ctx context.Context) ([]models.MonthlyMovie, error)

// MonthlyCache holds the single shared top-downloads aggregate. All callers
// that arrive while a refresh is in flight wait on that one fetch instead of
// issuing their own.
type MonthlyCache struct {
	mu       sync.Mutex
	movies   []models.MonthlyMovie
	storedAt time.Time
	ttl      time.Duration
	group    singleflight.Group
	now      func() time.Time
}

func NewMonthlyCache(ttl time.Duration) *MonthlyCache {
	if ttl <= 0 {
		ttl = DefaultMonthlyTTL
	}
	return &MonthlyCache{ttl: ttl, now: time.Now}
}

// Get returns the cached list while it is fresh, refreshing it through a single
// coalesced fetch otherwise.
func (c *MonthlyCache) Get(ctx context.Context, fetch MonthlyFetchFunc) ([]models.MonthlyMovie, error) {
	if movies, ok := c.lookup(); ok {
		return movies, nil
	}

	v, err, _ := c.group.Do("monthly", func() (any, error) {
		if movies, ok := c.lookup(); ok {
			return movies, nil
		}
		movies, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.movies = movies
		c.storedAt = c.now()
		c.mu.Unlock()
		return movies, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.MonthlyMovie), nil
}

// Invalidate drops the cached aggregate.
func (c *MonthlyCache) Invalidate() {
	c.mu.Lock()
	c.movies = nil
	c.storedAt = time.Time{}
	c.mu.Unlock()
}

func (c *MonthlyCache) lookup() ([]models.MonthlyMovie, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.movies == nil || c.storedAt.IsZero() {
		return nil, false
	}
	if c.now().Sub(c.storedAt) >= c.ttl {
		return nil, false
	}
	return c.movies, true
}
