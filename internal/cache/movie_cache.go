package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Taranv8/hdhub4u/internal/models"
)

const (
	DefaultCapacity = 100
	DefaultTTL      = 24 * time.Hour
)

// FetchFunc loads a movie on a cache miss.
type FetchFunc func(ctx context.Context) (models.Movie, error)

type entry struct {
	movie    models.Movie
	storedAt time.Time
}

// MovieCache is a fixed-capacity cache of full movie records used by the
// detail-page path. Entries expire after the TTL; when the cache is full the
// entry inserted earliest is evicted. Concurrent lookups for the same cold key
// are coalesced into a single underlying fetch.
type MovieCache struct {
	mu       sync.Mutex
	entries  map[string]entry
	order    []string // insertion order, oldest first
	capacity int
	ttl      time.Duration
	group    singleflight.Group
	now      func() time.Time
}

// Stats is the observable state of the cache.
type Stats struct {
	Size     int           `json:"size"`
	Capacity int           `json:"capacity"`
	TTL      time.Duration `json:"ttl"`
	Keys     []string      `json:"keys"`
}

func NewMovieCache(capacity int, ttl time.Duration) *MovieCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MovieCache{
		entries:  make(map[string]entry, capacity),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the cached record for key if it is younger than the TTL,
// otherwise runs fetch, stores the result and returns it. The second return
// value reports whether the record came from the cache.
func (c *MovieCache) Get(ctx context.Context, key string, fetch FetchFunc) (models.Movie, bool, error) {
	if movie, ok := c.lookup(key); ok {
		return movie, true, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A coalesced caller may arrive after the winner stored the entry.
		if movie, ok := c.lookup(key); ok {
			return movie, nil
		}
		movie, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, movie)
		return movie, nil
	})
	if err != nil {
		return models.Movie{}, false, err
	}
	return v.(models.Movie), false, nil
}

// Invalidate empties the cache.
func (c *MovieCache) Invalidate() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]entry, c.capacity)
	c.order = c.order[:0]
	return n
}

func (c *MovieCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return Stats{
		Size:     len(c.entries),
		Capacity: c.capacity,
		TTL:      c.ttl,
		Keys:     keys,
	}
}

func (c *MovieCache) lookup(key string) (models.Movie, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return models.Movie{}, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		return models.Movie{}, false
	}
	return e.movie, true
}

func (c *MovieCache) store(key string, movie models.Movie) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = entry{movie: movie, storedAt: c.now()}
}
