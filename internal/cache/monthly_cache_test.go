package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taranv8/hdhub4u/internal/models"
)

func TestMonthlyCacheCachesList(t *testing.T) {
	c := NewMonthlyCache(30 * time.Minute)
	ctx := context.Background()
	var fetches int

	fetch := func(ctx context.Context) ([]models.MonthlyMovie, error) {
		fetches++
		return []models.MonthlyMovie{{Title: "Inception"}}, nil
	}

	for i := 0; i < 3; i++ {
		movies, err := c.Get(ctx, fetch)
		require.NoError(t, err)
		require.Len(t, movies, 1)
	}
	assert.Equal(t, 1, fetches)
}

func TestMonthlyCacheExpires(t *testing.T) {
	c := NewMonthlyCache(30 * time.Minute)
	current := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }
	ctx := context.Background()
	var fetches int

	fetch := func(ctx context.Context) ([]models.MonthlyMovie, error) {
		fetches++
		return []models.MonthlyMovie{{Title: "Inception"}}, nil
	}

	_, err := c.Get(ctx, fetch)
	require.NoError(t, err)

	current = current.Add(31 * time.Minute)
	_, err = c.Get(ctx, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, fetches)
}

func TestMonthlyCacheInvalidate(t *testing.T) {
	c := NewMonthlyCache(30 * time.Minute)
	ctx := context.Background()
	var fetches int

	fetch := func(ctx context.Context) ([]models.MonthlyMovie, error) {
		fetches++
		return []models.MonthlyMovie{{Title: "Inception"}}, nil
	}

	_, err := c.Get(ctx, fetch)
	require.NoError(t, err)
	c.Invalidate()
	_, err = c.Get(ctx, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, fetches)
}

func TestMonthlyCacheCoalesces(t *testing.T) {
	c := NewMonthlyCache(30 * time.Minute)
	var fetches atomic.Int32
	release := make(chan struct{})

	fetch := func(ctx context.Context) ([]models.MonthlyMovie, error) {
		fetches.Add(1)
		<-release
		return []models.MonthlyMovie{{Title: "Inception"}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Get(context.Background(), fetch)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), fetches.Load())
}

func TestMonthlyCacheFetchError(t *testing.T) {
	c := NewMonthlyCache(30 * time.Minute)
	wantErr := errors.New("storage down")

	_, err := c.Get(context.Background(), func(ctx context.Context) ([]models.MonthlyMovie, error) {
		return nil, wantErr
	})
	require.ErrorIs(t, err, wantErr)
}
