package resultcache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sqip/internal/adapters/resultcache"
	"go.trai.ch/sqip/internal/core/domain"
)

func result(n int) domain.PreviewResult {
	return domain.PreviewResult{
		SVG:     fmt.Sprintf("<svg id='%d'/>", n),
		DataURI: fmt.Sprintf("data:image/svg+xml,%%3csvg id='%d'/%%3e", n),
	}
}

func TestMemoryCache_GetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := resultcache.NewMemoryCache(4)

	got, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "k", result(1)))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, result(1), *got)

	require.NoError(t, c.Set(ctx, "k", result(2)))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, result(2), *got)

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Entries)
	assert.InDelta(t, 2.0/3.0, stats.HitRate(), 1e-9)
	assert.Equal(t, "2 hits, 1 misses (67% hit rate), 0 evictions, 1 entries", stats.String())
}

func TestMemoryCache_ReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := resultcache.NewMemoryCache(1)
	require.NoError(t, c.Set(ctx, "k", result(1)))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	got.SVG = "mutated"

	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, result(1), *again)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := resultcache.NewMemoryCache(2)

	require.NoError(t, c.Set(ctx, "a", result(1)))
	require.NoError(t, c.Set(ctx, "b", result(2)))

	// Touch a so that b becomes the eviction candidate.
	_, err := c.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "c", result(3)))

	got, err := c.Get(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, key := range []domain.CacheKey{"a", "c"} {
		got, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.NotNil(t, got, key)
	}
	assert.Equal(t, int64(1), c.Stats().Evictions)
	assert.Equal(t, int64(2), c.Stats().Entries)
}

func TestMemoryCache_DefaultCapacity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := resultcache.NewMemoryCache(0)
	for i := range domain.DefaultMemoryEntries + 1 {
		require.NoError(t, c.Set(ctx, domain.CacheKey(fmt.Sprint(i)), result(i)))
	}
	assert.Equal(t, int64(domain.DefaultMemoryEntries), c.Stats().Entries)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := resultcache.NewMemoryCache(16)

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Go(func() {
			key := domain.CacheKey(fmt.Sprint(i % 8))
			assert.NoError(t, c.Set(ctx, key, result(i)))
			_, err := c.Get(ctx, key)
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	assert.Equal(t, int64(8), c.Stats().Entries)
}
