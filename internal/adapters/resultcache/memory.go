package resultcache

import (
	"container/list"
	"context"
	"sync"

	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
)

var _ ports.ResultCache = (*MemoryCache)(nil)

// MemoryCache is an in-process result cache with LRU eviction.
type MemoryCache struct {
	capacity int

	items    map[domain.CacheKey]*list.Element
	eviction *list.List

	mu    sync.Mutex
	stats Stats
}

type memoryEntry struct {
	key    domain.CacheKey
	result domain.PreviewResult
}

// NewMemoryCache creates a cache holding at most capacity entries.
// A capacity below one falls back to domain.DefaultMemoryEntries.
func NewMemoryCache(capacity int) *MemoryCache {
	if capacity < 1 {
		capacity = domain.DefaultMemoryEntries
	}
	return &MemoryCache{
		capacity: capacity,
		items:    make(map[domain.CacheKey]*list.Element),
		eviction: list.New(),
	}
}

// Get retrieves a result from the cache.
func (c *MemoryCache) Get(_ context.Context, key domain.CacheKey) (*domain.PreviewResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, nil
	}

	// Move to front (most recently used)
	c.eviction.MoveToFront(elem)
	c.stats.Hits++

	result := elem.Value.(*memoryEntry).result //nolint:forcetypeassert // Only memoryEntry is stored
	return &result, nil
}

// Set stores a result in the cache, evicting the least recently used entry when full.
func (c *MemoryCache) Set(_ context.Context, key domain.CacheKey, result domain.PreviewResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		elem.Value.(*memoryEntry).result = result //nolint:forcetypeassert // Only memoryEntry is stored
		return nil
	}

	for c.eviction.Len() >= c.capacity {
		c.evictOldest()
	}

	c.items[key] = c.eviction.PushFront(&memoryEntry{key: key, result: result})
	return nil
}

// Stats returns cache statistics.
func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Entries = int64(c.eviction.Len())
	return stats
}

// evictOldest removes the least recently used item (must be called with lock held).
func (c *MemoryCache) evictOldest() {
	if elem := c.eviction.Back(); elem != nil {
		c.removeElement(elem)
		c.stats.Evictions++
	}
}

// removeElement removes an element from the cache (must be called with lock held).
func (c *MemoryCache) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	delete(c.items, elem.Value.(*memoryEntry).key) //nolint:forcetypeassert // Only memoryEntry is stored
}
