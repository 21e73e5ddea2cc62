package query

import (
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheEntry struct {
	vector    []float32
	expiresAt time.Time
}

// Cache is an in-process LRU cache keyed by normalized query text plus
// classification, with a time-to-live on each entry.
type Cache struct {
	mu    sync.Mutex
	inner *lru.Cache[string, cacheEntry]
	ttl   time.Duration
}

// NewCache creates a Cache with the given capacity and ttl, falling back to
// DefaultCacheCapacity/DefaultCacheTTL when unset.
func NewCache(capacity int, ttl time.Duration) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	inner, err := lru.New[string, cacheEntry](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{inner: inner, ttl: ttl}, nil
}

func cacheKey(text string, classification Classification) string {
	return string(classification) + ":" + strings.ToLower(strings.TrimSpace(text))
}

// Get returns the cached vector for (text, classification) if present and
// not expired.
func (c *Cache) Get(text string, classification Classification) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(text, classification)
	entry, ok := c.inner.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.inner.Remove(key)
		return nil, false
	}
	return entry.vector, true
}

// Put stores vector for (text, classification) with the cache's configured TTL.
func (c *Cache) Put(text string, classification Classification, vector []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Add(cacheKey(text, classification), cacheEntry{vector: vector, expiresAt: time.Now().Add(c.ttl)})
}
