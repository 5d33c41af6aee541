package cache

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Entry wraps a cached value with its expiry
type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Stats tracks cache effectiveness
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// MemoryCache is a TTL cache for catalog query results. Expired
// entries are dropped lazily on read; there is no background sweeper
// because mutations already invalidate eagerly.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	hits    int64
	misses  int64
}

// New creates a cache with the given entry lifetime
func New(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Get returns the cached value and whether it was present and fresh
func (c *MemoryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		c.mu.Lock()
		if ok {
			delete(c.entries, key)
		}
		c.misses++
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	return e.value, true
}

// Set stores a value under the key for the configured TTL
func (c *MemoryCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
}

// Delete removes a single key
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// DeletePrefix removes every key starting with the prefix. List
// results for all query/sort combinations share a prefix so one call
// invalidates them together.
func (c *MemoryCache) DeletePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// Stats returns a snapshot of hit/miss counters
func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

// ListPrefix is the shared prefix of all list-query keys
const ListPrefix = "videos?"

// ListKey builds the cache key for a list query
func ListKey(searchQuery, sortOrder string) string {
	return fmt.Sprintf("%sq=%s&sort=%s", ListPrefix, url.QueryEscape(searchQuery), url.QueryEscape(sortOrder))
}

// EntryKey builds the cache key for a single entry lookup
func EntryKey(id uint) string {
	return fmt.Sprintf("videos/%d", id)
}
