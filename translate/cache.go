package translate

import "sync"

// Cache memoizes translations for the lifetime of the process, keyed by
// (source text, locale). It is purely an optimization: entries are never
// invalidated or persisted, and a cold cache only costs extra requests.
// Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]string
	hits    int
	misses  int
}

type cacheKey struct {
	text   string
	locale string
}

// NewCache returns an empty translation cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]string)}
}

// Get returns the cached translation for (text, locale), if any.
func (c *Cache) Get(text, locale string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[cacheKey{text, locale}]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Put stores a translation for (text, locale).
func (c *Cache) Put(text, locale, translated string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{text, locale}] = translated
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
