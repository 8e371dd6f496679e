package search

import (
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

// Cache keeps recent search results, evicting the least recently used entry.
type Cache struct {
	entries     map[string][]string
	accessTime  map[string]int64
	accessCount int64
	hits        int64
	misses      int64
	maxEntries  int
	mu          sync.Mutex
}

// NewCache creates a cache holding at most maxEntries results.
func NewCache(maxEntries int) *Cache {
	return &Cache{
		entries:    make(map[string][]string, maxEntries),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

// CacheKey builds the key for a query. Letter order does not change the
// result, so the letters are sorted first.
func CacheKey(letters, template string) string {
	b := []byte(letters)
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	return string(b) + "|" + template
}

// Get returns the cached words for key.
func (c *Cache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	words, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.markAccessed(key)
	return words, true
}

// Put stores words under key. The slice must not be modified afterwards.
func (c *Cache) Put(key string, words []string) {
	if c.maxEntries <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLRU()
	}
	c.entries[key] = words
	c.markAccessed(key)
}

func (c *Cache) Stats() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return map[string]int{
		"cacheEntries": len(c.entries),
		"maxEntries":   c.maxEntries,
		"cacheHits":    int(c.hits),
		"cacheMisses":  int(c.misses),
	}
}

func (c *Cache) markAccessed(key string) {
	c.accessCount++
	c.accessTime[key] = c.accessCount
}

func (c *Cache) evictLRU() {
	var oldestKey string
	var oldestTime int64 = 9223372036854775807

	for key, accessTime := range c.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
		delete(c.accessTime, oldestKey)
		log.Debugf("Evicted '%s' from result cache", oldestKey)
	}
}
