package hungarian

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// PairKey hashes two structural fingerprints into one cache key by joining
// them with a separator byte and hashing the result. Fingerprints are plain strings so callers can build them cheaply (e.g.
// value.Value.Fingerprint) without this package depending on the value
// package.
func PairKey(gtFingerprint, predFingerprint string) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(gtFingerprint)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(predFingerprint)
	return h.Sum64()
}

// Cache memoizes pairwise similarity results keyed by PairKey, shared
// between cost-matrix construction and later per-field detail aggregation
// so the same pair of records is never recursively compared twice.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[uint64]T
	hits    int64
	misses  int64
}

// NewCache returns an empty cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[uint64]T)}
}

// Get looks up key, reporting a cache hit or miss for Stats.
func (c *Cache[T]) Get(key uint64) (T, bool) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()

	c.mu.Lock()
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	return v, ok
}

// Put stores val under key, overwriting any existing entry.
func (c *Cache[T]) Put(key uint64, val T) {
	c.mu.Lock()
	c.entries[key] = val
	c.mu.Unlock()
}

// Stats returns cumulative hit/miss counts.
func (c *Cache[T]) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Len reports the number of memoized entries.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
