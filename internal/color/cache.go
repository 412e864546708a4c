package color

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of (lightness, hue, delta) entries a
// ChromaCache holds before evicting the least recently used one. A slider
// track of 360 samples across a handful of hues fits comfortably.
const DefaultCacheSize = 4096

type chromaKey struct {
	L, H, Delta float64
}

// ChromaCache memoizes gamut search results. It is safe for concurrent use.
type ChromaCache struct {
	entries  *lru.Cache[chromaKey, float64]
	capacity int
	hits     atomic.Uint64
	misses   atomic.Uint64
}

// CacheStats is a snapshot of cache usage.
type CacheStats struct {
	Hits     uint64
	Misses   uint64
	Len      int
	Capacity int
}

// NewChromaCache creates a cache holding at most size entries.
// A size of zero or less uses DefaultCacheSize.
func NewChromaCache(size int) *ChromaCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[chromaKey, float64](size)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return &ChromaCache{entries: entries, capacity: size}
}

// get returns the cached max chroma for the key, counting the hit or miss.
func (c *ChromaCache) get(k chromaKey) (float64, bool) {
	v, ok := c.entries.Get(k)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

func (c *ChromaCache) put(k chromaKey, v float64) {
	c.entries.Add(k, v)
}

// Stats returns the current hit and miss counts and occupancy.
func (c *ChromaCache) Stats() CacheStats {
	return CacheStats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Len:      c.entries.Len(),
		Capacity: c.capacity,
	}
}

// Purge drops every entry. Counters are kept.
func (c *ChromaCache) Purge() {
	c.entries.Purge()
}
