package ssmutils

import "sync"

// Cache is the contract a caching strategy fulfils for a Client.
//
// Get returns the cached value for key, the boolean indicating a hit.
// Set upserts best-effort and never fails; the last write for a key wins.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Clear()
}

// NoCache is the null strategy used when caching is not requested. Get
// always misses and Set is discarded, so the client read path stays uniform
// whether or not caching is enabled.
type NoCache struct{}

func (NoCache) Get(_ string) (string, bool) { return "", false }

func (NoCache) Set(_, _ string) {}

func (NoCache) Clear() {}

// MapCache is an unbounded cache backed by a single map under a
// reader/writer lock. It never evicts. All client handles created from one
// construction share the same *MapCache, so a value cached through one
// handle is visible through every other.
type MapCache struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMapCache returns an empty MapCache.
func NewMapCache() *MapCache {
	return &MapCache{m: make(map[string]string)}
}

// NewMapCacheFromMap wraps m as the cache's backing store. The cache takes
// ownership of m; callers must not use it afterwards.
func NewMapCacheFromMap(m map[string]string) *MapCache {
	if m == nil {
		m = make(map[string]string)
	}
	return &MapCache{m: m}
}

func (c *MapCache) Get(key string) (string, bool) {
	c.mu.RLock()
	v, ok := c.m[key]
	c.mu.RUnlock()
	return v, ok
}

func (c *MapCache) Set(key, value string) {
	c.mu.Lock()
	c.m[key] = value
	c.mu.Unlock()
}

// Clear removes every entry.
func (c *MapCache) Clear() {
	c.mu.Lock()
	clear(c.m)
	c.mu.Unlock()
}

// Len reports the number of resident entries.
func (c *MapCache) Len() int {
	c.mu.RLock()
	n := len(c.m)
	c.mu.RUnlock()
	return n
}

// Update runs fn with exclusive access to the raw backing map. Useful for
// seeding tests or invalidating entries by hand. Get and Set block until fn
// returns.
func (c *MapCache) Update(fn func(map[string]string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.m)
}

var (
	_ Cache = NoCache{}
	_ Cache = (*MapCache)(nil)
)
