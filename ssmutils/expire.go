package ssmutils

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultCapacity is the maximum number of entries an ExpireCache holds.
	DefaultCapacity = 32

	// DefaultTTL is the time-to-live used by NewDefaultExpireCache.
	DefaultTTL = time.Minute
)

// ExpireCache is a bounded cache whose entries expire after a fixed
// time-to-live. Once DefaultCapacity entries are resident, inserting
// another evicts the least recently used one. One TTL applies to the whole
// cache, fixed at construction.
type ExpireCache struct {
	lru *expirable.LRU[string, string]

	mu    sync.Mutex
	loads map[string]*call
}

// call tracks an in-flight computation so concurrent GetOrCompute calls for
// the same key share a single result.
type call struct {
	wg  sync.WaitGroup
	val string
	err error
}

// NewExpireCache returns an empty cache whose entries expire after ttl.
func NewExpireCache(ttl time.Duration) *ExpireCache {
	return &ExpireCache{
		lru:   expirable.NewLRU[string, string](DefaultCapacity, nil, ttl),
		loads: make(map[string]*call),
	}
}

// NewDefaultExpireCache returns an empty cache with DefaultTTL.
func NewDefaultExpireCache() *ExpireCache {
	return NewExpireCache(DefaultTTL)
}

func (c *ExpireCache) Get(key string) (string, bool) {
	return c.lru.Get(key)
}

func (c *ExpireCache) Set(key, value string) {
	c.lru.Add(key, value)
}

// Clear removes every entry.
func (c *ExpireCache) Clear() {
	c.lru.Purge()
}

// Len reports the number of resident entries, expired ones included until
// the underlying structure reaps them.
func (c *ExpireCache) Len() int {
	return c.lru.Len()
}

// GetOrCompute returns the cached value for key, or runs compute, caches
// its result and returns it. Concurrent calls for the same key are
// collapsed into one compute invocation; every caller receives its result.
// A failed compute caches nothing.
func (c *ExpireCache) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (string, error)) (string, error) {
	if v, ok := c.lru.Get(key); ok {
		return v, nil
	}

	c.mu.Lock()
	if cl, ok := c.loads[key]; ok {
		c.mu.Unlock()
		cl.wg.Wait()
		return cl.val, cl.err
	}
	cl := &call{}
	cl.wg.Add(1)
	c.loads[key] = cl
	c.mu.Unlock()

	cl.val, cl.err = compute(ctx)
	if cl.err == nil {
		c.lru.Add(key, cl.val)
	}
	cl.wg.Done()

	c.mu.Lock()
	delete(c.loads, key)
	c.mu.Unlock()

	return cl.val, cl.err
}

var _ Cache = (*ExpireCache)(nil)
