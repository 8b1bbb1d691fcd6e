// Package cache provides a read-through memoizing cache keyed by resource location.
// Concurrent loads of the same key are collapsed into a single call.
package cache

import (
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// LoadFunc produces the value for a key on a cache miss.
type LoadFunc[T any] func(key string) (T, error)

// Stats reports cumulative cache activity.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// Cache memoizes values by key. Failed loads are not stored, nor are loads
// that overlapped an Invalidate or Clear of their key.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
	gens    map[string]uint64
	epoch   uint64
	group   singleflight.Group
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// New creates an empty Cache.
func New[T any]() *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]T),
		gens:    make(map[string]uint64),
	}
}

// Get returns the cached value for key, calling load on a miss.
func (c *Cache[T]) Get(key string, load LoadFunc[T]) (T, error) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return v, nil
	}

	c.misses.Add(1)
	res, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		v, ok := c.entries[key]
		epoch, gen := c.epoch, c.gens[key]
		c.mu.RUnlock()
		if ok {
			return v, nil
		}

		v, err := load(key)
		if err != nil {
			return v, err
		}

		c.mu.Lock()
		if c.epoch == epoch && c.gens[key] == gen {
			c.entries[key] = v
		}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

// Invalidate drops a single key. It reports whether the key was present.
func (c *Cache[T]) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	c.gens[key]++
	c.group.Forget(key)
	return ok
}

// Clear drops every entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		c.group.Forget(key)
	}
	for key := range c.gens {
		c.group.Forget(key)
	}
	c.entries = make(map[string]T)
	c.gens = make(map[string]uint64)
	c.epoch++
}

// Keys returns the cached keys in sorted order.
func (c *Cache[T]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stats returns a snapshot of hit, miss, and entry counts.
func (c *Cache[T]) Stats() Stats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: n,
	}
}
