// Package cache provides a small in-memory TTL cache.
package cache

import (
	"sync"
	"time"
)

// Cache is an in-memory TTL cache safe for concurrent use.
//
// When MaxEntries is positive, inserting into a full cache evicts expired entries first and then the entry closest to expiry.
type Cache[T any] struct {
	mu         sync.RWMutex
	data       map[string]entry[T]
	maxEntries int
	now        func() time.Time
}

type entry[T any] struct {
	value T
	exp   time.Time
}

// New returns an empty, unbounded cache.
func New[T any]() *Cache[T] {
	return &Cache[T]{data: make(map[string]entry[T]), now: time.Now}
}

// NewBounded returns an empty cache holding at most maxEntries values.
func NewBounded[T any](maxEntries int) *Cache[T] {
	c := New[T]()
	c.maxEntries = maxEntries
	return c
}

// Get returns the cached value or false if absent or expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T

	c.mu.RLock()
	item, ok := c.data[key]
	c.mu.RUnlock()
	if !ok || c.now().After(item.exp) {
		return zero, false
	}
	return item.value, true
}

// Set stores a value with the provided TTL. A non-positive TTL is a no-op.
func (c *Cache[T]) Set(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[key]; !exists && c.maxEntries > 0 && len(c.data) >= c.maxEntries {
		c.evictLocked()
	}
	c.data[key] = entry[T]{value: value, exp: c.now().Add(ttl)}
}

// Delete removes key.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

// Purge drops every entry.
func (c *Cache[T]) Purge() {
	c.mu.Lock()
	c.data = make(map[string]entry[T])
	c.mu.Unlock()
}

// Len reports the number of stored entries, including expired ones not yet evicted.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func (c *Cache[T]) evictLocked() {
	now := c.now()
	for k, e := range c.data {
		if now.After(e.exp) {
			delete(c.data, k)
		}
	}
	if len(c.data) < c.maxEntries {
		return
	}

	var (
		oldest    string
		oldestExp time.Time
	)
	for k, e := range c.data {
		if oldest == "" || e.exp.Before(oldestExp) {
			oldest, oldestExp = k, e.exp
		}
	}
	delete(c.data, oldest)
}
