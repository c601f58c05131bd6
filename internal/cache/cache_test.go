package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.cur = c.cur.Add(d)
	c.mu.Unlock()
}

func TestCache(t *testing.T) {
	t.Run("get and set", func(t *testing.T) {
		c := New[string]()
		c.Set("a", "alpha", time.Minute)

		v, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, "alpha", v)

		_, ok = c.Get("missing")
		assert.False(t, ok)
	})

	t.Run("expiry", func(t *testing.T) {
		clk := &clock{cur: time.Unix(1000, 0)}
		c := New[int]()
		c.now = clk.now

		c.Set("k", 1, time.Second)
		_, ok := c.Get("k")
		assert.True(t, ok)

		clk.advance(2 * time.Second)
		_, ok = c.Get("k")
		assert.False(t, ok)
	})

	t.Run("non-positive ttl is ignored", func(t *testing.T) {
		c := New[int]()
		c.Set("k", 1, 0)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("bounded eviction prefers expired then soonest expiry", func(t *testing.T) {
		clk := &clock{cur: time.Unix(1000, 0)}
		c := NewBounded[int](2)
		c.now = clk.now

		c.Set("short", 1, time.Second)
		c.Set("long", 2, time.Hour)
		c.Set("third", 3, time.Minute)

		assert.Equal(t, 2, c.Len())
		_, ok := c.Get("short")
		assert.False(t, ok, "entry closest to expiry should be evicted")
		_, ok = c.Get("long")
		assert.True(t, ok)

		clk.advance(2 * time.Minute)
		c.Set("fourth", 4, time.Minute)
		_, ok = c.Get("long")
		assert.True(t, ok, "expired entry should be evicted before live ones")
		_, ok = c.Get("fourth")
		assert.True(t, ok)
	})

	t.Run("overwrite does not evict", func(t *testing.T) {
		c := NewBounded[int](1)
		c.Set("k", 1, time.Minute)
		c.Set("k", 2, time.Minute)

		v, ok := c.Get("k")
		assert.True(t, ok)
		assert.Equal(t, 2, v)
	})

	t.Run("delete and purge", func(t *testing.T) {
		c := New[int]()
		c.Set("a", 1, time.Minute)
		c.Set("b", 2, time.Minute)

		c.Delete("a")
		_, ok := c.Get("a")
		assert.False(t, ok)
		assert.Equal(t, 1, c.Len())

		c.Purge()
		assert.Equal(t, 0, c.Len())
	})

	t.Run("concurrent access", func(t *testing.T) {
		c := NewBounded[int](50)
		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := range 100 {
					key := string(rune('a' + (i+j)%26))
					c.Set(key, j, time.Minute)
					c.Get(key)
				}
			}(i)
		}
		wg.Wait()
		assert.LessOrEqual(t, c.Len(), 50)
	})
}
