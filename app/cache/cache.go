package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const DefaultTTL = 5 * time.Minute

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache memoizes producer results per key until their expiry. Concurrent
// misses for the same key share a single producer call.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	now        Clock
	defaultTTL time.Duration
	group      singleflight.Group
}

func New(defaultTTL time.Duration) *Cache {
	return NewWithClock(defaultTTL, time.Now)
}

func NewWithClock(defaultTTL time.Duration, now Clock) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries:    make(map[string]entry),
		now:        now,
		defaultTTL: defaultTTL,
	}
}

// Get returns the live value stored under key.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !e.expiresAt.After(c.now()) {
		return nil, false
	}
	return e.value, true
}

// Set replaces the value stored under key. A non-positive ttl selects the
// cache default.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Do returns the live value for key, or runs producer, stores its result
// and returns it. Producer errors are returned and nothing is stored.
//
// The producer is shared by every caller missing on key, so it runs without
// the caller's cancellation and finishes even if that caller goes away. A
// caller whose ctx is done stops waiting and gets ctx.Err().
func (c *Cache) Do(ctx context.Context, key string, ttl time.Duration, producer func(context.Context) (any, error)) (any, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// another caller may have stored it between Get and DoChan
		if value, ok := c.Get(key); ok {
			return value, nil
		}

		value, err := producer(detached)
		if err != nil {
			return nil, err
		}
		c.Set(key, value, ttl)
		return value, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cached is the typed form of Cache.Do.
func Cached[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, producer func(context.Context) (T, error)) (T, error) {
	value, err := c.Do(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return producer(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	typed, _ := value.(T)
	return typed, nil
}

// Prune drops expired entries and returns how many were removed.
func (c *Cache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if !e.expiresAt.After(now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	live := 0
	now := c.now()
	for _, e := range c.entries {
		if e.expiresAt.After(now) {
			live++
		}
	}

	return map[string]interface{}{
		"entries":     len(c.entries),
		"live":        live,
		"default_ttl": c.defaultTTL.String(),
	}
}
