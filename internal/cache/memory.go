package cache

import (
	"context"
	"sync"
	"time"
)

// Expired short-link entries are dropped lazily on read and swept in bulk on
// this interval. Resolution TTLs are measured in hours, so a coarse sweep is
// enough to keep the map from growing across long batch runs.
const sweepInterval = time.Minute

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache is the in-process fallback used when no Redis address is
// configured. It memoizes short-link resolutions for the lifetime of one run.
type MemoryCache struct {
	mu     sync.RWMutex
	items  map[string]entry
	done   chan struct{}
	closed sync.Once
}

func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		items: make(map[string]entry),
		done:  make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if e.expired(time.Now()) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := entry{value: make([]byte, len(value))}
	copy(e.value, value)
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = e
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Close() error {
	c.closed.Do(func() {
		close(c.done)
	})
	return nil
}

func (c *MemoryCache) sweep() {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-c.done:
			return
		case now := <-t.C:
			c.mu.Lock()
			for k, e := range c.items {
				if e.expired(now) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
