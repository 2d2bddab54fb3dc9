package cache

import (
	"context"
	"time"
)

// Cache stores small byte values with an optional TTL. Used to memoize
// short-link redirect resolutions across pipeline runs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
