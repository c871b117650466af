package cache

import (
	"context"
	"time"
)

// Store is the key-value backend behind the cache-aside accessor.
// Get reports ok=false on a miss; err is reserved for backend failures.
type Store interface {
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	DelPrefix(ctx context.Context, prefix string) error
}
