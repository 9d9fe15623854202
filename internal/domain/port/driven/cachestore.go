package driven

import (
	"context"
	"time"
)

// CacheStore defines the driven port for the TTL key-value store backing the
// card cache. Get returns (nil, false, nil) on a miss or an expired entry.
// Implementations must be safe for concurrent use.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachePurger is implemented by stores that keep expired entries around until
// they are swept. Stores with native key expiry (Redis) do not implement it.
type CachePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}
