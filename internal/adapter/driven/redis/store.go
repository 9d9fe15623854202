// Package redis implements the CacheStore port on a Redis server, for
// deployments where several repocard instances share one card cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ericfisherdev/repocard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CacheStore = (*Store)(nil)

// Store keeps cache entries as plain Redis strings; expiry is delegated to
// Redis key TTLs.
type Store struct {
	client *goredis.Client
}

// NewStore connects to the Redis server at addr and verifies it with PING.
func NewStore(ctx context.Context, addr string) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	return &Store{client: client}, nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *goredis.Client) *Store {
	return &Store{client: client}
}

// Get returns the stored value. redis.Nil is reported as a miss.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cache entry %s: %w", key, err)
	}

	return value, true, nil
}

// Set stores value with the given ttl. A non-positive ttl stores the key
// without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}

	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set cache entry %s: %w", key, err)
	}

	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
