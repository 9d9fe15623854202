// Package application contains use-case orchestration services.
package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ericfisherdev/repocard/internal/domain/model"
	"github.com/ericfisherdev/repocard/internal/domain/port/driven"
)

// DefaultCacheTTL is how long a fetched record is served from the cache.
const DefaultCacheTTL = 24 * time.Hour

const cacheKeyPrefix = "repocard"

// CacheKey returns the store key for a repository: a prefix plus the SHA-256
// of the normalized repository URL.
func CacheKey(ref model.RepositoryReference) string {
	sum := sha256.Sum256([]byte(ref.URL()))
	return cacheKeyPrefix + ":" + hex.EncodeToString(sum[:])
}

// CachedFetcher wraps a RepositoryFetcher with a TTL cache to bound the number
// of calls made against GitHub's anonymous rate limit. Concurrent misses for
// the same key are not coalesced; each performs its own fetch.
type CachedFetcher struct {
	store   driven.CacheStore
	fetcher driven.RepositoryFetcher
	logger  *slog.Logger
}

// NewCachedFetcher creates a CachedFetcher with all required dependencies.
func NewCachedFetcher(store driven.CacheStore, fetcher driven.RepositoryFetcher, logger *slog.Logger) *CachedFetcher {
	return &CachedFetcher{
		store:   store,
		fetcher: fetcher,
		logger:  logger,
	}
}

// GetOrFetch returns the cached record for ref, fetching and storing it with
// the given ttl on a miss. Failed fetches are never cached. Store errors are
// logged and degrade to a fetch; they are never returned.
func (c *CachedFetcher) GetOrFetch(ctx context.Context, ref model.RepositoryReference, ttl time.Duration) (model.RepositoryRecord, error) {
	key := CacheKey(ref)

	if record, ok := c.lookup(ctx, key, ref); ok {
		return record, nil
	}

	record, err := c.fetcher.FetchRepository(ctx, ref)
	if err != nil {
		return model.RepositoryRecord{}, err
	}

	payload, err := json.Marshal(record)
	if err != nil {
		c.logger.Error("failed to encode cache entry", "repo", ref.FullName(), "error", err)
		return record, nil
	}

	if err := c.store.Set(ctx, key, payload, ttl); err != nil {
		c.logger.Error("failed to store cache entry", "repo", ref.FullName(), "error", err)
	}

	return record, nil
}

// lookup reads and decodes a cache entry. Undecodable entries count as misses.
func (c *CachedFetcher) lookup(ctx context.Context, key string, ref model.RepositoryReference) (model.RepositoryRecord, bool) {
	payload, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "repo", ref.FullName(), "error", err)
		return model.RepositoryRecord{}, false
	}
	if !ok {
		return model.RepositoryRecord{}, false
	}

	var record model.RepositoryRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		c.logger.Warn("discarding undecodable cache entry", "repo", ref.FullName(), "error", err)
		return model.RepositoryRecord{}, false
	}

	c.logger.Debug("cache hit", "repo", ref.FullName())
	return record, true
}
