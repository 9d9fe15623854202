package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/repocard/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.CacheStore  = (*CacheRepo)(nil)
	_ driven.CachePurger = (*CacheRepo)(nil)
)

// CacheRepo is the SQLite implementation of the CacheStore port interface.
// Expiry is stored as Unix milliseconds; 0 means the entry never expires.
type CacheRepo struct {
	db  *DB
	now func() time.Time
}

// NewCacheRepo creates a new CacheRepo backed by the given DB.
func NewCacheRepo(db *DB) *CacheRepo {
	return &CacheRepo{db: db, now: time.Now}
}

// Get retrieves a cached payload. Expired rows are reported as a miss and
// left for PurgeExpired.
func (r *CacheRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `
		SELECT payload
		FROM card_cache
		WHERE cache_key = ? AND (expires_at = 0 OR expires_at > ?)
	`

	var payload []byte

	err := r.db.Reader.QueryRowContext(ctx, query, key, r.now().UnixMilli()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cache entry %s: %w", key, err)
	}

	return payload, true, nil
}

// Set inserts or replaces a cached payload. A non-positive ttl stores the
// entry without expiry.
func (r *CacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	const query = `
		INSERT INTO card_cache (cache_key, payload, expires_at, stored_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			payload = excluded.payload,
			expires_at = excluded.expires_at,
			stored_at = excluded.stored_at
	`

	now := r.now()
	var expiresAt int64
	if ttl > 0 {
		expiresAt = now.Add(ttl).UnixMilli()
	}

	_, err := r.db.Writer.ExecContext(ctx, query, key, value, expiresAt, now.UnixMilli())
	if err != nil {
		return fmt.Errorf("set cache entry %s: %w", key, err)
	}

	return nil
}

// PurgeExpired deletes every expired row and returns the number removed.
func (r *CacheRepo) PurgeExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM card_cache WHERE expires_at != 0 AND expires_at <= ?`

	result, err := r.db.Writer.ExecContext(ctx, query, r.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purge expired cache entries: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge expired cache entries: %w", err)
	}

	return n, nil
}
