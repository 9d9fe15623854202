package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/repocard/internal/domain/port/driven"
)

// CacheJanitor periodically removes expired entries from stores that do not
// expire keys on their own, and idle sessions from the editor registry.
type CacheJanitor struct {
	purger   driven.CachePurger
	interval time.Duration
	logger   *slog.Logger
}

// NewCacheJanitor creates a janitor that purges every interval.
func NewCacheJanitor(purger driven.CachePurger, interval time.Duration, logger *slog.Logger) *CacheJanitor {
	return &CacheJanitor{
		purger:   purger,
		interval: interval,
		logger:   logger,
	}
}

// Start runs a purge on every tick until the context is canceled.
func (j *CacheJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("cache janitor stopped")
			return
		case <-ticker.C:
			j.PurgeOnce(ctx)
		}
	}
}

// PurgeOnce runs a single purge and logs the outcome.
func (j *CacheJanitor) PurgeOnce(ctx context.Context) {
	removed, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		j.logger.Error("cache purge failed", "error", err)
		return
	}
	if removed > 0 {
		j.logger.Debug("cache purged", "removed", removed)
	}
}
