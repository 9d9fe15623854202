package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/repocard/internal/adapter/driven/memory"
	redisadapter "github.com/ericfisherdev/repocard/internal/adapter/driven/redis"
	sqliteadapter "github.com/ericfisherdev/repocard/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/repocard/internal/config"
	"github.com/ericfisherdev/repocard/internal/domain/port/driven"
)

// cacheBackend bundles the configured store with its optional purger and
// the cleanup to run on shutdown.
type cacheBackend struct {
	store  driven.CacheStore
	purger driven.CachePurger
	close  func() error
}

func openCache(ctx context.Context, cfg *config.Config) (*cacheBackend, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendSQLite:
		// Open database (dual reader/writer with WAL mode).
		db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		slog.Info("database opened", "path", db.Path())

		// Run migrations on writer connection.
		version, err := sqliteadapter.RunMigrations(db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		slog.Info("migrations complete", "schema_version", version)

		repo := sqliteadapter.NewCacheRepo(db)
		return &cacheBackend{store: repo, purger: repo, close: db.Close}, nil

	case config.CacheBackendRedis:
		store, err := redisadapter.NewStore(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		slog.Info("redis connected", "addr", cfg.RedisAddr)

		// Redis expires keys natively; no purger.
		return &cacheBackend{store: store, close: store.Close}, nil

	case config.CacheBackendMemory:
		store := memory.NewStore()
		return &cacheBackend{store: store, purger: store, close: func() error { return nil }}, nil

	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.CacheBackend)
	}
}
