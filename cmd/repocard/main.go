package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/repocard/internal/adapter/driven/github"
	httphandler "github.com/ericfisherdev/repocard/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/repocard/internal/adapter/driving/web"
	"github.com/ericfisherdev/repocard/internal/application"
	"github.com/ericfisherdev/repocard/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"cache_backend", cfg.CacheBackend,
		"cache_ttl", cfg.CacheTTL,
		"fetch_timeout", cfg.FetchTimeout,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the cache backend.
	cache, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := cache.close(); closeErr != nil {
			slog.Error("error closing cache", "error", closeErr)
		}
	}()

	// 4. Start the expiry janitor for backends without native TTL.
	if cache.purger != nil {
		janitor := application.NewCacheJanitor(cache.purger, cfg.PurgeInterval, slog.Default())
		go janitor.Start(ctx)
	}

	// 5. Create GitHub client (unauthenticated).
	ghClient, err := githubadapter.NewClient(cfg.GitHubAPIURL, cfg.FetchTimeout)
	if err != nil {
		return err
	}

	// 6. Create services.
	cachedFetcher := application.NewCachedFetcher(cache.store, ghClient, slog.Default())
	cardSvc := application.NewCardService(cachedFetcher, ghClient, cfg.CacheTTL, slog.Default())
	sessions := application.NewEditorSessions(ghClient, application.SessionLimits{
		IdleTTL:     cfg.SessionIdleTTL,
		MaxSessions: cfg.MaxSessions,
	}, slog.Default())

	// Sweep idle editor sessions once per idle TTL.
	sessionJanitor := application.NewCacheJanitor(sessions, cfg.SessionIdleTTL, slog.Default().With("janitor", "editor_sessions"))
	go sessionJanitor.Start(ctx)

	// 7. Create HTTP handler and register API routes.
	apiHandler := httphandler.NewHandler(cardSvc, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	// 8. Create web handler and register GUI routes.
	webHandler := webhandler.NewHandler(cardSvc, sessions, cfg.IconBaseURL, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("repocard started",
		"listen_addr", cfg.ListenAddr,
		"cache_backend", cfg.CacheBackend,
	)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
