package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/repocard/internal/domain/model"
	"github.com/ericfisherdev/repocard/internal/domain/port/driven"
)

// CardService joins URL validation, fetching, caching and rendering for the
// two callers of the pipeline: published pages (cached) and previews (uncached).
type CardService struct {
	cache  *CachedFetcher
	live   driven.RepositoryFetcher
	ttl    time.Duration
	logger *slog.Logger
}

// NewCardService creates a CardService. live is the uncached fetcher the cache
// wraps; a non-positive ttl falls back to DefaultCacheTTL.
func NewCardService(cache *CachedFetcher, live driven.RepositoryFetcher, ttl time.Duration, logger *slog.Logger) *CardService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CardService{
		cache:  cache,
		live:   live,
		ttl:    ttl,
		logger: logger,
	}
}

// Render resolves the persisted attributes of a block into a render state,
// serving the record from the cache when possible.
func (s *CardService) Render(ctx context.Context, attrs model.BlockAttributes) model.RenderState {
	ref, err := model.ParseRepositoryURL(attrs.RepoURL)
	if err != nil {
		return model.ErrorState(err)
	}

	record, err := s.cache.GetOrFetch(ctx, ref, s.ttl)
	if err != nil {
		s.logger.Warn("card render failed", "repo", ref.FullName(), "error", err)
		return model.ErrorState(err)
	}

	return model.ReadyState(record, attrs.Display)
}

// Preview resolves a URL without touching the cache.
func (s *CardService) Preview(ctx context.Context, rawURL string, display model.DisplayConfig) model.RenderState {
	ref, err := model.ParseRepositoryURL(rawURL)
	if err != nil {
		return model.ErrorState(err)
	}

	record, err := s.live.FetchRepository(ctx, ref)
	if err != nil {
		s.logger.Info("card preview failed", "repo", ref.FullName(), "error", err)
		return model.ErrorState(err)
	}

	return model.ReadyState(record, display)
}

// Card renders the cached card view for a URL and display config.
func (s *CardService) Card(ctx context.Context, rawURL string, display model.DisplayConfig) model.CardView {
	return RenderCard(s.Render(ctx, model.BlockAttributes{RepoURL: rawURL, Display: display}))
}
