// Package github implements the RepositoryFetcher port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/repocard/internal/domain/model"
	"github.com/ericfisherdev/repocard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RepositoryFetcher = (*Client)(nil)

const userAgent = "repocard"

// Client implements the driven.RepositoryFetcher port using the go-github library.
// Requests are unauthenticated and subject to GitHub's anonymous rate limit.
type Client struct {
	gh      *gh.Client
	timeout time.Duration
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client, no auth)
//
// baseURL may be empty for https://api.github.com/. timeout bounds each
// FetchRepository call; zero disables the bound.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)

	return NewClientWithHTTPClient(rateLimitClient, baseURL, timeout)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// Tests use it to point the client at an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, timeout time.Duration) (*Client, error) {
	client := gh.NewClient(httpClient)
	client.UserAgent = userAgent

	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing base URL: %w", err)
		}
		client.BaseURL = u
	}

	return &Client{
		gh:      client,
		timeout: timeout,
	}, nil
}

// FetchRepository retrieves repository metadata and the first page of
// contributors, merging them into one record. The metadata call is mandatory;
// the contributors call is best-effort and yields a count of 0 on any failure.
func (c *Client) FetchRepository(ctx context.Context, ref model.RepositoryReference) (model.RepositoryRecord, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	repo, resp, err := c.gh.Repositories.Get(ctx, ref.Owner, ref.Name)
	if err != nil {
		return model.RepositoryRecord{}, fmt.Errorf("fetching repository %s: %w: %w", ref.FullName(), classify(resp), err)
	}

	logRateLimit(resp, ref.FullName(), 1)

	if repo.GetName() == "" {
		return model.RepositoryRecord{}, fmt.Errorf("fetching repository %s: empty payload: %w", ref.FullName(), model.ErrNotFound)
	}

	record := mapRepository(repo, ref)
	record.ContributorCount = c.countContributors(ctx, ref)

	return record, nil
}

// countContributors returns the number of contributors on the first page.
// Failures are logged and reported as zero.
func (c *Client) countContributors(ctx context.Context, ref model.RepositoryReference) int {
	contributors, resp, err := c.gh.Repositories.ListContributors(ctx, ref.Owner, ref.Name, nil)
	if err != nil {
		slog.Debug("contributors lookup failed",
			"repo", ref.FullName(),
			"error", err,
		)
		return 0
	}

	logRateLimit(resp, ref.FullName()+"/contributors", len(contributors))

	return len(contributors)
}

// classify maps a failed go-github call to a domain sentinel. A response with a
// non-success status means the repository is missing or inaccessible; anything
// else (no response, or a 2xx body that failed to decode) is a transport failure.
func classify(resp *gh.Response) error {
	if resp != nil && resp.Response != nil {
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return model.ErrNotFound
		}
	}
	return model.ErrTransport
}

// mapRepository converts a go-github Repository to a domain RepositoryRecord.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapRepository(repo *gh.Repository, ref model.RepositoryReference) model.RepositoryRecord {
	return model.RepositoryRecord{
		URL:            ref.URL(),
		HTMLURL:        repo.GetHTMLURL(),
		Name:           repo.GetName(),
		OwnerLogin:     repo.GetOwner().GetLogin(),
		OwnerAvatarURL: repo.GetOwner().GetAvatarURL(),
		Description:    repo.GetDescription(),
		StarCount:      repo.GetStargazersCount(),
		WatcherCount:   repo.GetWatchersCount(),
		ForkCount:      repo.GetForksCount(),
		OpenIssueCount: repo.GetOpenIssuesCount(),
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 10 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
