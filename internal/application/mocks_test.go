package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/repocard/internal/domain/model"
)

// --- Mock implementations ---

type mockFetcher struct {
	mu      sync.Mutex
	calls   []model.RepositoryReference
	fetchFn func(ctx context.Context, ref model.RepositoryReference) (model.RepositoryRecord, error)
}

func (m *mockFetcher) FetchRepository(ctx context.Context, ref model.RepositoryReference) (model.RepositoryRecord, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ref)
	m.mu.Unlock()
	return m.fetchFn(ctx, ref)
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// staticFetcher returns a fetcher that always answers with record.
func staticFetcher(record model.RepositoryRecord) *mockFetcher {
	return &mockFetcher{fetchFn: func(_ context.Context, _ model.RepositoryReference) (model.RepositoryRecord, error) {
		return record, nil
	}}
}

// failingFetcher returns a fetcher that always fails with err.
func failingFetcher(err error) *mockFetcher {
	return &mockFetcher{fetchFn: func(_ context.Context, _ model.RepositoryReference) (model.RepositoryRecord, error) {
		return model.RepositoryRecord{}, err
	}}
}

type failingStore struct {
	getErr error
	setErr error
	sets   int
}

func (s *failingStore) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, s.getErr
}

func (s *failingStore) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	s.sets++
	return s.setErr
}

type mockPurger struct {
	mu      sync.Mutex
	calls   int
	removed int64
	err     error
}

func (p *mockPurger) PurgeExpired(_ context.Context) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.removed, p.err
}

func (p *mockPurger) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// --- Test helpers ---

var errBoom = errors.New("boom")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func helloWorldRecord() model.RepositoryRecord {
	return model.RepositoryRecord{
		URL:              "https://github.com/octocat/Hello-World",
		HTMLURL:          "https://github.com/octocat/Hello-World",
		Name:             "Hello-World",
		OwnerLogin:       "octocat",
		OwnerAvatarURL:   "https://avatars.githubusercontent.com/u/583231",
		Description:      "My first repository on GitHub!",
		StarCount:        80,
		WatcherCount:     80,
		ForkCount:        45,
		OpenIssueCount:   0,
		ContributorCount: 2,
	}
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
