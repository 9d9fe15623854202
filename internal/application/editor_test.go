package application_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/repocard/internal/application"
	"github.com/ericfisherdev/repocard/internal/domain/model"
)

func TestEditorSession_StartsIdle(t *testing.T) {
	session := application.NewEditorSession(staticFetcher(helloWorldRecord()), discardLogger())

	snap := session.Snapshot()
	assert.Equal(t, application.PhaseIdle, snap.Phase)
	assert.Equal(t, model.DefaultBlockAttributes(), snap.Attributes)
	assert.False(t, snap.InputDisabled)
	assert.Equal(t, model.CardIdle, snap.Card.State)
}

func TestEditorSession_ValidURLBecomesReady(t *testing.T) {
	fetcher := staticFetcher(helloWorldRecord())
	session := application.NewEditorSession(fetcher, discardLogger())

	applied := session.SetURL(context.Background(), "https://github.com/octocat/Hello-World")

	require.True(t, applied)
	snap := session.Snapshot()
	assert.Equal(t, application.PhaseReady, snap.Phase)
	assert.Equal(t, helloWorldRecord(), snap.Attributes.Record)
	assert.Empty(t, snap.Attributes.ErrorMessage)
	assert.Equal(t, model.RenderReady, snap.Card.State)
	assert.Len(t, snap.Card.Stats, 5)
	assert.Equal(t, []model.RepositoryReference{helloWorldRef}, fetcher.calls)
}

func TestEditorSession_InvalidURLResetsWithoutFetching(t *testing.T) {
	fetcher := staticFetcher(helloWorldRecord())
	session := application.NewEditorSession(fetcher, discardLogger())
	ctx := context.Background()

	require.True(t, session.SetURL(ctx, "https://github.com/octocat/Hello-World"))
	require.True(t, session.SetURL(ctx, "not-a-url"))

	snap := session.Snapshot()
	assert.Equal(t, application.PhaseError, snap.Phase)
	assert.Equal(t, "not-a-url", snap.Attributes.RepoURL)
	assert.Equal(t, model.MessageInvalidFormat, snap.Attributes.ErrorMessage)
	assert.True(t, snap.Attributes.Record.IsZero(), "stale record must be cleared")
	assert.Equal(t, model.RenderError, snap.Card.State)
	assert.Empty(t, snap.Card.Stats)
	assert.Equal(t, 1, fetcher.callCount(), "invalid URL must not reach the network")
}

func TestEditorSession_FetchErrorsResetRecord(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"not found", fmt.Errorf("get: %w", model.ErrNotFound), model.MessageNotFound},
		{"transport", fmt.Errorf("get: %w", model.ErrTransport), model.MessageTransport},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok := true
			fetcher := &mockFetcher{fetchFn: func(_ context.Context, _ model.RepositoryReference) (model.RepositoryRecord, error) {
				if ok {
					return helloWorldRecord(), nil
				}
				return model.RepositoryRecord{}, tc.err
			}}
			session := application.NewEditorSession(fetcher, discardLogger())
			ctx := context.Background()

			require.True(t, session.SetURL(ctx, "https://github.com/octocat/Hello-World"))
			ok = false
			require.True(t, session.SetURL(ctx, "https://github.com/octocat/missing"))

			snap := session.Snapshot()
			assert.Equal(t, application.PhaseError, snap.Phase)
			assert.Equal(t, tc.message, snap.Attributes.ErrorMessage)
			assert.Equal(t, tc.message, snap.Card.Message)
			assert.True(t, snap.Attributes.Record.IsZero())
		})
	}
}

func TestEditorSession_EmptyURLReturnsToIdle(t *testing.T) {
	fetcher := staticFetcher(helloWorldRecord())
	session := application.NewEditorSession(fetcher, discardLogger())
	ctx := context.Background()

	require.True(t, session.SetURL(ctx, "https://github.com/octocat/Hello-World"))
	require.True(t, session.SetURL(ctx, ""))

	snap := session.Snapshot()
	assert.Equal(t, application.PhaseIdle, snap.Phase)
	assert.True(t, snap.Attributes.Record.IsZero())
	assert.Equal(t, model.MessageIdle, snap.Card.Message)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestEditorSession_StaleResultIsDiscarded(t *testing.T) {
	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})

	fetcher := &mockFetcher{fetchFn: func(_ context.Context, ref model.RepositoryReference) (model.RepositoryRecord, error) {
		if ref.Name == "slow" {
			close(slowStarted)
			<-releaseSlow
			return model.RepositoryRecord{Name: "slow", OwnerLogin: "acme"}, nil
		}
		return model.RepositoryRecord{Name: ref.Name, OwnerLogin: ref.Owner}, nil
	}}
	session := application.NewEditorSession(fetcher, discardLogger())
	ctx := context.Background()

	var slowApplied bool
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		slowApplied = session.SetURL(ctx, "https://github.com/acme/slow")
	}()

	<-slowStarted
	snap := session.Snapshot()
	assert.Equal(t, application.PhaseFetching, snap.Phase)
	assert.True(t, snap.InputDisabled)
	assert.Equal(t, model.RenderLoading, snap.Card.State)

	require.True(t, session.SetURL(ctx, "https://github.com/acme/fast"))

	close(releaseSlow)
	wg.Wait()

	assert.False(t, slowApplied, "superseded fetch must report it was discarded")
	snap = session.Snapshot()
	assert.Equal(t, application.PhaseReady, snap.Phase)
	assert.Equal(t, "https://github.com/acme/fast", snap.Attributes.RepoURL)
	assert.Equal(t, "fast", snap.Attributes.Record.Name)
	assert.False(t, snap.InputDisabled)
}

func TestEditorSession_SetDisplayDoesNotFetch(t *testing.T) {
	fetcher := staticFetcher(helloWorldRecord())
	session := application.NewEditorSession(fetcher, discardLogger())
	ctx := context.Background()

	require.True(t, session.SetURL(ctx, "https://github.com/octocat/Hello-World"))

	display := model.DefaultDisplayConfig()
	display.ShowForks = false
	session.SetDisplay(display)

	snap := session.Snapshot()
	assert.Equal(t, 1, fetcher.callCount())
	assert.Equal(t, display, snap.Attributes.Display)
	assert.Len(t, snap.Card.Stats, 4)
	assert.NotContains(t, statKeys(snap.Card.Stats), model.IconFork)
}

func TestEditorSessions_GetCreatesOncePerBlock(t *testing.T) {
	sessions := application.NewEditorSessions(staticFetcher(helloWorldRecord()), application.DefaultSessionLimits(), discardLogger())

	a := sessions.Get("block-a")
	assert.Same(t, a, sessions.Get("block-a"))
	assert.NotSame(t, a, sessions.Get("block-b"))
	assert.Equal(t, 2, sessions.Len())

	sessions.Delete("block-a")
	assert.Equal(t, 1, sessions.Len())
	assert.NotSame(t, a, sessions.Get("block-a"))
}

func TestEditorSessions_ConcurrentGet(t *testing.T) {
	sessions := application.NewEditorSessions(staticFetcher(helloWorldRecord()), application.DefaultSessionLimits(), discardLogger())

	const goroutines = 50
	got := make([]*application.EditorSession, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := range goroutines {
		go func() {
			defer wg.Done()
			got[i] = sessions.Get("shared")
		}()
	}
	wg.Wait()

	for _, s := range got {
		assert.Same(t, got[0], s)
	}
}

func TestEditorSession_WaitBlocksUntilFetchSettles(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fetcher := &mockFetcher{fetchFn: func(_ context.Context, _ model.RepositoryReference) (model.RepositoryRecord, error) {
		close(started)
		<-release
		return helloWorldRecord(), nil
	}}
	session := application.NewEditorSession(fetcher, discardLogger())
	ctx := context.Background()

	go session.SetURL(ctx, "https://github.com/octocat/Hello-World")
	<-started

	var waited atomic.Bool
	go func() {
		_ = session.Wait(ctx)
		waited.Store(true)
	}()

	assert.Never(t, waited.Load, 50*time.Millisecond, 5*time.Millisecond)

	close(release)
	assert.Eventually(t, waited.Load, time.Second, 5*time.Millisecond)

	snap := session.Snapshot()
	assert.Equal(t, application.PhaseReady, snap.Phase)
	assert.False(t, snap.InputDisabled)
}

func TestEditorSession_WaitReturnsImmediatelyWhenSettled(t *testing.T) {
	session := application.NewEditorSession(staticFetcher(helloWorldRecord()), discardLogger())
	ctx := context.Background()

	require.NoError(t, session.Wait(ctx))
	require.True(t, session.SetURL(ctx, "https://github.com/octocat/Hello-World"))
	require.NoError(t, session.Wait(ctx))
}

func TestEditorSession_WaitHonorsContext(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	fetcher := &mockFetcher{fetchFn: func(_ context.Context, _ model.RepositoryReference) (model.RepositoryRecord, error) {
		close(started)
		<-release
		return helloWorldRecord(), nil
	}}
	session := application.NewEditorSession(fetcher, discardLogger())

	go session.SetURL(context.Background(), "https://github.com/octocat/Hello-World")
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, session.Wait(ctx), context.DeadlineExceeded)
}

func TestEditorSessions_LookupDoesNotCreate(t *testing.T) {
	sessions := application.NewEditorSessions(staticFetcher(helloWorldRecord()), application.DefaultSessionLimits(), discardLogger())

	for i := range 100 {
		_, ok := sessions.Lookup(fmt.Sprintf("block-%d", i))
		assert.False(t, ok)
	}
	assert.Equal(t, 0, sessions.Len())

	created := sessions.Get("block-1")
	got, ok := sessions.Lookup("block-1")
	require.True(t, ok)
	assert.Same(t, created, got)
}

func TestEditorSessions_PurgeExpiredRemovesIdleSessions(t *testing.T) {
	clock := newFakeClock()
	limits := application.SessionLimits{IdleTTL: 30 * time.Minute}
	sessions := application.NewEditorSessionsWithClock(staticFetcher(helloWorldRecord()), limits, discardLogger(), clock.Now)

	sessions.Get("stale")
	clock.Advance(20 * time.Minute)
	sessions.Get("fresh")
	clock.Advance(15 * time.Minute)

	removed, err := sessions.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, ok := sessions.Lookup("stale")
	assert.False(t, ok)
	_, ok = sessions.Lookup("fresh")
	assert.True(t, ok)
}

func TestEditorSessions_LookupKeepsSessionAlive(t *testing.T) {
	clock := newFakeClock()
	limits := application.SessionLimits{IdleTTL: 30 * time.Minute}
	sessions := application.NewEditorSessionsWithClock(staticFetcher(helloWorldRecord()), limits, discardLogger(), clock.Now)

	sessions.Get("block")
	clock.Advance(25 * time.Minute)
	_, ok := sessions.Lookup("block")
	require.True(t, ok)
	clock.Advance(25 * time.Minute)

	removed, err := sessions.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestEditorSessions_CapEvictsLeastRecentlyTouched(t *testing.T) {
	clock := newFakeClock()
	limits := application.SessionLimits{MaxSessions: 3}
	sessions := application.NewEditorSessionsWithClock(staticFetcher(helloWorldRecord()), limits, discardLogger(), clock.Now)

	for _, id := range []string{"a", "b", "c"} {
		sessions.Get(id)
		clock.Advance(time.Second)
	}
	sessions.Get("a")
	clock.Advance(time.Second)

	sessions.Get("d")

	assert.Equal(t, 3, sessions.Len())
	_, ok := sessions.Lookup("b")
	assert.False(t, ok, "least recently touched session must be evicted")
	for _, id := range []string{"a", "c", "d"} {
		_, ok := sessions.Lookup(id)
		assert.True(t, ok, id)
	}
}

func TestEditorSessions_SweptByJanitor(t *testing.T) {
	clock := newFakeClock()
	limits := application.SessionLimits{IdleTTL: time.Minute}
	sessions := application.NewEditorSessionsWithClock(staticFetcher(helloWorldRecord()), limits, discardLogger(), clock.Now)
	sessions.Get("block")
	clock.Advance(2 * time.Minute)

	application.NewCacheJanitor(sessions, time.Hour, discardLogger()).PurgeOnce(context.Background())

	assert.Equal(t, 0, sessions.Len())
}
