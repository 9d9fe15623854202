package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/repocard/internal/domain/model"
	"github.com/ericfisherdev/repocard/internal/domain/port/driven"
)

// EditorPhase is the live preview state of one block.
type EditorPhase string

const (
	PhaseIdle       EditorPhase = "idle"
	PhaseValidating EditorPhase = "validating"
	PhaseFetching   EditorPhase = "fetching"
	PhaseError      EditorPhase = "error"
	PhaseReady      EditorPhase = "ready"
)

// EditorSnapshot is a consistent copy of a session's state.
type EditorSnapshot struct {
	Phase         EditorPhase
	Attributes    model.BlockAttributes
	InputDisabled bool
	Card          model.CardView
}

// EditorSession drives the live preview of one block. Every URL change is
// validated and fetched independently and uncached. A completed fetch is
// applied only if the block's current URL still equals the URL it was issued
// for, so an older, slower response never overwrites newer input.
type EditorSession struct {
	fetcher driven.RepositoryFetcher
	logger  *slog.Logger

	mu        sync.Mutex
	attrs     model.BlockAttributes
	phase     EditorPhase
	errorKind model.ErrorKind
	inflight  chan struct{} // closed when the current URL's fetch settles
}

// NewEditorSession creates an idle session with default attributes.
func NewEditorSession(fetcher driven.RepositoryFetcher, logger *slog.Logger) *EditorSession {
	return &EditorSession{
		fetcher: fetcher,
		logger:  logger,
		attrs:   model.DefaultBlockAttributes(),
		phase:   PhaseIdle,
	}
}

// IdleSnapshot is the state of a block that has never been edited.
func IdleSnapshot() EditorSnapshot {
	return EditorSnapshot{
		Phase:      PhaseIdle,
		Attributes: model.DefaultBlockAttributes(),
		Card:       IdleCard(),
	}
}

// SetURL records rawURL as the block's current input, validates it and, if
// valid, fetches the repository. It blocks until the fetch completes and
// reports whether its result was applied; false means a newer URL superseded
// this call and its result was discarded.
//
// An empty URL returns the block to idle. An invalid URL moves to the error
// phase immediately, without a network call, and clears all record fields.
func (s *EditorSession) SetURL(ctx context.Context, rawURL string) bool {
	s.mu.Lock()
	s.attrs.RepoURL = rawURL
	s.inflight = nil
	if rawURL == "" {
		s.phase = PhaseIdle
		s.errorKind = ""
		s.attrs.ErrorMessage = ""
		s.attrs.ResetRecord()
		s.mu.Unlock()
		return true
	}
	done := make(chan struct{})
	s.inflight = done
	s.phase = PhaseValidating
	s.mu.Unlock()
	defer s.settle(done)

	ref, err := model.ParseRepositoryURL(rawURL)

	s.mu.Lock()
	if s.attrs.RepoURL != rawURL {
		s.mu.Unlock()
		return false
	}
	if err != nil {
		s.failLocked(err)
		s.mu.Unlock()
		return true
	}
	s.phase = PhaseFetching
	s.mu.Unlock()

	record, err := s.fetcher.FetchRepository(ctx, ref)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attrs.RepoURL != rawURL {
		s.logger.Debug("discarding stale preview result", "url", rawURL, "current", s.attrs.RepoURL)
		return false
	}

	if err != nil {
		s.logger.Info("preview fetch failed", "repo", ref.FullName(), "error", err)
		s.failLocked(err)
		return true
	}

	s.phase = PhaseReady
	s.errorKind = ""
	s.attrs.Record = record
	s.attrs.ErrorMessage = ""
	return true
}

// settle releases Wait callers once the update that created done has been
// applied or discarded.
func (s *EditorSession) settle(done chan struct{}) {
	s.mu.Lock()
	if s.inflight == done {
		s.inflight = nil
	}
	s.mu.Unlock()
	close(done)
}

// Wait blocks until no validation or fetch is pending for the block's current
// URL, so a following Snapshot reflects the settled result. It returns the
// context's error if ctx ends first.
func (s *EditorSession) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		done := s.inflight
		s.mu.Unlock()
		if done == nil {
			return nil
		}

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// SetDisplay replaces the block's visibility toggles. It never fetches.
func (s *EditorSession) SetDisplay(display model.DisplayConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs.Display = display
}

// Snapshot returns the current phase, attributes and rendered card.
func (s *EditorSession) Snapshot() EditorSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return EditorSnapshot{
		Phase:         s.phase,
		Attributes:    s.attrs,
		InputDisabled: s.phase == PhaseFetching,
		Card:          s.cardLocked(),
	}
}

// failLocked moves to the error phase and clears the record. Callers hold mu.
func (s *EditorSession) failLocked(err error) {
	kind := model.ClassifyError(err)
	s.phase = PhaseError
	s.errorKind = kind
	s.attrs.ErrorMessage = kind.Message()
	s.attrs.ResetRecord()
}

func (s *EditorSession) cardLocked() model.CardView {
	switch s.phase {
	case PhaseIdle:
		return IdleCard()
	case PhaseValidating, PhaseFetching:
		return RenderCard(model.LoadingState())
	case PhaseError:
		return RenderCard(model.ErrorStateForKind(s.errorKind))
	default:
		return RenderCard(model.ReadyState(s.attrs.Record, s.attrs.Display))
	}
}

// SessionLimits bounds the memory held by an EditorSessions registry.
type SessionLimits struct {
	// IdleTTL is how long a session may go untouched before PurgeExpired
	// removes it. Zero keeps sessions until evicted by MaxSessions.
	IdleTTL time.Duration
	// MaxSessions caps the registry; creating a session beyond it evicts the
	// least recently touched one. Zero means no cap.
	MaxSessions int
}

// DefaultSessionLimits returns a 30 minute idle TTL and a 1024 session cap.
func DefaultSessionLimits() SessionLimits {
	return SessionLimits{IdleTTL: 30 * time.Minute, MaxSessions: 1024}
}

var _ driven.CachePurger = (*EditorSessions)(nil)

type sessionEntry struct {
	session *EditorSession
	touched time.Time
}

// EditorSessions is a concurrency-safe registry of live preview sessions keyed
// by block ID.
type EditorSessions struct {
	fetcher driven.RepositoryFetcher
	limits  SessionLimits
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewEditorSessions creates an empty registry whose sessions fetch through fetcher.
func NewEditorSessions(fetcher driven.RepositoryFetcher, limits SessionLimits, logger *slog.Logger) *EditorSessions {
	return NewEditorSessionsWithClock(fetcher, limits, logger, time.Now)
}

// NewEditorSessionsWithClock is NewEditorSessions with an injectable clock.
func NewEditorSessionsWithClock(fetcher driven.RepositoryFetcher, limits SessionLimits, logger *slog.Logger, now func() time.Time) *EditorSessions {
	return &EditorSessions{
		fetcher:  fetcher,
		limits:   limits,
		logger:   logger,
		now:      now,
		sessions: make(map[string]*sessionEntry),
	}
}

// Get returns the session for blockID, creating it on first use.
func (r *EditorSessions) Get(blockID string) *EditorSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if e, ok := r.sessions[blockID]; ok {
		e.touched = now
		return e.session
	}

	if r.limits.MaxSessions > 0 && len(r.sessions) >= r.limits.MaxSessions {
		r.evictOldestLocked()
	}

	s := NewEditorSession(r.fetcher, r.logger.With("block", blockID))
	r.sessions[blockID] = &sessionEntry{session: s, touched: now}
	return s
}

// Lookup returns the session for blockID without creating one.
func (r *EditorSessions) Lookup(blockID string) (*EditorSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[blockID]
	if !ok {
		return nil, false
	}
	e.touched = r.now()
	return e.session, true
}

// Delete forgets the session for blockID.
func (r *EditorSessions) Delete(blockID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, blockID)
}

// Len returns the number of live sessions.
func (r *EditorSessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// PurgeExpired removes sessions untouched for longer than the idle TTL. It
// satisfies driven.CachePurger so a CacheJanitor can sweep the registry.
func (r *EditorSessions) PurgeExpired(_ context.Context) (int64, error) {
	if r.limits.IdleTTL <= 0 {
		return 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.limits.IdleTTL)
	var removed int64
	for id, e := range r.sessions {
		if e.touched.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// evictOldestLocked drops the least recently touched session. Callers hold mu.
func (r *EditorSessions) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
		found    bool
	)
	for id, e := range r.sessions {
		if !found || e.touched.Before(oldest) {
			oldestID, oldest, found = id, e.touched, true
		}
	}
	if found {
		delete(r.sessions, oldestID)
		r.logger.Debug("evicted editor session", "block", oldestID)
	}
}
