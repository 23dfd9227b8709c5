package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/couchcryptid/nyc-building-report/internal/cache"
	"github.com/couchcryptid/nyc-building-report/internal/domain"
	"github.com/couchcryptid/nyc-building-report/internal/observability"
	"github.com/google/uuid"
)

// ErrSuperseded is returned when a newer search started on the same session
// before this one finished. The superseded report is discarded.
var ErrSuperseded = errors.New("search superseded by a newer search")

// ReportSearcher produces a report for one request.
type ReportSearcher interface {
	Search(ctx context.Context, req SearchRequest) (domain.BuildingReport, error)
}

// Session holds the visible report for one client. The latest search wins:
// a search publishes its report only if no newer search has started since.
type Session struct {
	id       string
	searcher ReportSearcher

	mu         sync.Mutex
	generation uint64
	current    *domain.BuildingReport
}

// NewSession creates an empty session.
func NewSession(id string, searcher ReportSearcher) *Session {
	return &Session{id: id, searcher: searcher}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Search starts a new generation, clears the visible report, and runs the
// search. In-flight work from older generations is allowed to finish but its
// result is dropped with ErrSuperseded.
func (s *Session) Search(ctx context.Context, req SearchRequest) (domain.BuildingReport, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.current = nil
	s.mu.Unlock()

	report, err := s.searcher.Search(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return domain.BuildingReport{}, ErrSuperseded
	}
	if err != nil {
		return domain.BuildingReport{}, err
	}
	s.current = &report
	return report, nil
}

// Current returns the visible report, if any.
func (s *Session) Current() (domain.BuildingReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.BuildingReport{}, false
	}
	return *s.current, true
}

// SessionStore keeps a bounded set of sessions, evicting the least recently used.
type SessionStore struct {
	searcher ReportSearcher
	sessions *cache.LRU[string, *Session]
	metrics  *observability.Metrics
}

// NewSessionStore creates a store holding at most size sessions. The
// ActiveSessions gauge follows creations and evictions.
func NewSessionStore(searcher ReportSearcher, size int, metrics *observability.Metrics) *SessionStore {
	sessions := cache.NewLRU[string, *Session](size)
	sessions.OnEvict(func(string, *Session) {
		metrics.ActiveSessions.Dec()
	})
	return &SessionStore{
		searcher: searcher,
		sessions: sessions,
		metrics:  metrics,
	}
}

// Get returns an existing session.
func (st *SessionStore) Get(id string) (*Session, bool) {
	return st.sessions.Get(id)
}

// GetOrCreate returns the session for id, creating it when missing. An empty
// id mints a new random one.
func (st *SessionStore) GetOrCreate(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	s, found := st.sessions.GetOrPut(id, func() *Session {
		return NewSession(id, st.searcher)
	})
	if !found {
		st.metrics.ActiveSessions.Inc()
	}
	return s
}
