package usecase

import (
	"slices"
	"sync"

	"github.com/nguyentranbao-ct/shopping-search/internal/models"
)

const maxRecentQueries = 10

// Snapshot is a consistent copy of a session's state. ResultsQuery names the
// query Results belong to; while a search is in flight CurrentQuery already
// holds the new query and Results still belong to ResultsQuery.
type Snapshot struct {
	SessionID     string           `json:"session_id"`
	CurrentQuery  string           `json:"current_query"`
	InFlight      bool             `json:"in_flight"`
	RecentQueries []string         `json:"recent_queries"`
	ResultsQuery  string           `json:"results_query"`
	Results       []models.Product `json:"results"`
}

// Session is the search state of one user interaction. Only the Orchestrator
// that created it mutates it; anyone holding it may read or subscribe.
type Session struct {
	id string

	mu            sync.RWMutex
	currentQuery  string
	inFlight      bool
	recentQueries []string
	resultsQuery  string
	results       []models.Product
	// owner is the user whose history recentQueries reflects, empty while
	// signed out. It is not part of the snapshot.
	owner string

	obsMu     sync.Mutex
	observers map[int]func(Snapshot)
	nextObs   int
}

func newSession(id string) *Session {
	return &Session{
		id:            id,
		recentQueries: []string{},
		results:       []models.Product{},
		observers:     make(map[int]func(Snapshot)),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID:     s.id,
		CurrentQuery:  s.currentQuery,
		InFlight:      s.inFlight,
		RecentQueries: slices.Clone(s.recentQueries),
		ResultsQuery:  s.resultsQuery,
		Results:       slices.Clone(s.results),
	}
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs on the mutating goroutine and must not block.
func (s *Session) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Session) update(mutate func()) {
	s.updateIf(func() bool {
		mutate()
		return true
	})
}

// updateIf notifies observers only when mutate reports a change.
func (s *Session) updateIf(mutate func() bool) bool {
	s.mu.Lock()
	changed := mutate()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	if !changed {
		return false
	}

	s.obsMu.Lock()
	observers := make([]func(Snapshot), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
	return true
}

func (s *Session) begin(query string) {
	s.update(func() {
		s.inFlight = true
		s.currentQuery = query
	})
}

// commit is the single point where a search publishes its results. It
// restores currentQuery so a clear that landed mid-search cannot leave
// results paired with a different query.
func (s *Session) commit(query string, results []models.Product) {
	s.update(func() {
		s.currentQuery = query
		s.resultsQuery = query
		s.results = results
		s.inFlight = false
	})
}

func (s *Session) setOwner(owner string) {
	s.mu.Lock()
	s.owner = owner
	s.mu.Unlock()
}

// pushRecent records query for owner. It is dropped when the session no
// longer belongs to owner, e.g. after a sign-out during the history append.
func (s *Session) pushRecent(owner, query string) bool {
	return s.updateIf(func() bool {
		if s.owner != owner {
			return false
		}
		s.recentQueries = pushRecent(s.recentQueries, query)
		return true
	})
}

// setRecent replaces the recent queries with owner's stored history, unless
// the identity changed while it was loading.
func (s *Session) setRecent(owner string, queries []string) bool {
	return s.updateIf(func() bool {
		if s.owner != owner {
			return false
		}
		s.recentQueries = distinctRecent(queries)
		return true
	})
}

func (s *Session) signOut() {
	s.update(func() {
		s.owner = ""
		s.recentQueries = []string{}
	})
}

func (s *Session) clear() {
	s.update(func() {
		s.currentQuery = ""
		s.resultsQuery = ""
		s.results = []models.Product{}
	})
}

// pushRecent moves query to the front, dropping an exact duplicate, and caps
// the list.
func pushRecent(recent []string, query string) []string {
	out := make([]string, 0, len(recent)+1)
	out = append(out, query)
	for _, q := range recent {
		if q != query {
			out = append(out, q)
		}
	}
	if len(out) > maxRecentQueries {
		out = out[:maxRecentQueries]
	}
	return out
}

// distinctRecent keeps the first occurrence of each query in store order.
func distinctRecent(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	out := make([]string, 0, min(len(queries), maxRecentQueries))
	for _, q := range queries {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
		if len(out) == maxRecentQueries {
			break
		}
	}
	return out
}
