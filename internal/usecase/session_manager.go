package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/nguyentranbao-ct/shopping-search/internal/config"
	"github.com/nguyentranbao-ct/shopping-search/internal/identity"
	"github.com/nguyentranbao-ct/shopping-search/internal/models"
	"github.com/nguyentranbao-ct/shopping-search/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/shopping-search/internal/repo/serpapi"
	log "github.com/nguyentranbao-ct/shopping-search/pkg/logger/logctx"
	"github.com/nguyentranbao-ct/shopping-search/pkg/util"
)

type SessionManager interface {
	Create(ctx context.Context, user *models.Identity) *Orchestrator
	Get(sessionID string) (*Orchestrator, error)
	Close(sessionID string) error
	SignIn(ctx context.Context, sessionID string, user models.Identity) error
	SignOut(ctx context.Context, sessionID string) error
	// SignOutUser signs out every session owned by userID and returns how
	// many were affected.
	SignOutUser(ctx context.Context, userID string) int
}

type sessionEntry struct {
	orchestrator *Orchestrator
	holder       *identity.Holder
}

type sessionManager struct {
	deps Dependencies
	opts SearchOptions

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

func NewSessionManager(
	conf *config.Config,
	provider serpapi.Client,
	history mongodb.SearchHistoryRepository,
	cache mongodb.ProductRepository,
) (SessionManager, error) {
	outcomes, err := util.GetCounterVec("search_outcomes_total", "Searches by how their results were produced", "outcome")
	if err != nil {
		return nil, err
	}
	return NewSessionManagerWithDeps(Dependencies{
		Provider: provider,
		Mapper:   serpapi.MapResults,
		History:  history,
		Cache:    cache,
		Outcomes: outcomes,
	}, SearchOptions{
		CountryCode:  conf.Search.CountryCode,
		CacheRegion:  conf.Search.CacheRegion,
		HistoryLimit: conf.Search.HistoryLimit,
	}), nil
}

func NewSessionManagerWithDeps(deps Dependencies, opts SearchOptions) SessionManager {
	return &sessionManager{
		deps:     deps,
		opts:     opts,
		sessions: make(map[string]*sessionEntry),
	}
}

func (m *sessionManager) Create(ctx context.Context, user *models.Identity) *Orchestrator {
	id := uuid.NewString()
	holder := identity.NewHolder(user)
	orch := NewOrchestrator(ctx, id, holder, m.deps, m.opts)

	m.mu.Lock()
	m.sessions[id] = &sessionEntry{orchestrator: orch, holder: holder}
	m.mu.Unlock()

	log.Infow(ctx, "search session created", "session_id", id, "authenticated", user != nil)
	return orch
}

func (m *sessionManager) Get(sessionID string) (*Orchestrator, error) {
	entry, err := m.entry(sessionID)
	if err != nil {
		return nil, err
	}
	return entry.orchestrator, nil
}

func (m *sessionManager) Close(sessionID string) error {
	m.mu.Lock()
	entry, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if !ok {
		return models.ErrNotFound
	}
	entry.orchestrator.Close()
	return nil
}

func (m *sessionManager) SignIn(ctx context.Context, sessionID string, user models.Identity) error {
	entry, err := m.entry(sessionID)
	if err != nil {
		return err
	}
	entry.holder.SignIn(ctx, user)
	return nil
}

func (m *sessionManager) SignOut(ctx context.Context, sessionID string) error {
	entry, err := m.entry(sessionID)
	if err != nil {
		return err
	}
	entry.holder.SignOut(ctx)
	return nil
}

func (m *sessionManager) SignOutUser(ctx context.Context, userID string) int {
	m.mu.RLock()
	var owned []*sessionEntry
	for _, entry := range m.sessions {
		if user := entry.holder.CurrentUser(); user != nil && user.UserID == userID {
			owned = append(owned, entry)
		}
	}
	m.mu.RUnlock()

	for _, entry := range owned {
		entry.holder.SignOut(ctx)
	}
	return len(owned)
}

func (m *sessionManager) entry(sessionID string) (*sessionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.sessions[sessionID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return entry, nil
}
