package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nguyentranbao-ct/shopping-search/internal/models"
	log "github.com/nguyentranbao-ct/shopping-search/pkg/logger/logctx"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeLive     = "live"
	outcomeEmpty    = "empty"
	outcomeFallback = "fallback"
)

type SearchOptions struct {
	CountryCode  string
	CacheRegion  string
	HistoryLimit int
}

// Dependencies are the collaborators shared by every orchestrator.
type Dependencies struct {
	Provider ProviderClient
	Mapper   ResultMapper
	History  HistoryStore
	Cache    ResultCache
	Now      func() time.Time
	Outcomes *prometheus.CounterVec
}

// Orchestrator runs searches for exactly one Session. Callers must not start
// a second PerformSearch while Snapshot().InFlight is true.
type Orchestrator struct {
	session  *Session
	identity IdentitySource
	deps     Dependencies
	opts     SearchOptions

	unsubscribe func()
}

func NewOrchestrator(ctx context.Context, sessionID string, idSource IdentitySource, deps Dependencies, opts SearchOptions) *Orchestrator {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = maxRecentQueries
	}

	o := &Orchestrator{
		session:  newSession(sessionID),
		identity: idSource,
		deps:     deps,
		opts:     opts,
	}
	o.unsubscribe = idSource.Subscribe(o.onIdentityChanged)
	if user := idSource.CurrentUser(); user != nil {
		o.session.setOwner(user.UserID)
		o.loadHistory(ctx, user.UserID)
	}
	return o
}

func (o *Orchestrator) ID() string {
	return o.session.ID()
}

// CurrentUser is the identity the session is signed in as, or nil.
func (o *Orchestrator) CurrentUser() *models.Identity {
	return o.identity.CurrentUser()
}

func (o *Orchestrator) Snapshot() Snapshot {
	return o.session.Snapshot()
}

func (o *Orchestrator) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	return o.session.Subscribe(fn)
}

// Close detaches the orchestrator from its identity source.
func (o *Orchestrator) Close() {
	if o.unsubscribe != nil {
		o.unsubscribe()
	}
}

// PerformSearch never fails from the caller's point of view: the outcome is
// observed through the session state. A blank query is a no-op.
func (o *Orchestrator) PerformSearch(ctx context.Context, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}
	ctx = log.WithFields(ctx, "session_id", o.session.ID(), "query", query)

	o.session.begin(query)

	if user := o.identity.CurrentUser(); user != nil {
		o.recordHistory(ctx, user.UserID, query)
	}

	results := o.fetchResults(ctx, query)

	if len(results) > 0 {
		discard(ctx, "store results", o.deps.Cache.StoreBatch(ctx, results, o.opts.CacheRegion))
	}

	o.session.commit(query, results)
}

// ClearSearch resets the current query and results. Recent queries and the
// stores are left alone.
func (o *Orchestrator) ClearSearch() {
	o.session.clear()
}

func (o *Orchestrator) recordHistory(ctx context.Context, ownerID, query string) {
	if err := o.deps.History.Append(ctx, ownerID, query, o.opts.CountryCode); err != nil {
		discard(ctx, "append search history", err)
		return
	}
	if !o.session.pushRecent(ownerID, query) {
		log.Infow(ctx, "identity changed during history append, recent queries left as is")
	}
}

// fetchResults runs the provider and mapper stages and substitutes the
// fallback set on any failure, including a panic in either stage.
func (o *Orchestrator) fetchResults(ctx context.Context, query string) []models.Product {
	results, err := o.providerStage(ctx, query)
	if err != nil {
		log.Errorw(ctx, "search provider failed, serving fallback results", "error", err)
		o.countOutcome(outcomeFallback)
		return FallbackProducts(query, o.deps.Now())
	}

	if len(results) == 0 {
		o.countOutcome(outcomeEmpty)
	} else {
		o.countOutcome(outcomeLive)
	}
	log.Infow(ctx, "search completed", "results_count", len(results))
	return results
}

func (o *Orchestrator) providerStage(ctx context.Context, query string) (results []models.Product, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PANIC RECOVER: %+v", r)
		}
	}()

	payload, err := o.deps.Provider.Fetch(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	return o.deps.Mapper(payload, o.deps.Now()), nil
}

func (o *Orchestrator) onIdentityChanged(ctx context.Context, user *models.Identity) {
	if user == nil {
		o.session.signOut()
		return
	}
	o.session.setOwner(user.UserID)
	o.loadHistory(ctx, user.UserID)
}

func (o *Orchestrator) loadHistory(ctx context.Context, ownerID string) {
	queries, err := o.deps.History.ListRecent(ctx, ownerID, o.opts.HistoryLimit)
	if err != nil {
		discard(ctx, "load search history", err)
		return
	}
	o.session.setRecent(ownerID, queries)
}

func (o *Orchestrator) countOutcome(outcome string) {
	if o.deps.Outcomes != nil {
		o.deps.Outcomes.WithLabelValues(outcome).Inc()
	}
}

// discard logs and drops the error of a best-effort step. Such failures never
// change the search outcome.
func discard(ctx context.Context, op string, err error) {
	if err == nil {
		return
	}
	log.Warnw(ctx, "best-effort step failed", "op", op, "error", err)
}
