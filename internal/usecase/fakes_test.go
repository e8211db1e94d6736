package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nguyentranbao-ct/shopping-search/internal/models"
	"github.com/nguyentranbao-ct/shopping-search/internal/repo/serpapi"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type fakeProvider struct {
	mu      sync.Mutex
	payload string
	err     error
	queries []string
	// onFetch runs before the fetch returns, outside the lock.
	onFetch func()
}

func (f *fakeProvider) Fetch(_ context.Context, query string) (serpapi.RawPayload, error) {
	if f.onFetch != nil {
		f.onFetch()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return serpapi.RawPayload(f.payload), nil
}

func (f *fakeProvider) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type historyEntry struct {
	owner, query, country string
}

type fakeHistory struct {
	mu        sync.Mutex
	entries   []historyEntry
	appendErr error
	listErr   error
	listCalls int
	onAppend  func()
}

func (f *fakeHistory) Append(_ context.Context, ownerID, queryText, countryCode string) error {
	if f.onAppend != nil {
		f.onAppend()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, historyEntry{ownerID, queryText, countryCode})
	return nil
}

// ListRecent mimics the store: newest first, duplicates kept.
func (f *fakeHistory) ListRecent(_ context.Context, ownerID string, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []string
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].owner == ownerID {
			out = append(out, f.entries[i].query)
		}
	}
	return out, nil
}

func (f *fakeHistory) appended() []historyEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]historyEntry(nil), f.entries...)
}

type fakeCache struct {
	mu      sync.Mutex
	batches [][]models.Product
	regions []string
	err     error
}

func (f *fakeCache) StoreBatch(_ context.Context, products []models.Product, region string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, products)
	f.regions = append(f.regions, region)
	return f.err
}

func (f *fakeCache) stored() [][]models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]models.Product(nil), f.batches...)
}

var errStore = &models.PersistenceError{Op: "test", Err: errors.New("db down")}

func newDeps(p *fakeProvider, h *fakeHistory, c *fakeCache) Dependencies {
	return Dependencies{
		Provider: p,
		Mapper:   serpapi.MapResults,
		History:  h,
		Cache:    c,
		Now:      func() time.Time { return fixedNow },
	}
}

var testOpts = SearchOptions{CountryCode: "UK", CacheRegion: "UK", HistoryLimit: 10}
