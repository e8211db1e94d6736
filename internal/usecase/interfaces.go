package usecase

import (
	"context"
	"time"

	"github.com/nguyentranbao-ct/shopping-search/internal/identity"
	"github.com/nguyentranbao-ct/shopping-search/internal/models"
	"github.com/nguyentranbao-ct/shopping-search/internal/repo/serpapi"
)

// ProviderClient fetches one raw provider payload for a query.
type ProviderClient interface {
	Fetch(ctx context.Context, query string) (serpapi.RawPayload, error)
}

// ResultMapper turns a raw payload into products. It must not perform I/O.
type ResultMapper func(payload serpapi.RawPayload, now time.Time) []models.Product

type HistoryStore interface {
	Append(ctx context.Context, ownerID, queryText, countryCode string) error
	ListRecent(ctx context.Context, ownerID string, limit int) ([]string, error)
}

type ResultCache interface {
	StoreBatch(ctx context.Context, products []models.Product, region string) error
}

type IdentitySource interface {
	CurrentUser() *models.Identity
	Subscribe(fn identity.Listener) (unsubscribe func())
}
