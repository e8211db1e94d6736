package mongodb

import (
	"context"
	"time"

	"github.com/nguyentranbao-ct/shopping-search/internal/models"
	"github.com/nguyentranbao-ct/shopping-search/pkg/util"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SearchHistoryRepository is append-only: retention belongs to the database.
type SearchHistoryRepository interface {
	Append(ctx context.Context, ownerID, queryText, countryCode string) error
	ListRecent(ctx context.Context, ownerID string, limit int) ([]string, error)
	EnsureIndexes(ctx context.Context) error
}

type searchHistoryRepo struct {
	baseRepo[models.SearchHistory]
}

func NewSearchHistoryRepository(db *DB) SearchHistoryRepository {
	return &searchHistoryRepo{
		baseRepo: newBaseRepo[models.SearchHistory](db.Database),
	}
}

func (r *searchHistoryRepo) Append(ctx context.Context, ownerID, queryText, countryCode string) error {
	record := models.SearchHistory{
		UserID:      ownerID,
		SearchQuery: queryText,
		Country:     countryCode,
		SearchDate:  time.Now(),
	}
	if _, err := r.Insert(ctx, record); err != nil {
		return &models.PersistenceError{Op: "append search history", Err: err}
	}
	return nil
}

// ListRecent returns stored query texts newest first. Duplicates are kept.
func (r *searchHistoryRepo) ListRecent(ctx context.Context, ownerID string, limit int) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "search_date", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"search_query": 1})

	records, err := r.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list search history", Err: err}
	}

	return util.ConvertList(records, func(h models.SearchHistory) string {
		return h.SearchQuery
	}), nil
}

func (r *searchHistoryRepo) EnsureIndexes(ctx context.Context) error {
	return r.baseRepo.EnsureIndexes(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "search_date", Value: -1},
		},
	})
}
