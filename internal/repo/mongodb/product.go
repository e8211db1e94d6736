package mongodb

import (
	"context"

	"github.com/nguyentranbao-ct/shopping-search/internal/models"
	"github.com/nguyentranbao-ct/shopping-search/pkg/util"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository is insert-only; it keeps normalized results for analytics.
type ProductRepository interface {
	StoreBatch(ctx context.Context, products []models.Product, region string) error
	EnsureIndexes(ctx context.Context) error
}

type productRepo struct {
	baseRepo[models.CachedProduct]
}

func NewProductRepository(db *DB) ProductRepository {
	return &productRepo{
		baseRepo: newBaseRepo[models.CachedProduct](db.Database),
	}
}

func (r *productRepo) StoreBatch(ctx context.Context, products []models.Product, region string) error {
	if len(products) == 0 {
		return nil
	}

	docs := util.ConvertList(products, func(p models.Product) models.CachedProduct {
		return models.CachedProduct{
			ProductName: p.Name,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
			BuyLink:     p.BuyLink,
			Source:      p.Source,
			Region:      region,
			CreatedAt:   p.CreatedAt,
		}
	})

	if _, err := r.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return &models.PersistenceError{Op: "store products", Err: err}
	}
	return nil
}

func (r *productRepo) EnsureIndexes(ctx context.Context) error {
	return r.baseRepo.EnsureIndexes(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "region", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
}
