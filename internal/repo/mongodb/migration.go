package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/shopping-search/internal/models"
	log "github.com/nguyentranbao-ct/shopping-search/pkg/logger/logctx"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	migrationRunning   = "running"
	migrationCompleted = "completed"
	migrationFailed    = "failed"
)

// Migration is a named startup step that runs until it completes once.
type Migration struct {
	Name string
	Up   func(ctx context.Context) error
}

// MigrationRepository runs migrations and records their outcome in the
// migrations collection.
type MigrationRepository interface {
	Run(ctx context.Context, migrations ...Migration) error
	GetMigrationStatus(ctx context.Context, name string) (*MigrationStatus, error)
}

type MigrationStatus struct {
	Name        string     `bson:"name" json:"name"`
	Status      string     `bson:"status" json:"status"`
	StartedAt   *time.Time `bson:"started_at,omitempty" json:"started_at,omitempty"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	Duration    string     `bson:"duration,omitempty" json:"duration,omitempty"`
	Error       string     `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

type migrationRepo struct {
	coll *mongo.Collection
}

func NewMigrationRepository(db *DB) MigrationRepository {
	return &migrationRepo{coll: db.Database.Collection("migrations")}
}

// Run applies migrations in order and stops at the first failure.
func (r *migrationRepo) Run(ctx context.Context, migrations ...Migration) error {
	for _, m := range migrations {
		if err := r.run(ctx, m); err != nil {
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
	}
	return nil
}

func (r *migrationRepo) run(ctx context.Context, m Migration) error {
	status, err := r.GetMigrationStatus(ctx, m.Name)
	switch {
	case err == nil && status.Status == migrationCompleted:
		log.Debugw(ctx, "migration already completed", "migration", m.Name)
		return nil
	case err != nil && !errors.Is(err, models.ErrNotFound):
		return err
	}

	start := time.Now()
	if err := r.setStatus(ctx, m.Name, migrationRunning, start, nil); err != nil {
		return err
	}

	upErr := m.Up(ctx)
	state := migrationCompleted
	if upErr != nil {
		state = migrationFailed
	}
	if err := r.setStatus(ctx, m.Name, state, start, upErr); err != nil {
		log.Errorw(ctx, "failed to record migration status", "migration", m.Name, "error", err)
	}
	if upErr != nil {
		return upErr
	}

	log.Infow(ctx, "migration completed", "migration", m.Name, "duration", time.Since(start).String())
	return nil
}

func (r *migrationRepo) GetMigrationStatus(ctx context.Context, name string) (*MigrationStatus, error) {
	var status MigrationStatus
	err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&status)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get migration status: %w", err)
	}
	return &status, nil
}

func (r *migrationRepo) setStatus(ctx context.Context, name, state string, start time.Time, runErr error) error {
	now := time.Now()
	set := bson.M{
		"name":       name,
		"status":     state,
		"updated_at": now,
	}
	if state == migrationRunning {
		set["started_at"] = start
	} else {
		set["completed_at"] = now
		set["duration"] = now.Sub(start).String()
	}
	if runErr != nil {
		set["error"] = runErr.Error()
	}

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": now},
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"name": name}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("set migration status: %w", err)
	}
	return nil
}
