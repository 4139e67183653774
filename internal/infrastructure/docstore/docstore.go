// Package docstore opens the configured document store backend and exposes
// its repositories behind a single lifecycle.
package docstore

import (
	"context"
	"fmt"

	"github.com/go-files-api/internal/config"
	"github.com/go-files-api/internal/domain"
	"github.com/go-files-api/internal/infrastructure/dynamo"
	mongoinfra "github.com/go-files-api/internal/infrastructure/mongo"
)

// Users is implemented by every user repository backend.
type Users interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// Files is implemented by every file repository backend.
type Files interface {
	Put(ctx context.Context, f *domain.File) error
	Get(ctx context.Context, fileID string) (*domain.File, error)
	GetOwned(ctx context.Context, fileID, userID string) (*domain.File, error)
	ListByParent(ctx context.Context, userID string, parentID domain.ParentID, page, perPage int) ([]domain.File, error)
	SetPublic(ctx context.Context, fileID string, public bool) (*domain.File, error)
	Delete(ctx context.Context, fileID string) error
	Count(ctx context.Context) (int64, error)
}

// Stores is an open document store.
type Stores struct {
	Users Users
	Files Files

	ping      func(ctx context.Context) error
	bootstrap func(ctx context.Context) error
	close     func(ctx context.Context) error
}

// Open connects to the backend selected by cfg.DocumentStore.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.DocumentStore {
	case config.StoreDynamo:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Users: dynamo.NewUserRepo(client, cfg.DynamoTables.Users),
			Files: dynamo.NewFileRepo(client, cfg.DynamoTables.Files),
			ping: func(ctx context.Context) error {
				return dynamo.Ping(ctx, client, cfg.DynamoTables)
			},
			bootstrap: func(ctx context.Context) error {
				return dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
			},
			close: func(context.Context) error { return nil },
		}, nil
	case config.StoreMongo:
		client, db, err := mongoinfra.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Users: mongoinfra.NewUserRepo(db),
			Files: mongoinfra.NewFileRepo(db),
			ping: func(ctx context.Context) error {
				return mongoinfra.Ping(ctx, client)
			},
			bootstrap: func(ctx context.Context) error {
				return mongoinfra.EnsureIndexes(ctx, db)
			},
			close: client.Disconnect,
		}, nil
	default:
		return nil, fmt.Errorf("unknown document store %q", cfg.DocumentStore)
	}
}

// Ping reports whether the backend is reachable.
func (s *Stores) Ping(ctx context.Context) error { return s.ping(ctx) }

// Bootstrap creates tables or indexes. It is idempotent.
func (s *Stores) Bootstrap(ctx context.Context) error { return s.bootstrap(ctx) }

func (s *Stores) Close(ctx context.Context) error { return s.close(ctx) }
