package service

import (
	"context"
	"database/sql"
	"fmt"

	"quill/app/config"
	"quill/app/repositories"
	"quill/app/repositories/postgres"
)

// storage bundles the repositories of one backend with its close hook.
type storage struct {
	Users repositories.UserRepository
	Posts repositories.PostRepository
	close func() error
}

func (s *storage) Close() error {
	return s.close()
}

// openStorage opens the backend selected by cfg.Storage.
func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.Storage {
	case config.StorageBadger:
		repo, err := repositories.NewRepository(cfg.BadgerPath)
		if err != nil {
			return nil, fmt.Errorf("badger init error: %w", err)
		}
		return &storage{Users: repo.Users(), Posts: repo.Posts(), close: repo.Close}, nil
	case config.StoragePostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return newSQLStorage(db), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

func newSQLStorage(db *sql.DB) *storage {
	return &storage{
		Users: postgres.NewUserRepository(db),
		Posts: postgres.NewPostRepository(db),
		close: db.Close,
	}
}
