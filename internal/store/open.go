package store

import (
	"context"
	"fmt"

	"github.com/kiranshivaraju/integrity/internal/config"
)

// Open connects the backend selected by cfg.Store.Backend. For postgres it
// also applies pending migrations.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case "postgres":
		if err := RunMigrations(cfg.Database.URL, cfg.Database.MigrationsDir); err != nil {
			return nil, err
		}
		pool, err := Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool), nil
	case "mongo":
		return ConnectMongo(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
