package database

import (
	"context"
	"fmt"

	"roombook/internal/config"
	"roombook/internal/database/postgres"
	"roombook/internal/domain"

	"github.com/rs/zerolog"
)

// Open returns the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zerolog.Logger) (domain.Store, error) {
	switch cfg.Driver {
	case "", config.DriverSQLite:
		db, err := NewDB(cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverPostgres:
		store, err := postgres.Open(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
