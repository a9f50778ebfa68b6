// Package postgres is the PostgreSQL implementation of domain.Store.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roombook/internal/config"
	"roombook/internal/domain"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
)

type Store struct {
	db     *sql.DB
	logger *zerolog.Logger
}

var _ domain.Store = (*Store)(nil)

// Open connects to PostgreSQL, configures the pool and applies the schema.
func Open(ctx context.Context, cfg config.PostgresConfig, logger *zerolog.Logger) (*Store, error) {
	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	} else {
		db.SetMaxOpenConns(25)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	} else {
		db.SetMaxIdleConns(5)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	} else {
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	l := logger.With().Str("component", "postgres").Logger()

	if err := pingWithRetry(ctx, db, defaultConnectPolicy, &l); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	l.Info().Str("host", cfg.Host).Str("database", cfg.DBName).Msg("Database connected")

	return &Store{db: db, logger: &l}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'User' CHECK (role IN ('User', 'Admin')),
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS resources (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL UNIQUE,
            description TEXT NOT NULL DEFAULT '',
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS bookings (
            id TEXT PRIMARY KEY,
            resource_id TEXT NOT NULL REFERENCES resources(id),
            user_id TEXT NOT NULL REFERENCES users(id),
            start_at TIMESTAMPTZ NOT NULL,
            end_at TIMESTAMPTZ NOT NULL,
            status TEXT NOT NULL DEFAULT 'Created' CHECK (status IN ('Created', 'Cancelled')),
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL,
            CHECK (end_at > start_at)
        )`,
		`DO $$ BEGIN
            ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
                EXCLUDE USING gist (resource_id WITH =, tstzrange(start_at, end_at, '[)') WITH &&)
                WHERE (status = 'Created');
        EXCEPTION WHEN duplicate_object OR duplicate_table THEN NULL;
        END $$`,
		`CREATE TABLE IF NOT EXISTS audit_events (
            seq BIGSERIAL UNIQUE,
            id TEXT PRIMARY KEY,
            actor_email TEXT NOT NULL,
            action TEXT NOT NULL CHECK (action IN ('CREATE', 'CANCEL')),
            entity_type TEXT NOT NULL,
            entity_id TEXT NOT NULL,
            at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE OR REPLACE FUNCTION audit_events_append_only() RETURNS trigger AS $$
        BEGIN
            RAISE EXCEPTION 'audit_events is append-only';
        END;
        $$ LANGUAGE plpgsql`,
		`DROP TRIGGER IF EXISTS audit_events_append_only ON audit_events`,
		`CREATE TRIGGER audit_events_append_only
            BEFORE UPDATE OR DELETE ON audit_events
            FOR EACH ROW EXECUTE FUNCTION audit_events_append_only()`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_events_entity ON audit_events(entity_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_events_at ON audit_events(at)`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// translateError maps driver errors to domain sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrRecordNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeExclusionViolation:
			return fmt.Errorf("%w: %v", domain.ErrOverlapConstraint, err)
		case codeUniqueViolation:
			return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
		}
	}
	return err
}
