package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"roombook/internal/domain"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// timeLayout is fixed width so that stored instants sort lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type DB struct {
	*sql.DB
	path   string
	logger *zerolog.Logger
}

var _ domain.Store = (*DB)(nil)

// NewDB opens (and migrates) the sqlite database at path. Every transaction
// is started with BEGIN IMMEDIATE, so write transactions never interleave.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	memory := path == ":memory:"
	if !memory {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if memory {
		// each connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	l := logger.With().Str("component", "sqlite").Logger()
	l.Info().Str("path", path).Msg("Database initialized")

	return &DB{DB: sqlDB, path: path, logger: &l}, nil
}

func dsn(path string) string {
	params := "_txlock=immediate&_busy_timeout=5000&_foreign_keys=on"
	if path == ":memory:" {
		return "file::memory:?" + params
	}
	return fmt.Sprintf("file:%s?%s&_journal_mode=WAL", path, params)
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            email TEXT NOT NULL UNIQUE COLLATE NOCASE,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'User' CHECK (role IN ('User', 'Admin')),
            created_at TEXT NOT NULL,
            updated_at TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS resources (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL UNIQUE,
            description TEXT NOT NULL DEFAULT '',
            is_active BOOLEAN NOT NULL DEFAULT 1,
            created_at TEXT NOT NULL,
            updated_at TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS bookings (
            id TEXT PRIMARY KEY,
            resource_id TEXT NOT NULL REFERENCES resources(id),
            user_id TEXT NOT NULL REFERENCES users(id),
            start_at TEXT NOT NULL,
            end_at TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'Created' CHECK (status IN ('Created', 'Cancelled')),
            created_at TEXT NOT NULL,
            updated_at TEXT NOT NULL,
            CHECK (end_at > start_at)
        )`,
		`CREATE TABLE IF NOT EXISTS audit_events (
            id TEXT PRIMARY KEY,
            actor_email TEXT NOT NULL,
            action TEXT NOT NULL CHECK (action IN ('CREATE', 'CANCEL')),
            entity_type TEXT NOT NULL,
            entity_id TEXT NOT NULL,
            at TEXT NOT NULL
        )`,

		`CREATE TRIGGER IF NOT EXISTS audit_events_no_update
            BEFORE UPDATE ON audit_events
            BEGIN SELECT RAISE(ABORT, 'audit_events is append-only'); END`,
		`CREATE TRIGGER IF NOT EXISTS audit_events_no_delete
            BEFORE DELETE ON audit_events
            BEGIN SELECT RAISE(ABORT, 'audit_events is append-only'); END`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_resource_status ON bookings(resource_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_active_name ON resources(is_active, name)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_events_entity ON audit_events(entity_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_events_at ON audit_events(at)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

// Path of the underlying database file.
func (db *DB) Path() string {
	return db.path
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// translateError maps driver errors to domain sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrRecordNotFound
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
		}
	}
	return err
}
