package database

import (
	"context"
	"path/filepath"
	"testing"

	"roombook/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_DirectoryCreation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	logger := zerolog.Nop()

	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, dbPath)
	assert.Equal(t, dbPath, db.Path())
}

func TestNewDB_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := zerolog.Nop()

	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	createTestResource(t, db, "Room A")
	require.NoError(t, db.Close())

	// migrations are idempotent
	db, err = NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	active, err := db.GetActiveResources(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestDB_Ping(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	assert.NoError(t, db.Ping(context.Background()))
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on", dsn(":memory:"))
	assert.Contains(t, dsn("/tmp/x.db"), "_journal_mode=WAL")
	assert.Contains(t, dsn("/tmp/x.db"), "_txlock=immediate")
}

func TestOpen(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	store, err := Open(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "open.db")}, &logger)
	require.NoError(t, err)
	defer store.Close()
	_, ok := store.(*DB)
	assert.True(t, ok)

	_, err = Open(ctx, config.DatabaseConfig{Driver: "oracle"}, &logger)
	assert.Error(t, err)
}
