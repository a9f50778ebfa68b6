package database

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"roombook/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupService(t *testing.T) {
	tempDir := t.TempDir()
	storagePath := filepath.Join(tempDir, "backups")

	logger := zerolog.New(io.Discard)
	db, err := NewDB(filepath.Join(tempDir, "source.db"), &logger)
	require.NoError(t, err)
	defer db.Close()
	createTestResource(t, db, "Room A")

	cfg := config.BackupConfig{
		Enabled:       true,
		StoragePath:   storagePath,
		RetentionDays: 1,
	}
	s := NewBackupService(db, cfg, &logger)

	var backupPath string

	t.Run("PerformBackup", func(t *testing.T) {
		backupPath, err = s.PerformBackup(context.Background())
		require.NoError(t, err)
		assert.FileExists(t, backupPath)
		assert.True(t, strings.HasPrefix(filepath.Base(backupPath), backupPrefix))

		restored, err := NewDB(backupPath, &logger)
		require.NoError(t, err)
		defer restored.Close()
		got, err := restored.GetResourceByName(context.Background(), "Room A")
		require.NoError(t, err)
		assert.True(t, got.IsActive)
	})

	t.Run("CleanupOldBackups", func(t *testing.T) {
		oldFile := filepath.Join(storagePath, backupPrefix+"old.db")
		require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0o644))
		unrelated := filepath.Join(storagePath, "notes.txt")
		require.NoError(t, os.WriteFile(unrelated, []byte("keep"), 0o644))

		oldTime := time.Now().AddDate(0, 0, -2)
		require.NoError(t, os.Chtimes(oldFile, oldTime, oldTime))
		require.NoError(t, os.Chtimes(unrelated, oldTime, oldTime))

		assert.Equal(t, 1, s.CleanupOldBackups())

		assert.NoFileExists(t, oldFile)
		assert.FileExists(t, unrelated)
		assert.FileExists(t, backupPath)
	})
}

func TestBackupService_Disabled(t *testing.T) {
	logger := zerolog.Nop()
	db := setupTestDB(t)
	defer db.Close()
	s := NewBackupService(db, config.BackupConfig{Enabled: false}, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Start(ctx)
}
