package service

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"roombook/internal/auth"
	"roombook/internal/database"
	"roombook/internal/models"
	"roombook/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_Idempotent(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(filepath.Join(t.TempDir(), "seed.db"), &logger)
	require.NoError(t, err)
	defer db.Close()

	resources := NewResourceService(db, repository.NewMemoryResourceCache(), time.Minute, &logger)
	seed := NewSeedService(db, db, resources, &logger)

	require.NoError(t, seed.Seed(ctx))

	admin, err := db.GetUserByEmail(ctx, "admin@demo.no")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	// tamper, then reseed resets role and password
	admin.Role = models.RoleUser
	admin.PasswordHash, err = auth.HashPassword("changed")
	require.NoError(t, err)
	require.NoError(t, db.UpsertUser(ctx, admin))

	require.NoError(t, seed.Seed(ctx))

	again, err := db.GetUserByEmail(ctx, "admin@demo.no")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)
	assert.Equal(t, models.RoleAdmin, again.Role)
	ok, err := auth.CheckPassword(again.PasswordHash, "admin")
	require.NoError(t, err)
	assert.True(t, ok)

	user, err := db.GetUserByEmail(ctx, "user@demo.no")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)

	rooms, err := resources.GetActiveResources(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "Meeting Room A", rooms[0].Name)
	assert.Equal(t, "Meeting Room B", rooms[1].Name)
}
