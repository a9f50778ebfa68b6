package service

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"roombook/internal/domain"
	"roombook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMockedResourceService() (*ResourceService, *mockResourceRepo, *mockCache) {
	repo := new(mockResourceRepo)
	cache := new(mockCache)
	logger := zerolog.New(io.Discard)
	return NewResourceService(repo, cache, time.Minute, &logger), repo, cache
}

func TestGetActiveResources_CacheAside(t *testing.T) {
	rooms := []*models.Resource{{ID: "r1", Name: "Meeting Room A", IsActive: true}}

	t.Run("Hit", func(t *testing.T) {
		svc, repo, cache := newMockedResourceService()
		cache.On("GetActiveResources", ctx).Return(rooms, true, nil).Once()

		got, err := svc.GetActiveResources(ctx)
		require.NoError(t, err)
		assert.Equal(t, rooms, got)
		repo.AssertNotCalled(t, "GetActiveResources", mock.Anything)
	})

	t.Run("MissFillsCache", func(t *testing.T) {
		svc, repo, cache := newMockedResourceService()
		cache.On("GetActiveResources", ctx).Return(nil, false, nil).Once()
		repo.On("GetActiveResources", ctx).Return(rooms, nil).Once()
		cache.On("SetActiveResources", ctx, rooms, time.Minute).Return(nil).Once()

		got, err := svc.GetActiveResources(ctx)
		require.NoError(t, err)
		assert.Equal(t, rooms, got)
		cache.AssertExpectations(t)
	})

	t.Run("CacheErrorsAreNotFatal", func(t *testing.T) {
		svc, repo, cache := newMockedResourceService()
		cache.On("GetActiveResources", ctx).Return(nil, false, errors.New("redis down")).Once()
		repo.On("GetActiveResources", ctx).Return(nil, nil).Once()
		cache.On("SetActiveResources", ctx, []*models.Resource{}, time.Minute).Return(errors.New("redis down")).Once()

		got, err := svc.GetActiveResources(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("StoreError", func(t *testing.T) {
		svc, repo, cache := newMockedResourceService()
		cache.On("GetActiveResources", ctx).Return(nil, false, nil).Once()
		repo.On("GetActiveResources", ctx).Return(nil, errors.New("db down")).Once()

		_, err := svc.GetActiveResources(ctx)
		assert.Error(t, err)
	})
}

func TestIsBookable(t *testing.T) {
	svc, repo, _ := newMockedResourceService()
	repo.On("GetResourceByID", ctx, "active").Return(&models.Resource{ID: "active", IsActive: true}, nil)
	repo.On("GetResourceByID", ctx, "inactive").Return(&models.Resource{ID: "inactive"}, nil)
	repo.On("GetResourceByID", ctx, "missing").Return(nil, fmt.Errorf("get: %w", domain.ErrRecordNotFound))
	repo.On("GetResourceByID", ctx, "broken").Return(nil, errors.New("db down"))

	ok, err := svc.IsBookable(ctx, "active")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsBookable(ctx, "inactive")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.IsBookable(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.IsBookable(ctx, "broken")
	assert.Error(t, err)
}

func TestCreateResource(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, repo, cache := newMockedResourceService()
		repo.On("CreateResource", ctx, mock.MatchedBy(func(r *models.Resource) bool {
			return r.Name == "Room C" && r.IsActive && r.ID != ""
		})).Return(nil).Once()
		cache.On("Invalidate", ctx).Return(nil).Once()

		r, err := svc.CreateResource(ctx, "  Room C ", "big")
		require.NoError(t, err)
		assert.Equal(t, "Room C", r.Name)
		cache.AssertExpectations(t)
	})

	t.Run("BlankName", func(t *testing.T) {
		svc, _, _ := newMockedResourceService()
		_, err := svc.CreateResource(ctx, " ", "")
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})

	t.Run("Duplicate", func(t *testing.T) {
		svc, repo, cache := newMockedResourceService()
		repo.On("CreateResource", ctx, mock.Anything).Return(fmt.Errorf("insert: %w", domain.ErrDuplicate)).Once()

		_, err := svc.CreateResource(ctx, "Room C", "")
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
		cache.AssertNotCalled(t, "Invalidate", mock.Anything)
	})
}

func TestSetResourceActive(t *testing.T) {
	svc, repo, cache := newMockedResourceService()
	repo.On("SetResourceActive", ctx, "r1", false).Return(nil).Once()
	repo.On("SetResourceActive", ctx, "missing", true).Return(domain.ErrRecordNotFound).Once()
	cache.On("Invalidate", ctx).Return(errors.New("redis down")).Once()

	require.NoError(t, svc.SetResourceActive(ctx, "r1", false))

	err := svc.SetResourceActive(ctx, "missing", true)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	cache.AssertExpectations(t)
}

func TestImportResources(t *testing.T) {
	svc, repo, cache := newMockedResourceService()
	existing := &models.Resource{ID: "r1", Name: "Meeting Room A", Description: "old", IsActive: true}

	repo.On("GetResourceByName", ctx, "Meeting Room A").Return(existing, nil).Once()
	repo.On("GetResourceByName", ctx, "Room C").Return(nil, domain.ErrRecordNotFound).Once()
	repo.On("UpdateResource", ctx, mock.MatchedBy(func(r *models.Resource) bool {
		return r.ID == "r1" && r.Description == "new" && !r.IsActive
	})).Return(nil).Once()
	repo.On("CreateResource", ctx, mock.MatchedBy(func(r *models.Resource) bool {
		return r.Name == "Room C" && r.ID != ""
	})).Return(nil).Once()
	cache.On("Invalidate", ctx).Return(nil).Once()

	result, err := svc.ImportResources(ctx, []models.Resource{
		{Name: "Meeting Room A", Description: "new", IsActive: false},
		{Name: " Room C ", Description: "12 seats", IsActive: true},
	})
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Created: 1, Updated: 1}, result)
	repo.AssertExpectations(t)

	_, err = svc.ImportResources(ctx, []models.Resource{{Name: ""}})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
