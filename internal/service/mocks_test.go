package service

import (
	"context"
	"time"

	"roombook/internal/domain"
	"roombook/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
	tx *mockTx
}

func (m *mockStore) WithinTx(ctx context.Context, fn func(tx domain.BookingTx) error) error {
	if err := m.Called(ctx).Error(0); err != nil {
		return err
	}
	return fn(m.tx)
}

func (m *mockStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockStore) GetUserBookings(ctx context.Context, userID string) ([]*models.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *mockStore) ListAuditEvents(ctx context.Context, filter models.AuditFilter) ([]*models.AuditEvent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditEvent), args.Error(1)
}

type mockTx struct {
	mock.Mock
}

func (m *mockTx) LockResource(ctx context.Context, resourceID string) error {
	return m.Called(ctx, resourceID).Error(0)
}

func (m *mockTx) CreatedBookingsForResource(ctx context.Context, resourceID string) ([]*models.Booking, error) {
	args := m.Called(ctx, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *mockTx) InsertBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockTx) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockTx) MarkBookingCancelled(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTx) AppendAuditEvent(ctx context.Context, e *models.AuditEvent) error {
	return m.Called(ctx, e).Error(0)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) IsBookable(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockCatalog) GetActiveResources(ctx context.Context) ([]*models.Resource, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Resource), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

type mockResourceRepo struct {
	mock.Mock
}

func (m *mockResourceRepo) GetActiveResources(ctx context.Context) ([]*models.Resource, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Resource), args.Error(1)
}

func (m *mockResourceRepo) GetResourceByID(ctx context.Context, id string) (*models.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resource), args.Error(1)
}

func (m *mockResourceRepo) GetResourceByName(ctx context.Context, name string) (*models.Resource, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resource), args.Error(1)
}

func (m *mockResourceRepo) CreateResource(ctx context.Context, r *models.Resource) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockResourceRepo) UpdateResource(ctx context.Context, r *models.Resource) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockResourceRepo) SetResourceActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetActiveResources(ctx context.Context) ([]*models.Resource, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*models.Resource), args.Bool(1), args.Error(2)
}

func (m *mockCache) SetActiveResources(ctx context.Context, resources []*models.Resource, ttl time.Duration) error {
	return m.Called(ctx, resources, ttl).Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) UpsertUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}
