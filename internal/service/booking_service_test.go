package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"roombook/internal/domain"
	"roombook/internal/events"
	"roombook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	ctx    = context.Background()
	ten    = time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	eleven = ten.Add(time.Hour)
)

func newMockedBookingService() (*BookingService, *mockStore, *mockCatalog, *mockPublisher) {
	store := &mockStore{tx: new(mockTx)}
	catalog := new(mockCatalog)
	publisher := new(mockPublisher)
	logger := zerolog.New(io.Discard)
	return NewBookingService(store, catalog, publisher, &logger), store, catalog, publisher
}

func TestCreateBooking_Validation(t *testing.T) {
	svc, store, catalog, _ := newMockedBookingService()

	_, err := svc.CreateBooking(ctx, "u1", "user@demo.no", "  ", ten, eleven)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.CreateBooking(ctx, "u1", "user@demo.no", "r1", eleven, ten)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.CreateBooking(ctx, "u1", "user@demo.no", "r1", ten, ten)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, msgEndBeforeStart, domain.MessageOf(err))

	catalog.AssertNotCalled(t, "IsBookable", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestCreateBooking_ResourceNotBookable(t *testing.T) {
	svc, store, catalog, _ := newMockedBookingService()
	catalog.On("IsBookable", ctx, "r1").Return(false, nil).Once()

	_, err := svc.CreateBooking(ctx, "u1", "user@demo.no", "r1", ten, eleven)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, msgResourceNotFound, domain.MessageOf(err))
	store.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestCreateBooking_CatalogFailure(t *testing.T) {
	svc, _, catalog, _ := newMockedBookingService()
	catalog.On("IsBookable", ctx, "r1").Return(false, errors.New("db down")).Once()

	_, err := svc.CreateBooking(ctx, "u1", "user@demo.no", "r1", ten, eleven)
	assert.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestCreateBooking_Success(t *testing.T) {
	svc, store, catalog, publisher := newMockedBookingService()
	svc.now = func() time.Time { return ten.Add(-time.Hour) }

	catalog.On("IsBookable", ctx, "r1").Return(true, nil).Once()
	store.On("WithinTx", ctx).Return(nil).Once()
	store.tx.On("LockResource", ctx, "r1").Return(nil).Once()
	store.tx.On("CreatedBookingsForResource", ctx, "r1").Return([]*models.Booking{
		{ID: "before", Start: ten.Add(-time.Hour), End: ten, Status: models.StatusCreated},
	}, nil).Once()
	store.tx.On("InsertBooking", ctx, mock.MatchedBy(func(b *models.Booking) bool {
		return b.ResourceID == "r1" && b.UserID == "u1" && b.Status == models.StatusCreated && b.ID != ""
	})).Return(nil).Once()
	store.tx.On("AppendAuditEvent", ctx, mock.MatchedBy(func(e *models.AuditEvent) bool {
		return e.Action == models.ActionCreate && e.EntityType == models.EntityBooking && e.ActorEmail == "user@demo.no"
	})).Return(nil).Once()
	publisher.On("PublishJSON", events.EventBookingCreated, mock.AnythingOfType("events.BookingEventPayload")).Return(nil).Once()

	oslo := time.FixedZone("CET", 60*60)
	booking, err := svc.CreateBooking(ctx, "u1", "user@demo.no", "r1", ten.In(oslo), eleven.In(oslo))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, booking.Start.Location())
	assert.True(t, booking.Start.Equal(ten))
	assert.Equal(t, ten.Add(-time.Hour), booking.CreatedAt)

	store.tx.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateBooking_Overlap(t *testing.T) {
	svc, store, catalog, publisher := newMockedBookingService()

	catalog.On("IsBookable", ctx, "r1").Return(true, nil).Once()
	store.On("WithinTx", ctx).Return(nil).Once()
	store.tx.On("LockResource", ctx, "r1").Return(nil).Once()
	store.tx.On("CreatedBookingsForResource", ctx, "r1").Return([]*models.Booking{
		{ID: "existing", Start: ten, End: eleven, Status: models.StatusCreated},
	}, nil).Once()

	_, err := svc.CreateBooking(ctx, "u1", "user@demo.no", "r1", ten.Add(30*time.Minute), eleven.Add(30*time.Minute))
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	store.tx.AssertNotCalled(t, "InsertBooking", mock.Anything, mock.Anything)
	store.tx.AssertNotCalled(t, "AppendAuditEvent", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything)
}

func TestCreateBooking_StoreSentinels(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(tx *mockTx)
		wantKind domain.Kind
	}{
		{
			name: "exclusion constraint",
			setup: func(tx *mockTx) {
				tx.On("LockResource", ctx, "r1").Return(nil)
				tx.On("CreatedBookingsForResource", ctx, "r1").Return([]*models.Booking{}, nil)
				tx.On("InsertBooking", ctx, mock.Anything).Return(fmt.Errorf("insert: %w", domain.ErrOverlapConstraint))
			},
			wantKind: domain.KindConflict,
		},
		{
			name: "resource deactivated meanwhile",
			setup: func(tx *mockTx) {
				tx.On("LockResource", ctx, "r1").Return(fmt.Errorf("lock: %w", domain.ErrRecordNotFound))
			},
			wantKind: domain.KindNotFound,
		},
		{
			name: "audit append fails",
			setup: func(tx *mockTx) {
				tx.On("LockResource", ctx, "r1").Return(nil)
				tx.On("CreatedBookingsForResource", ctx, "r1").Return(nil, nil)
				tx.On("InsertBooking", ctx, mock.Anything).Return(nil)
				tx.On("AppendAuditEvent", ctx, mock.Anything).Return(errors.New("disk full"))
			},
			wantKind: domain.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, catalog, publisher := newMockedBookingService()
			catalog.On("IsBookable", ctx, "r1").Return(true, nil)
			store.On("WithinTx", ctx).Return(nil)
			tt.setup(store.tx)

			_, err := svc.CreateBooking(ctx, "u1", "user@demo.no", "r1", ten, eleven)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, domain.KindOf(err))
			publisher.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateBooking_PublishFailureIsNotFatal(t *testing.T) {
	svc, store, catalog, publisher := newMockedBookingService()
	catalog.On("IsBookable", ctx, "r1").Return(true, nil)
	store.On("WithinTx", ctx).Return(nil)
	store.tx.On("LockResource", ctx, "r1").Return(nil)
	store.tx.On("CreatedBookingsForResource", ctx, "r1").Return(nil, nil)
	store.tx.On("InsertBooking", ctx, mock.Anything).Return(nil)
	store.tx.On("AppendAuditEvent", ctx, mock.Anything).Return(nil)
	publisher.On("PublishJSON", mock.Anything, mock.Anything).Return(errors.New("bus closed"))

	booking, err := svc.CreateBooking(ctx, "u1", "user@demo.no", "r1", ten, eleven)
	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
}

func TestCancelBooking_Mocked(t *testing.T) {
	owned := func() *models.Booking {
		return &models.Booking{ID: "b1", UserID: "owner", Start: ten, End: eleven, Status: models.StatusCreated}
	}

	t.Run("NotFound", func(t *testing.T) {
		svc, store, _, _ := newMockedBookingService()
		store.On("WithinTx", ctx).Return(nil)
		store.tx.On("GetBooking", ctx, "b1").Return(nil, domain.ErrRecordNotFound)

		err := svc.CancelBooking(ctx, "b1", "owner", models.RoleUser, "owner@demo.no")
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
		assert.Equal(t, msgBookingNotFound, domain.MessageOf(err))
	})

	t.Run("Forbidden", func(t *testing.T) {
		svc, store, _, publisher := newMockedBookingService()
		store.On("WithinTx", ctx).Return(nil)
		store.tx.On("GetBooking", ctx, "b1").Return(owned(), nil)

		err := svc.CancelBooking(ctx, "b1", "stranger", models.RoleUser, "stranger@demo.no")
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
		store.tx.AssertNotCalled(t, "MarkBookingCancelled", mock.Anything, mock.Anything)
		publisher.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything)
	})

	t.Run("AdminCancels", func(t *testing.T) {
		svc, store, _, publisher := newMockedBookingService()
		store.On("WithinTx", ctx).Return(nil)
		store.tx.On("GetBooking", ctx, "b1").Return(owned(), nil)
		store.tx.On("MarkBookingCancelled", ctx, "b1").Return(nil).Once()
		store.tx.On("AppendAuditEvent", ctx, mock.MatchedBy(func(e *models.AuditEvent) bool {
			return e.Action == models.ActionCancel && e.EntityID == "b1" && e.ActorEmail == "admin@demo.no"
		})).Return(nil).Once()
		publisher.On("PublishJSON", events.EventBookingCancelled, mock.MatchedBy(func(p events.BookingEventPayload) bool {
			return p.BookingID == "b1" && p.Status == models.StatusCancelled
		})).Return(nil).Once()

		err := svc.CancelBooking(ctx, "b1", "admin", "ADMIN", "admin@demo.no")
		require.NoError(t, err)
		store.tx.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("AlreadyCancelled", func(t *testing.T) {
		svc, store, _, publisher := newMockedBookingService()
		b := owned()
		b.Status = models.StatusCancelled
		store.On("WithinTx", ctx).Return(nil)
		store.tx.On("GetBooking", ctx, "b1").Return(b, nil)

		require.NoError(t, svc.CancelBooking(ctx, "b1", "owner", models.RoleUser, "owner@demo.no"))
		store.tx.AssertNotCalled(t, "MarkBookingCancelled", mock.Anything, mock.Anything)
		store.tx.AssertNotCalled(t, "AppendAuditEvent", mock.Anything, mock.Anything)
		publisher.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything)
	})

	t.Run("BeginFails", func(t *testing.T) {
		svc, store, _, _ := newMockedBookingService()
		store.On("WithinTx", ctx).Return(errors.New("database is locked"))

		err := svc.CancelBooking(ctx, "b1", "owner", models.RoleUser, "owner@demo.no")
		assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	})

	t.Run("EmptyID", func(t *testing.T) {
		svc, _, _, _ := newMockedBookingService()
		err := svc.CancelBooking(ctx, " ", "owner", models.RoleUser, "owner@demo.no")
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})
}

func TestListBookingsForUser_Mocked(t *testing.T) {
	svc, store, _, _ := newMockedBookingService()
	store.On("GetUserBookings", ctx, "u1").Return(nil, nil).Once()
	store.On("GetUserBookings", ctx, "u2").Return(nil, errors.New("boom")).Once()

	list, err := svc.ListBookingsForUser(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = svc.ListBookingsForUser(ctx, "u2")
	assert.Error(t, err)
}
