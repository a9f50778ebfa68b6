package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"roombook/internal/domain"
	"roombook/internal/events"
	"roombook/internal/metrics"
	"roombook/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	msgResourceRequired  = "resource_id is required"
	msgEndBeforeStart    = "end must be after start"
	msgResourceNotFound  = "resource not found or inactive"
	msgOverlap           = "time slot overlaps an existing booking"
	msgBookingNotFound   = "booking not found"
	msgCancelNotAllowed  = "not allowed to cancel this booking"
	msgBookingIDRequired = "booking id is required"
)

type BookingService struct {
	store    domain.BookingStore
	catalog  domain.ResourceCatalog
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

var _ domain.BookingService = (*BookingService)(nil)

func NewBookingService(store domain.BookingStore, catalog domain.ResourceCatalog, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	l := logger.With().Str("component", "booking_service").Logger()
	return &BookingService{
		store:    store,
		catalog:  catalog,
		eventBus: eventBus,
		logger:   &l,
		now:      time.Now,
	}
}

// CreateBooking books resourceID for [start, end) on behalf of userID.
// The overlap check and both inserts run in one store transaction.
func (s *BookingService) CreateBooking(
	ctx context.Context,
	userID, actorEmail, resourceID string,
	start, end time.Time,
) (*models.Booking, error) {
	resourceID = strings.TrimSpace(resourceID)
	if resourceID == "" {
		metrics.IncBookingAttempt(metrics.OutcomeRejected)
		return nil, domain.NewValidation(msgResourceRequired)
	}
	if !end.After(start) {
		metrics.IncBookingAttempt(metrics.OutcomeRejected)
		return nil, domain.NewValidation(msgEndBeforeStart)
	}

	bookable, err := s.catalog.IsBookable(ctx, resourceID)
	if err != nil {
		metrics.IncBookingAttempt(metrics.OutcomeError)
		return nil, fmt.Errorf("check resource: %w", err)
	}
	if !bookable {
		metrics.IncBookingAttempt(metrics.OutcomeRejected)
		return nil, domain.NewNotFound(msgResourceNotFound)
	}

	now := models.UTC(s.now())
	booking := &models.Booking{
		ID:         uuid.NewString(),
		ResourceID: resourceID,
		UserID:     userID,
		Start:      models.UTC(start),
		End:        models.UTC(end),
		Status:     models.StatusCreated,
		CreatedAt:  now,
	}

	err = s.store.WithinTx(ctx, func(tx domain.BookingTx) error {
		if err := tx.LockResource(ctx, resourceID); err != nil {
			return err
		}

		existing, err := tx.CreatedBookingsForResource(ctx, resourceID)
		if err != nil {
			return err
		}
		if clash := domain.FirstOverlap(existing, booking.Start, booking.End); clash != nil {
			s.logger.Debug().
				Str("resource_id", resourceID).
				Str("existing_booking_id", clash.ID).
				Msg("Booking overlaps existing booking")
			return domain.NewConflict(msgOverlap)
		}

		if err := tx.InsertBooking(ctx, booking); err != nil {
			return err
		}
		return tx.AppendAuditEvent(ctx, newAuditEvent(actorEmail, models.ActionCreate, booking.ID, now))
	})
	if err != nil {
		err = translateStoreError(err, msgResourceNotFound)
		metrics.IncBookingAttempt(outcomeOf(err))
		return nil, err
	}

	metrics.IncBookingAttempt(metrics.OutcomeCreated)
	s.logger.Info().
		Str("booking_id", booking.ID).
		Str("resource_id", resourceID).
		Str("user_id", userID).
		Time("start", booking.Start).
		Time("end", booking.End).
		Msg("Booking created")
	s.publishEvent(events.EventBookingCreated, booking, actorEmail)

	return booking, nil
}

// ListBookingsForUser returns all bookings of userID, latest start first.
func (s *BookingService) ListBookingsForUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	bookings, err := s.store.GetUserBookings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	return bookings, nil
}

// CancelBooking moves a Created booking to Cancelled. Cancelling an
// already cancelled booking succeeds without writing anything.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, callerUserID, callerRole, actorEmail string) error {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return domain.NewValidation(msgBookingIDRequired)
	}

	var (
		cancelled *models.Booking
		noop      bool
	)

	err := s.store.WithinTx(ctx, func(tx domain.BookingTx) error {
		booking, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}

		if !domain.CanCancel(booking.UserID, callerUserID, callerRole) {
			return domain.NewForbidden(msgCancelNotAllowed)
		}

		if booking.IsCancelled() {
			noop = true
			return nil
		}

		if err := tx.MarkBookingCancelled(ctx, booking.ID); err != nil {
			return err
		}
		booking.Status = models.StatusCancelled
		cancelled = booking

		return tx.AppendAuditEvent(ctx, newAuditEvent(actorEmail, models.ActionCancel, booking.ID, models.UTC(s.now())))
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindForbidden {
			s.logger.Warn().Str("booking_id", bookingID).Str("caller_id", callerUserID).Msg("Cancel denied")
		}
		return translateStoreError(err, msgBookingNotFound)
	}

	if noop {
		s.logger.Debug().Str("booking_id", bookingID).Msg("Booking already cancelled")
		return nil
	}

	s.logger.Info().Str("booking_id", bookingID).Str("actor", actorEmail).Msg("Booking cancelled")
	s.publishEvent(events.EventBookingCancelled, cancelled, actorEmail)
	return nil
}

func (s *BookingService) ListAuditEvents(ctx context.Context, filter models.AuditFilter) ([]*models.AuditEvent, error) {
	list, err := s.store.ListAuditEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	if list == nil {
		list = []*models.AuditEvent{}
	}
	return list, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, actorEmail string) {
	if s.eventBus == nil {
		return
	}

	if err := s.eventBus.PublishJSON(eventType, events.NewBookingPayload(booking, actorEmail)); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}

func newAuditEvent(actorEmail, action, bookingID string, at time.Time) *models.AuditEvent {
	return &models.AuditEvent{
		ID:         uuid.NewString(),
		ActorEmail: actorEmail,
		Action:     action,
		EntityType: models.EntityBooking,
		EntityID:   bookingID,
		At:         at,
	}
}

// translateStoreError maps storage sentinels onto the error taxonomy.
// Errors that already carry a kind pass through unchanged.
func translateStoreError(err error, notFoundMsg string) error {
	var de *domain.Error
	switch {
	case errors.As(err, &de):
		return de
	case errors.Is(err, domain.ErrRecordNotFound):
		return domain.NewNotFound(notFoundMsg)
	case errors.Is(err, domain.ErrOverlapConstraint):
		return domain.NewConflict(msgOverlap)
	case errors.Is(err, domain.ErrConcurrentModification):
		return domain.NewConflict("booking was modified concurrently")
	default:
		return err
	}
}

func outcomeOf(err error) string {
	switch domain.KindOf(err) {
	case domain.KindConflict:
		return metrics.OutcomeConflict
	case domain.KindInternal:
		return metrics.OutcomeError
	default:
		return metrics.OutcomeRejected
	}
}
