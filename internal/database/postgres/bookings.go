package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"roombook/internal/domain"
	"roombook/internal/models"
)

const bookingColumns = `id, resource_id, user_id, start_at, end_at, status, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	if err := row.Scan(&b.ID, &b.ResourceID, &b.UserID, &b.Start, &b.End, &b.Status, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.Start = b.Start.UTC()
	b.End = b.End.UTC()
	b.CreatedAt = b.CreatedAt.UTC()
	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*models.Booking, error) {
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

// WithinTx runs fn in a read committed transaction. Writers serialize on
// the resource row lock taken by LockResource.
func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.BookingTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", translateError(err))
	}
	return nil
}

func (s *Store) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", translateError(err))
	}
	return b, nil
}

func (s *Store) GetUserBookings(ctx context.Context, userID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY start_at DESC, id ASC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user bookings: %w", err)
	}
	return scanBookings(rows)
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) LockResource(ctx context.Context, resourceID string) error {
	var active bool
	err := t.tx.QueryRowContext(ctx, `SELECT is_active FROM resources WHERE id = $1 FOR UPDATE`, resourceID).Scan(&active)
	if err != nil {
		return fmt.Errorf("failed to lock resource: %w", translateError(err))
	}
	if !active {
		return fmt.Errorf("resource %s is inactive: %w", resourceID, domain.ErrRecordNotFound)
	}
	return nil
}

func (t *pgTx) CreatedBookingsForResource(ctx context.Context, resourceID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE resource_id = $1 AND status = $2 ORDER BY start_at ASC`
	rows, err := t.tx.QueryContext(ctx, query, resourceID, models.StatusCreated)
	if err != nil {
		return nil, fmt.Errorf("failed to get resource bookings: %w", err)
	}
	return scanBookings(rows)
}

func (t *pgTx) InsertBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (id, resource_id, user_id, start_at, end_at, status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`
	_, err := t.tx.ExecContext(ctx, query,
		booking.ID,
		booking.ResourceID,
		booking.UserID,
		booking.Start.UTC(),
		booking.End.UTC(),
		booking.Status,
		booking.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", translateError(err))
	}
	return nil
}

func (t *pgTx) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	b, err := scanBooking(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", translateError(err))
	}
	return b, nil
}

func (t *pgTx) MarkBookingCancelled(ctx context.Context, id string) error {
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := t.tx.ExecContext(ctx, query, models.StatusCancelled, time.Now().UTC(), id, models.StatusCreated)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrConcurrentModification
	}
	return nil
}

func (t *pgTx) AppendAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	query := `INSERT INTO audit_events (id, actor_email, action, entity_type, entity_id, at)
              VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := t.tx.ExecContext(ctx, query,
		event.ID,
		event.ActorEmail,
		event.Action,
		event.EntityType,
		event.EntityID,
		event.At.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit event: %w", translateError(err))
	}
	return nil
}
