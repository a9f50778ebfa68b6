package database

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
	var (
		b                         models.Booking
		startStr, endStr, created string
	)
	if err := row.Scan(&b.ID, &b.ResourceID, &b.UserID, &startStr, &endStr, &b.Status, &created); err != nil {
		return nil, err
	}

	var err error
	if b.Start, err = parseTime(startStr); err != nil {
		return nil, err
	}
	if b.End, err = parseTime(endStr); err != nil {
		return nil, err
	}
	if b.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
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

// WithinTx runs fn inside one immediate transaction.
func (db *DB) WithinTx(ctx context.Context, fn func(tx domain.BookingTx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&sqliteTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", translateError(err))
	}
	return b, nil
}

// GetUserBookings returns every booking of the user, latest start first.
func (db *DB) GetUserBookings(ctx context.Context, userID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY start_at DESC, id ASC`
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user bookings: %w", err)
	}
	return scanBookings(rows)
}

// sqliteTx implements domain.BookingTx. The enclosing transaction already
// holds the database write lock, so no extra row locking is needed.
type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) LockResource(ctx context.Context, resourceID string) error {
	var active bool
	err := t.tx.QueryRowContext(ctx, `SELECT is_active FROM resources WHERE id = ?`, resourceID).Scan(&active)
	if err != nil {
		return fmt.Errorf("failed to lock resource: %w", translateError(err))
	}
	if !active {
		return fmt.Errorf("resource %s is inactive: %w", resourceID, domain.ErrRecordNotFound)
	}
	return nil
}

func (t *sqliteTx) CreatedBookingsForResource(ctx context.Context, resourceID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE resource_id = ? AND status = ? ORDER BY start_at ASC`
	rows, err := t.tx.QueryContext(ctx, query, resourceID, models.StatusCreated)
	if err != nil {
		return nil, fmt.Errorf("failed to get resource bookings: %w", err)
	}
	return scanBookings(rows)
}

func (t *sqliteTx) InsertBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (id, resource_id, user_id, start_at, end_at, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	created := formatTime(booking.CreatedAt)
	_, err := t.tx.ExecContext(ctx, query,
		booking.ID,
		booking.ResourceID,
		booking.UserID,
		formatTime(booking.Start),
		formatTime(booking.End),
		booking.Status,
		created,
		created,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", translateError(err))
	}
	return nil
}

func (t *sqliteTx) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", translateError(err))
	}
	return b, nil
}

func (t *sqliteTx) MarkBookingCancelled(ctx context.Context, id string) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	result, err := t.tx.ExecContext(ctx, query, models.StatusCancelled, formatTime(time.Now()), id, models.StatusCreated)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrConcurrentModification
	}
	return nil
}

func (t *sqliteTx) AppendAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	return appendAuditEvent(ctx, t.tx, event)
}
