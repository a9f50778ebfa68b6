package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"roombook/internal/models"
)

// appendAuditEvent is only reachable through a booking transaction.
func appendAuditEvent(ctx context.Context, tx *sql.Tx, event *models.AuditEvent) error {
	query := `INSERT INTO audit_events (id, actor_email, action, entity_type, entity_id, at)
              VALUES (?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, query,
		event.ID,
		event.ActorEmail,
		event.Action,
		event.EntityType,
		event.EntityID,
		formatTime(event.At),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit event: %w", translateError(err))
	}
	return nil
}

// ListAuditEvents returns matching events oldest first.
func (db *DB) ListAuditEvents(ctx context.Context, filter models.AuditFilter) ([]*models.AuditEvent, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.EntityID != "" {
		where = append(where, "entity_id = ?")
		args = append(args, filter.EntityID)
	}
	if !filter.From.IsZero() {
		where = append(where, "at >= ?")
		args = append(args, formatTime(filter.From))
	}
	if !filter.To.IsZero() {
		where = append(where, "at < ?")
		args = append(args, formatTime(filter.To))
	}

	query := `SELECT id, actor_email, action, entity_type, entity_id, at FROM audit_events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY at ASC, rowid ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	var events []*models.AuditEvent
	for rows.Next() {
		var (
			e     models.AuditEvent
			atStr string
		)
		if err := rows.Scan(&e.ID, &e.ActorEmail, &e.Action, &e.EntityType, &e.EntityID, &atStr); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		if e.At, err = parseTime(atStr); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit events: %w", err)
	}
	return events, nil
}
