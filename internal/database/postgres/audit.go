package postgres

import (
	"context"
	"fmt"
	"strings"

	"roombook/internal/models"
)

// ListAuditEvents returns matching events in insertion order.
func (s *Store) ListAuditEvents(ctx context.Context, filter models.AuditFilter) ([]*models.AuditEvent, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.EntityID != "" {
		add("entity_id = $%d", filter.EntityID)
	}
	if !filter.From.IsZero() {
		add("at >= $%d", filter.From.UTC())
	}
	if !filter.To.IsZero() {
		add("at < $%d", filter.To.UTC())
	}

	query := `SELECT id, actor_email, action, entity_type, entity_id, at FROM audit_events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY at ASC, seq ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	var events []*models.AuditEvent
	for rows.Next() {
		var e models.AuditEvent
		if err := rows.Scan(&e.ID, &e.ActorEmail, &e.Action, &e.EntityType, &e.EntityID, &e.At); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		e.At = e.At.UTC()
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit events: %w", err)
	}
	return events, nil
}
