package models

import "time"

// AuditEvent is an immutable record of one state-changing action.
type AuditEvent struct {
	ID         string    `json:"id"`
	ActorEmail string    `json:"actor_email"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	At         time.Time `json:"at"`
}

// AuditFilter narrows ListAuditEvents. Zero fields are ignored.
type AuditFilter struct {
	EntityID string
	From     time.Time
	To       time.Time
}
