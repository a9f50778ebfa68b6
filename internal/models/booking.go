package models

import "time"

type Booking struct {
	ID         string    `json:"id"`
	ResourceID string    `json:"resource_id"`
	UserID     string    `json:"user_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"` // Created, Cancelled
	CreatedAt  time.Time `json:"created_at"`
}

// IsCancelled reports whether the booking already left the Created state.
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}
