package domain

import (
	"time"

	"roombook/internal/models"
)

// Overlaps reports whether [startA, endA) and [startB, endB) intersect.
// Intervals that only touch (endA == startB) do not overlap.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && endA.After(startB)
}

// CanCancel allows the booking owner or any Admin.
func CanCancel(ownerUserID, callerUserID, callerRole string) bool {
	return ownerUserID == callerUserID || models.IsAdmin(callerRole)
}

// FirstOverlap returns the first booking in existing that overlaps [start, end).
func FirstOverlap(existing []*models.Booking, start, end time.Time) *models.Booking {
	for _, b := range existing {
		if b.Status != models.StatusCreated {
			continue
		}
		if Overlaps(start, end, b.Start, b.End) {
			return b
		}
	}
	return nil
}
