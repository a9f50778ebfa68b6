package models

import (
	"strings"
	"time"
)

// NormalizeEmail lowercases and trims an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UTC returns t as a UTC instant, dropping the monotonic reading.
func UTC(t time.Time) time.Time {
	return t.UTC().Round(0)
}

// IsAdmin compares roles case-insensitively to tolerate upstream variance.
func IsAdmin(role string) bool {
	return strings.EqualFold(strings.TrimSpace(role), RoleAdmin)
}
