package models

import "time"

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"` // User, Admin
}

// Identity is the authenticated caller as established by the token middleware.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// Session is returned by a successful login.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
