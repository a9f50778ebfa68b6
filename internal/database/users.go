package database

import (
	"context"
	"fmt"
	"time"

	"roombook/internal/models"
)

// UpsertUser inserts the user or, when the email exists, replaces its
// password hash and role. user.ID is set to the stored id.
func (db *DB) UpsertUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, email, password_hash, role, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)
              ON CONFLICT(email) DO UPDATE SET
                password_hash = excluded.password_hash,
                role = excluded.role,
                updated_at = excluded.updated_at
              RETURNING id`
	now := formatTime(time.Now())
	err := db.QueryRowContext(ctx, query,
		user.ID,
		models.NormalizeEmail(user.Email),
		user.PasswordHash,
		user.Role,
		now,
		now,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", translateError(err))
	}
	return nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, email, password_hash, role FROM users WHERE email = ?`
	return db.queryUser(ctx, query, models.NormalizeEmail(email))
}

func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, email, password_hash, role FROM users WHERE id = ?`
	return db.queryUser(ctx, query, id)
}

func (db *DB) queryUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := db.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", translateError(err))
	}
	return &user, nil
}
