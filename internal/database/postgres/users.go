package postgres

import (
	"context"
	"fmt"

	"roombook/internal/models"
)

// UpsertUser inserts the user or resets password hash and role of an
// existing email. user.ID is set to the stored id.
func (s *Store) UpsertUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, email, password_hash, role)
              VALUES ($1, $2, $3, $4)
              ON CONFLICT (email) DO UPDATE SET
                password_hash = EXCLUDED.password_hash,
                role = EXCLUDED.role,
                updated_at = now()
              RETURNING id`
	err := s.db.QueryRowContext(ctx, query,
		user.ID,
		models.NormalizeEmail(user.Email),
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", translateError(err))
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.queryUser(ctx, `SELECT id, email, password_hash, role FROM users WHERE email = $1`, models.NormalizeEmail(email))
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.queryUser(ctx, `SELECT id, email, password_hash, role FROM users WHERE id = $1`, id)
}

func (s *Store) queryUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", translateError(err))
	}
	return &user, nil
}
