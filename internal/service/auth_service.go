package service

import (
	"context"
	"errors"
	"fmt"

	"roombook/internal/auth"
	"roombook/internal/domain"
	"roombook/internal/metrics"
	"roombook/internal/models"

	"github.com/rs/zerolog"
)

// Same message for unknown email and wrong password.
const msgInvalidCredentials = "invalid email or password"

type AuthService struct {
	users  domain.UserRepository
	tokens *auth.TokenManager
	logger *zerolog.Logger
	// compared against when the email is unknown so both failure paths
	// cost one bcrypt comparison
	dummyHash string
}

var _ domain.AuthService = (*AuthService)(nil)

func NewAuthService(users domain.UserRepository, tokens *auth.TokenManager, logger *zerolog.Logger) *AuthService {
	l := logger.With().Str("component", "auth_service").Logger()
	dummy, err := auth.HashPassword("roombook-unknown-user")
	if err != nil {
		l.Warn().Err(err).Msg("Failed to prepare dummy password hash")
	}
	return &AuthService{users: users, tokens: tokens, logger: &l, dummyHash: dummy}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.NewValidation("email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		_, _ = auth.CheckPassword(s.dummyHash, password)
		metrics.IncLogin(false)
		return nil, domain.NewUnauthorized(msgInvalidCredentials)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		metrics.IncLogin(false)
		s.logger.Info().Str("email", email).Msg("Login failed")
		return nil, domain.NewUnauthorized(msgInvalidCredentials)
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.IncLogin(true)
	s.logger.Info().Str("user_id", user.ID).Msg("Login succeeded")
	return &models.Session{Token: token, Email: user.Email, Role: user.Role, ExpiresAt: expiresAt}, nil
}
