package service

import (
	"context"
	"errors"
	"fmt"

	"roombook/internal/auth"
	"roombook/internal/domain"
	"roombook/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type seedUser struct {
	email    string
	password string
	role     string
}

var (
	demoUsers = []seedUser{
		{email: "admin@demo.no", password: "admin", role: models.RoleAdmin},
		{email: "user@demo.no", password: "user", role: models.RoleUser},
	}
	demoResources = []models.Resource{
		{Name: "Meeting Room A", Description: "4 seats, screen", IsActive: true},
		{Name: "Meeting Room B", Description: "8 seats, whiteboard", IsActive: true},
	}
)

// SeedService installs the demo accounts and rooms. Running it again
// resets the demo passwords and roles; existing rooms are left as they are.
type SeedService struct {
	users     domain.UserRepository
	resources domain.ResourceRepository
	catalog   domain.ResourceService
	logger    *zerolog.Logger
}

var _ domain.SeedService = (*SeedService)(nil)

func NewSeedService(users domain.UserRepository, resources domain.ResourceRepository, catalog domain.ResourceService, logger *zerolog.Logger) *SeedService {
	l := logger.With().Str("component", "seed_service").Logger()
	return &SeedService{users: users, resources: resources, catalog: catalog, logger: &l}
}

func (s *SeedService) Seed(ctx context.Context) error {
	for _, u := range demoUsers {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		user := &models.User{ID: uuid.NewString(), Email: u.email, PasswordHash: hash, Role: u.role}
		if err := s.users.UpsertUser(ctx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
	}

	created := 0
	for _, r := range demoResources {
		_, err := s.resources.GetResourceByName(ctx, r.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrRecordNotFound) {
			return fmt.Errorf("seed resource %s: %w", r.Name, err)
		}
		if _, err := s.catalog.CreateResource(ctx, r.Name, r.Description); err != nil && domain.KindOf(err) != domain.KindConflict {
			return fmt.Errorf("seed resource %s: %w", r.Name, err)
		}
		created++
	}

	s.logger.Info().Int("users", len(demoUsers)).Int("resources_created", created).Msg("Demo data seeded")
	return nil
}
