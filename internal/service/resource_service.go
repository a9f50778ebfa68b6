package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"roombook/internal/domain"
	"roombook/internal/metrics"
	"roombook/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ResourceService is the resource catalog. The active listing is served
// cache-aside; bookability is always answered from the store.
type ResourceService struct {
	repo     domain.ResourceRepository
	cache    domain.ResourceCache
	cacheTTL time.Duration
	logger   *zerolog.Logger
}

var _ domain.ResourceService = (*ResourceService)(nil)

// NewResourceService builds the catalog. cache may be nil.
func NewResourceService(repo domain.ResourceRepository, cache domain.ResourceCache, cacheTTL time.Duration, logger *zerolog.Logger) *ResourceService {
	l := logger.With().Str("component", "resource_service").Logger()
	if cacheTTL <= 0 {
		cacheTTL = models.ResourcesCacheTTL * time.Second
	}
	return &ResourceService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   &l,
	}
}

// GetActiveResources returns active resources ordered by name.
func (s *ResourceService) GetActiveResources(ctx context.Context) ([]*models.Resource, error) {
	if s.cache != nil {
		resources, hit, err := s.cache.GetActiveResources(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Resource cache read failed")
		} else {
			metrics.IncResourceCache(hit)
			if hit {
				return resources, nil
			}
		}
	}

	resources, err := s.repo.GetActiveResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active resources: %w", err)
	}
	if resources == nil {
		resources = []*models.Resource{}
	}

	if s.cache != nil {
		if err := s.cache.SetActiveResources(ctx, resources, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("Resource cache write failed")
		}
	}
	return resources, nil
}

func (s *ResourceService) IsBookable(ctx context.Context, resourceID string) (bool, error) {
	resource, err := s.repo.GetResourceByID(ctx, resourceID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return resource.IsActive, nil
}

func (s *ResourceService) CreateResource(ctx context.Context, name, description string) (*models.Resource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidation("name is required")
	}

	resource := &models.Resource{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		IsActive:    true,
	}
	if err := s.repo.CreateResource(ctx, resource); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewConflict("resource name already exists")
		}
		return nil, fmt.Errorf("create resource: %w", err)
	}

	s.invalidate(ctx)
	s.logger.Info().Str("resource_id", resource.ID).Str("name", name).Msg("Resource created")
	return resource, nil
}

func (s *ResourceService) SetResourceActive(ctx context.Context, id string, active bool) error {
	if err := s.repo.SetResourceActive(ctx, id, active); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.NewNotFound("resource not found")
		}
		return fmt.Errorf("update resource: %w", err)
	}

	s.invalidate(ctx)
	s.logger.Info().Str("resource_id", id).Bool("active", active).Msg("Resource updated")
	return nil
}

// ImportResult summarises an ImportResources run.
type ImportResult struct {
	Created int
	Updated int
}

// ImportResources upserts resources by name. IDs in the input are ignored
// for existing names and generated when empty for new ones.
func (s *ResourceService) ImportResources(ctx context.Context, resources []models.Resource) (ImportResult, error) {
	var result ImportResult

	for i := range resources {
		in := resources[i]
		in.Name = strings.TrimSpace(in.Name)
		if in.Name == "" {
			return result, domain.NewValidation(fmt.Sprintf("resource #%d: name is required", i+1))
		}

		existing, err := s.repo.GetResourceByName(ctx, in.Name)
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			if in.ID == "" {
				in.ID = uuid.NewString()
			}
			if err := s.repo.CreateResource(ctx, &in); err != nil {
				return result, fmt.Errorf("import %q: %w", in.Name, err)
			}
			result.Created++
		case err != nil:
			return result, fmt.Errorf("import %q: %w", in.Name, err)
		default:
			existing.Description = in.Description
			existing.IsActive = in.IsActive
			if err := s.repo.UpdateResource(ctx, existing); err != nil {
				return result, fmt.Errorf("import %q: %w", in.Name, err)
			}
			result.Updated++
		}
	}

	s.invalidate(ctx)
	s.logger.Info().Int("created", result.Created).Int("updated", result.Updated).Msg("Resources imported")
	return result, nil
}

func (s *ResourceService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Resource cache invalidation failed")
	}
}
