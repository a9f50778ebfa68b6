package repository

import (
	"context"
	"sync/atomic"
	"time"

	"roombook/internal/domain"
	"roombook/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverResourceCache uses primary (Redis) and switches to fallback
// (memory) after a primary error. Recovery is retried once a minute.
type FailoverResourceCache struct {
	primary   domain.ResourceCache
	fallback  domain.ResourceCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverResourceCache(primary, fallback domain.ResourceCache, logger *zerolog.Logger) *FailoverResourceCache {
	return &FailoverResourceCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverResourceCache) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary resource cache failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

// usePrimary reports whether calls should go to the primary. While the
// primary is down it may have missed invalidations, so recovery starts by
// clearing it.
func (r *FailoverResourceCache) usePrimary(ctx context.Context) bool {
	if !r.isDown.Load() {
		return true
	}
	if time.Since(time.Unix(0, r.lastCheck.Load())) < recoveryInterval {
		return false
	}
	if err := r.primary.Invalidate(ctx); err != nil {
		r.lastCheck.Store(time.Now().UnixNano())
		return false
	}
	r.logger.Info().Msg("Primary resource cache recovered")
	r.isDown.Store(false)
	return true
}

func (r *FailoverResourceCache) GetActiveResources(ctx context.Context) ([]*models.Resource, bool, error) {
	if r.usePrimary(ctx) {
		resources, hit, err := r.primary.GetActiveResources(ctx)
		if err == nil {
			return resources, hit, nil
		}
		r.markDown(err)
	}

	return r.fallback.GetActiveResources(ctx)
}

func (r *FailoverResourceCache) SetActiveResources(ctx context.Context, resources []*models.Resource, ttl time.Duration) error {
	if r.usePrimary(ctx) {
		err := r.primary.SetActiveResources(ctx, resources, ttl)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetActiveResources(ctx, resources, ttl)
}

// Invalidate clears both layers so neither serves a stale listing.
func (r *FailoverResourceCache) Invalidate(ctx context.Context) error {
	if err := r.primary.Invalidate(ctx); err != nil && !r.isDown.Load() {
		r.markDown(err)
	}
	return r.fallback.Invalidate(ctx)
}
