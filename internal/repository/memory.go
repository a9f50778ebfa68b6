package repository

import (
	"context"
	"sync"
	"time"

	"roombook/internal/models"
)

// MemoryResourceCache is the process-local cache used when Redis is
// disabled or unavailable.
type MemoryResourceCache struct {
	mu        sync.RWMutex
	resources []*models.Resource
	expiresAt time.Time
	now       func() time.Time
}

func NewMemoryResourceCache() *MemoryResourceCache {
	return &MemoryResourceCache{now: time.Now}
}

func (c *MemoryResourceCache) GetActiveResources(_ context.Context) ([]*models.Resource, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.resources == nil || !c.now().Before(c.expiresAt) {
		return nil, false, nil
	}
	return cloneResources(c.resources), true, nil
}

func (c *MemoryResourceCache) SetActiveResources(_ context.Context, resources []*models.Resource, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resources = cloneResources(resources)
	c.expiresAt = c.now().Add(ttl)
	return nil
}

func (c *MemoryResourceCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resources = nil
	return nil
}

// cloneResources copies so callers cannot mutate cached entries.
func cloneResources(in []*models.Resource) []*models.Resource {
	out := make([]*models.Resource, 0, len(in))
	for _, r := range in {
		cp := *r
		out = append(out, &cp)
	}
	return out
}
