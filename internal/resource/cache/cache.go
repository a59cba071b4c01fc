// Package cache provides a TTL read cache for resource records, invalidated
// by the service on every write.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"caseconnect/internal/resource/models"
	"caseconnect/pkg/platform/sentinel"
)

// Cache is a best-effort lookaside for GetByID. A miss (or expiry) surfaces
// as sentinel.ErrNotFound; the caller falls through to the store.
type Cache interface {
	Get(ctx context.Context, resourceID int) (*models.Resource, error)
	Save(ctx context.Context, r *models.Resource) error
	Invalidate(ctx context.Context, resourceID int) error
}

type cachedResource struct {
	record   models.Resource
	storedAt time.Time
}

// Memory is an in-memory TTL cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[int]cachedResource
	ttl     time.Duration
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{entries: make(map[int]cachedResource), ttl: ttl}
}

func (c *Memory) Get(_ context.Context, resourceID int) (*models.Resource, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if cached, ok := c.entries[resourceID]; ok {
		if time.Since(cached.storedAt) < c.ttl {
			return cached.record.Clone(), nil
		}
	}
	return nil, fmt.Errorf("cached resource %d: %w", resourceID, sentinel.ErrNotFound)
}

func (c *Memory) Save(_ context.Context, r *models.Resource) error {
	if r == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[r.ResourceID] = cachedResource{record: *r.Clone(), storedAt: time.Now()}
	return nil
}

func (c *Memory) Invalidate(_ context.Context, resourceID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, resourceID)
	return nil
}
