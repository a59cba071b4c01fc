package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"caseconnect/internal/resource/models"
	"caseconnect/pkg/platform/sentinel"
)

// Redis caches serialized records with a server-side TTL so entries expire
// even when no process is running to evict them.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, resourceID int) (*models.Resource, error) {
	raw, err := c.client.Get(ctx, key(resourceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("cached resource %d: %w", resourceID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read resource cache: %w", err)
	}
	var r models.Resource
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode cached resource %d: %w", resourceID, err)
	}
	return &r, nil
}

func (c *Redis) Save(ctx context.Context, r *models.Resource) error {
	if r == nil {
		return nil
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode resource %d for cache: %w", r.ResourceID, err)
	}
	if err := c.client.Set(ctx, key(r.ResourceID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("write resource cache: %w", err)
	}
	return nil
}

func (c *Redis) Invalidate(ctx context.Context, resourceID int) error {
	if err := c.client.Del(ctx, key(resourceID)).Err(); err != nil {
		return fmt.Errorf("invalidate resource cache: %w", err)
	}
	return nil
}

func key(resourceID int) string {
	return "resource:" + strconv.Itoa(resourceID)
}
