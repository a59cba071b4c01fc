// Package caseconnect assembles the resource case record system: a MongoDB
// record store with GridFS attachments, a sequence allocator for resource
// identifiers, and an optional Redis read cache, all behind one Service.
package caseconnect

import (
	"context"

	"github.com/rs/zerolog"

	"caseconnect/internal/blob"
	"caseconnect/internal/counter"
	"caseconnect/internal/platform/config"
	"caseconnect/internal/platform/logger"
	pmongo "caseconnect/internal/platform/mongo"
	predis "caseconnect/internal/platform/redis"
	"caseconnect/internal/resource/cache"
	"caseconnect/internal/resource/metrics"
	"caseconnect/internal/resource/service"
	"caseconnect/internal/resource/store"
)

// System owns the backing connections and the service built on them.
type System struct {
	Service *service.Service

	mongo *pmongo.Client
	redis *predis.Client
}

// Open connects to the configured backends and wires the service. The Redis
// cache is optional; an empty RedisURL leaves record reads uncached.
// Registering metrics twice panics, so open at most one System per process.
func Open(ctx context.Context, cfg config.Config, log zerolog.Logger) (*System, error) {
	mc, err := pmongo.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rc, err := predis.New(cfg)
	if err != nil {
		_ = mc.Close(ctx)
		return nil, err
	}

	db := mc.Database()
	records := store.NewMongo(db)
	blobs, err := blob.NewGridFS(db)
	if err != nil {
		_ = mc.Close(ctx)
		if rc != nil {
			_ = rc.Close()
		}
		return nil, err
	}
	ids := counter.NewMongo(db, records.Collection())

	var c cache.Cache
	if rc != nil {
		c = cache.NewRedis(rc.Client, cfg.CacheTTL)
	}

	return &System{
		Service: service.New(records, ids, blobs, c, metrics.New(), log),
		mongo:   mc,
		redis:   rc,
	}, nil
}

// OpenFromEnv is Open with environment-derived configuration and a default
// stdout logger.
func OpenFromEnv(ctx context.Context) (*System, error) {
	return Open(ctx, config.FromEnv(), logger.New())
}

// Health pings every configured backend.
func (s *System) Health(ctx context.Context) error {
	if err := s.mongo.Health(ctx); err != nil {
		return err
	}
	if s.redis != nil {
		return s.redis.Health(ctx)
	}
	return nil
}

// Close releases the backing connections.
func (s *System) Close(ctx context.Context) error {
	var firstErr error
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			firstErr = err
		}
	}
	if err := s.mongo.Close(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
