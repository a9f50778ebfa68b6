package main

import (
	"context"
	"fmt"
	"io"

	"roombook/internal/config"
	"roombook/internal/database"
	"roombook/internal/domain"
	"roombook/internal/logging"
	"roombook/internal/repository"
	"roombook/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// env holds what every command needs: config, logger, store and the
// resource catalog (sharing the API's Redis cache so writes invalidate it).
type env struct {
	cfg       *config.Config
	logger    *zerolog.Logger
	store     domain.Store
	resources *service.ResourceService
	redis     *redis.Client
	closer    io.Closer
}

func newEnv(ctx context.Context, configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "admin").Logger()

	store, err := database.Open(ctx, cfg.Database, &logger)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, fmt.Errorf("open database: %w", err)
	}

	e := &env{cfg: cfg, logger: &logger, store: store, closer: closer}

	var cache domain.ResourceCache = repository.NewMemoryResourceCache()
	if cfg.Redis.Enabled && cfg.Redis.Address != "" {
		e.redis = repository.NewRedisClient(cfg.Redis)
		if err := e.redis.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, cached resource listing may be stale until it expires")
		}
		cache = repository.NewFailoverResourceCache(repository.NewRedisResourceCache(e.redis), cache, &logger)
	}
	e.resources = service.NewResourceService(store, cache, cfg.Redis.CacheTTL, &logger)

	return e, nil
}

func (e *env) Close() {
	if e.redis != nil {
		_ = e.redis.Close()
	}
	_ = e.store.Close()
	if e.closer != nil {
		_ = e.closer.Close()
	}
}
