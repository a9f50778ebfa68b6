package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"roombook/internal/config"
	"roombook/internal/models"

	"github.com/redis/go-redis/v9"
)

const activeResourcesKey = "roombook:resources:active"

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

// RedisResourceCache stores the active resource listing as one JSON value.
type RedisResourceCache struct {
	client *redis.Client
	key    string
}

func NewRedisResourceCache(client *redis.Client) *RedisResourceCache {
	return &RedisResourceCache{
		client: client,
		key:    activeResourcesKey,
	}
}

func (r *RedisResourceCache) GetActiveResources(ctx context.Context) ([]*models.Resource, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get resources from redis: %w", err)
	}

	var resources []*models.Resource
	if err := json.Unmarshal(val, &resources); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal resources: %w", err)
	}

	return resources, true, nil
}

func (r *RedisResourceCache) SetActiveResources(ctx context.Context, resources []*models.Resource, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if resources == nil {
		resources = []*models.Resource{}
	}
	data, err := json.Marshal(resources)
	if err != nil {
		return fmt.Errorf("failed to marshal resources: %w", err)
	}

	if err := r.client.Set(ctx, r.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set resources in redis: %w", err)
	}

	return nil
}

func (r *RedisResourceCache) Invalidate(ctx context.Context) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to delete resources from redis: %w", err)
	}
	return nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
