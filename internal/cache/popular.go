package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"contesto/internal/models"

	"github.com/go-redis/redis/v8"
)

const popularKey = "contests:popular"

// PopularCache stores the ranked popular-contest list
type PopularCache interface {
	GetPopular(ctx context.Context) ([]models.ContestSummary, bool, error)
	SetPopular(ctx context.Context, contests []models.ContestSummary) error
	InvalidatePopular(ctx context.Context) error
}

// RedisCache keeps the popular list in Redis under a single key
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedisCache wraps client with the given entry ttl
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) GetPopular(ctx context.Context) ([]models.ContestSummary, bool, error) {
	data, err := c.client.Get(ctx, popularKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var contests []models.ContestSummary
	if err := json.Unmarshal(data, &contests); err != nil {
		return nil, false, fmt.Errorf("decode popular contests: %w", err)
	}
	return contests, true, nil
}

func (c *RedisCache) SetPopular(ctx context.Context, contests []models.ContestSummary) error {
	data, err := json.Marshal(contests)
	if err != nil {
		return fmt.Errorf("encode popular contests: %w", err)
	}
	return c.client.Set(ctx, popularKey, data, c.ttl).Err()
}

func (c *RedisCache) InvalidatePopular(ctx context.Context) error {
	return c.client.Del(ctx, popularKey).Err()
}

// Noop is used when no Redis is configured
type Noop struct{}

func (Noop) GetPopular(context.Context) ([]models.ContestSummary, bool, error) { return nil, false, nil }
func (Noop) SetPopular(context.Context, []models.ContestSummary) error        { return nil }
func (Noop) InvalidatePopular(context.Context) error                          { return nil }
