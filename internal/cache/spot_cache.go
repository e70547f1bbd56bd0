package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"parkshare/internal/domain"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// SpotCache holds spot documents read by id.
type SpotCache interface {
	Get(ctx context.Context, id string) (*domain.ParkingSpot, error)
	Set(ctx context.Context, spot *domain.ParkingSpot) error
	Invalidate(ctx context.Context, id string) error
}

type RedisSpotCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisSpotCache(client redis.Cmdable, ttl time.Duration) *RedisSpotCache {
	return &RedisSpotCache{client: client, ttl: ttl}
}

func spotKey(id string) string { return "parking_spot:" + id }

func (c *RedisSpotCache) Get(ctx context.Context, id string) (*domain.ParkingSpot, error) {
	raw, err := c.client.Get(ctx, spotKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("SpotCache.Get: %w", err)
	}
	spot := &domain.ParkingSpot{}
	if err := json.Unmarshal([]byte(raw), spot); err != nil {
		return nil, fmt.Errorf("SpotCache.Get decode: %w", err)
	}
	return spot, nil
}

func (c *RedisSpotCache) Set(ctx context.Context, spot *domain.ParkingSpot) error {
	b, err := json.Marshal(spot)
	if err != nil {
		return fmt.Errorf("SpotCache.Set encode: %w", err)
	}
	if err := c.client.Set(ctx, spotKey(spot.ID), string(b), c.ttl).Err(); err != nil {
		return fmt.Errorf("SpotCache.Set: %w", err)
	}
	return nil
}

func (c *RedisSpotCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, spotKey(id)).Err(); err != nil {
		return fmt.Errorf("SpotCache.Invalidate: %w", err)
	}
	return nil
}

// NopSpotCache never stores anything; every Get is a miss.
type NopSpotCache struct{}

func (NopSpotCache) Get(context.Context, string) (*domain.ParkingSpot, error) { return nil, ErrCacheMiss }
func (NopSpotCache) Set(context.Context, *domain.ParkingSpot) error           { return nil }
func (NopSpotCache) Invalidate(context.Context, string) error                 { return nil }
