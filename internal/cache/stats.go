// Package cache holds the Redis-backed stats cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	models "newsdesk/internal/domain/models/articles"
	articlesSvc "newsdesk/internal/domain/services/articles"
)

// RedisStatsCache stores the latest stats snapshot under a single key
type RedisStatsCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

var _ articlesSvc.StatsCache = (*RedisStatsCache)(nil)

// NewRedisStatsCache creates a cache from a redis:// URL.
// The key is namespaced with the table prefix so environments don't collide.
func NewRedisStatsCache(url, prefix string, ttl time.Duration) (*RedisStatsCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisStatsCacheWithClient(redis.NewClient(opts), prefix, ttl), nil
}

// NewRedisStatsCacheWithClient wraps an existing client
func NewRedisStatsCacheWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{
		client: client,
		key:    StatsKey(prefix),
		ttl:    ttl,
	}
}

// StatsKey is the cache key for a table prefix
func StatsKey(prefix string) string {
	return prefix + "articles:stats"
}

// Ping checks connectivity
func (c *RedisStatsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisStatsCache) Close() error {
	return c.client.Close()
}

// Get returns the cached snapshot; ok is false on a miss
func (c *RedisStatsCache) Get(ctx context.Context) (*models.Stats, bool, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get stats: %w", err)
	}

	var stats models.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		// Corrupt entry behaves like a miss; the next Set overwrites it
		return nil, false, fmt.Errorf("decode stats: %w", err)
	}
	return &stats, true, nil
}

// Set stores a snapshot with the configured TTL
func (c *RedisStatsCache) Set(ctx context.Context, stats *models.Stats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("set stats: %w", err)
	}
	return nil
}

// Invalidate drops the snapshot
func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("invalidate stats: %w", err)
	}
	return nil
}
