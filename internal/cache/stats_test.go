package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "newsdesk/internal/domain/models/articles"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisStatsCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStatsCacheWithClient(client, "test_", ttl), mr
}

func sampleStats() *models.Stats {
	return &models.Stats{
		Total:       3,
		Published:   2,
		Draft:       1,
		ByType:      map[string]int{"news": 2, "educational": 1},
		ByCategory:  map[string]int{"bitcoin": 3},
		BySentiment: map[string]int{"neutral": 3},
	}
}

func TestRedisStatsCache_MissThenHit(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, time.Minute)

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, sampleStats()))

	got, ok, err = c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleStats(), got)
}

func TestRedisStatsCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	require.NoError(t, c.Set(ctx, sampleStats()))
	assert.True(t, mr.Exists("test_articles:stats"))

	require.NoError(t, c.Invalidate(ctx))
	assert.False(t, mr.Exists("test_articles:stats"))

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStatsCache_Expires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, 30*time.Second)

	require.NoError(t, c.Set(ctx, sampleStats()))
	mr.FastForward(31 * time.Second)

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStatsCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	require.NoError(t, mr.Set("test_articles:stats", "{not json"))

	_, ok, err := c.Get(ctx)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedisStatsCache_BadURL(t *testing.T) {
	_, err := NewRedisStatsCache("not-a-url://", "dev_", time.Second)
	assert.Error(t, err)
}
