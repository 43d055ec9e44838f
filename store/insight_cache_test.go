package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paldeepak079/AadharIQ/models"
)

func insight(text string, ts int64) *models.InsightResponse {
	return &models.InsightResponse{
		Insight:         text,
		Tags:            []models.TrendTag{{Type: "update-backlog", Severity: "medium", Confidence: 0.7}},
		ActionableSteps: []string{"Deploy mobile update vans"},
		Timestamp:       ts,
	}
}

func TestMemoryInsightCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryInsightCache(time.Minute)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "a", insight("first", 200)))
	require.NoError(t, c.Set(ctx, "b", insight("second", 100)))

	got, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", got.Insight)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, "memory", stats.Backend)
	require.NotNil(t, stats.OldestEntry)
	assert.Equal(t, int64(100), *stats.OldestEntry)

	require.NoError(t, c.Clear(ctx))
	stats, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Size)
	assert.Nil(t, stats.OldestEntry)
}

func TestMemoryInsightCache_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryInsightCache(time.Minute)
	require.NoError(t, c.Set(ctx, "a", insight("first", 1)))

	got, _, _ := c.Get(ctx, "a")
	got.Insight = "mutated"

	again, _, _ := c.Get(ctx, "a")
	assert.Equal(t, "first", again.Insight)
}

func newRedisCache(t *testing.T) (*RedisInsightCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisInsightCache(client, "test:insight:", 30*time.Minute), mr
}

func TestRedisInsightCache(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "Kerala-citizen-EN-x", insight("first", 1700000000000)))
	require.NoError(t, c.Set(ctx, "Bihar-analyst-EN-y", insight("second", 1700000005000)))

	assert.True(t, mr.Exists("test:insight:entry:Kerala-citizen-EN-x"))
	assert.Equal(t, 30*time.Minute, mr.TTL("test:insight:entry:Kerala-citizen-EN-x"))

	got, ok, err := c.Get(ctx, "Kerala-citizen-EN-x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", got.Insight)
	assert.Equal(t, []string{"Deploy mobile update vans"}, got.ActionableSteps)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "redis", stats.Backend)
	assert.Equal(t, 2, stats.Size)
	require.NotNil(t, stats.OldestEntry)
	assert.Equal(t, int64(1700000000000), *stats.OldestEntry)

	require.NoError(t, c.Clear(ctx))
	stats, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Size)
	assert.Nil(t, stats.OldestEntry)
	assert.False(t, mr.Exists("test:insight:entry:Bihar-analyst-EN-y"))
}

func TestRedisInsightCache_StatsPrunesExpired(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	require.NoError(t, c.Set(ctx, "old", insight("old", 1)))
	mr.FastForward(31 * time.Minute)
	require.NoError(t, c.Set(ctx, "new", insight("new", 2)))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Size)
	require.NotNil(t, stats.OldestEntry)
	assert.Equal(t, int64(2), *stats.OldestEntry)
}

func TestRedisInsightCache_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	c := NewRedisInsightCache(client, "test:", time.Minute)
	mr.Close()

	_, _, err = c.Get(context.Background(), "k")
	assert.Error(t, err)
}
