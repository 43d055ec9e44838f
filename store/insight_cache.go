package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/Paldeepak079/AadharIQ/models"
)

// InsightCache stores generated insights by cache key.
type InsightCache interface {
	Get(ctx context.Context, key string) (*models.InsightResponse, bool, error)
	Set(ctx context.Context, key string, resp *models.InsightResponse) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (models.CacheStats, error)
}

// MemoryInsightCache keeps insights in process.
type MemoryInsightCache struct {
	c *cache.Cache
}

func NewMemoryInsightCache(ttl time.Duration) *MemoryInsightCache {
	return &MemoryInsightCache{c: cache.New(ttl, 2*ttl)}
}

func (m *MemoryInsightCache) Get(_ context.Context, key string) (*models.InsightResponse, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	resp := v.(models.InsightResponse)
	return &resp, true, nil
}

func (m *MemoryInsightCache) Set(_ context.Context, key string, resp *models.InsightResponse) error {
	m.c.SetDefault(key, *resp)
	return nil
}

func (m *MemoryInsightCache) Clear(context.Context) error {
	m.c.Flush()
	return nil
}

func (m *MemoryInsightCache) Stats(context.Context) (models.CacheStats, error) {
	items := m.c.Items()
	stats := models.CacheStats{Size: len(items), Backend: "memory"}
	for _, item := range items {
		resp := item.Object.(models.InsightResponse)
		if stats.OldestEntry == nil || resp.Timestamp < *stats.OldestEntry {
			ts := resp.Timestamp
			stats.OldestEntry = &ts
		}
	}
	return stats, nil
}

// RedisInsightCache shares insights between instances. Entries are JSON
// values with a TTL; a sorted set scored by timestamp indexes live keys.
type RedisInsightCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisInsightCache(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisInsightCache {
	return &RedisInsightCache{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisInsightCache) indexKey() string {
	return r.prefix + "index"
}

func (r *RedisInsightCache) entryKey(key string) string {
	return r.prefix + "entry:" + key
}

func (r *RedisInsightCache) Get(ctx context.Context, key string) (*models.InsightResponse, bool, error) {
	raw, err := r.client.Get(ctx, r.entryKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var resp models.InsightResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("decode cached insight: %w", err)
	}
	return &resp, true, nil
}

func (r *RedisInsightCache) Set(ctx context.Context, key string, resp *models.InsightResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode insight: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.entryKey(key), raw, r.ttl)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(resp.Timestamp), Member: key})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisInsightCache) Clear(ctx context.Context) error {
	keys, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("redis index: %w", err)
	}
	del := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		del = append(del, r.entryKey(k))
	}
	del = append(del, r.indexKey())
	if err := r.client.Del(ctx, del...).Err(); err != nil {
		return fmt.Errorf("redis clear: %w", err)
	}
	return nil
}

// Stats prunes index members whose entries have expired, then reports the
// remaining size and oldest timestamp.
func (r *RedisInsightCache) Stats(ctx context.Context) (models.CacheStats, error) {
	stats := models.CacheStats{Backend: "redis"}

	keys, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return stats, fmt.Errorf("redis index: %w", err)
	}
	for _, k := range keys {
		n, err := r.client.Exists(ctx, r.entryKey(k)).Result()
		if err != nil {
			return stats, fmt.Errorf("redis exists: %w", err)
		}
		if n == 0 {
			r.client.ZRem(ctx, r.indexKey(), k)
		}
	}

	size, err := r.client.ZCard(ctx, r.indexKey()).Result()
	if err != nil {
		return stats, fmt.Errorf("redis size: %w", err)
	}
	stats.Size = int(size)

	oldest, err := r.client.ZRangeWithScores(ctx, r.indexKey(), 0, 0).Result()
	if err != nil {
		return stats, fmt.Errorf("redis oldest: %w", err)
	}
	if len(oldest) == 1 {
		ts := int64(oldest[0].Score)
		stats.OldestEntry = &ts
	}
	return stats, nil
}
