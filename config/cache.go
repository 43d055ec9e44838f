package config

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	defaultAnalyticsTTL = 5 * time.Minute
	defaultCleanup      = 10 * time.Minute
)

// NewResponseCache returns the in-process cache for computed analytics
// responses.
func NewResponseCache(cfg CacheConfig) *cache.Cache {
	ttl := cfg.AnalyticsTTL
	if ttl <= 0 {
		ttl = defaultAnalyticsTTL
	}
	cleanup := cfg.CleanupInterval
	if cleanup <= 0 {
		cleanup = defaultCleanup
	}
	return cache.New(ttl, cleanup)
}

// GetCacheKey joins a prefix and parameters with colons.
func GetCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}
	return key
}
