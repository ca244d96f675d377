package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oceanerp/backend/internal/domain/analytics"
	"github.com/oceanerp/backend/internal/domain/shared"
)

const reportKeyPrefix = "analytics:platform:"

// RedisReportCache caches assembled platform metrics in Redis. Native
// analytics calls are rate limited, so comparative reports serve a recent
// snapshot instead of fanning out on every request. Keys carry the reporting
// window: requests with different bounds never share a snapshot.
type RedisReportCache struct {
	client *redis.Client
}

// NewRedisReportCache creates a cache with an existing Redis client
func NewRedisReportCache(client *redis.Client) *RedisReportCache {
	return &RedisReportCache{client: client}
}

// reportKey builds the per-platform, per-window cache key
func reportKey(platform string, from, to time.Time) string {
	return fmt.Sprintf("%s%s:%s:%s",
		reportKeyPrefix, platform, from.UTC().Format("20060102"), to.UTC().Format("20060102"))
}

// GetPlatformMetrics returns the cached snapshot for one platform and window
func (c *RedisReportCache) GetPlatformMetrics(ctx context.Context, platform string, from, to time.Time) (*analytics.PlatformMetrics, error) {
	payload, err := c.client.Get(ctx, reportKey(platform, from, to)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cached metrics: %w", err)
	}

	var metrics analytics.PlatformMetrics
	if err := json.Unmarshal(payload, &metrics); err != nil {
		return nil, fmt.Errorf("corrupt cached metrics for %s: %w", platform, err)
	}
	return &metrics, nil
}

// SetPlatformMetrics caches the snapshot for one platform and window
func (c *RedisReportCache) SetPlatformMetrics(ctx context.Context, metrics *analytics.PlatformMetrics, from, to time.Time, ttl time.Duration) error {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}
	if err := c.client.Set(ctx, reportKey(metrics.Platform, from, to), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache metrics: %w", err)
	}
	return nil
}

// Ensure RedisReportCache implements ReportCache
var _ analytics.ReportCache = (*RedisReportCache)(nil)
