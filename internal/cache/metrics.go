package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/postdeck/postdeck/internal/model"
	"github.com/postdeck/postdeck/internal/platform"
)

// Cache key prefixes.
const (
	metricsKeyPrefix = "metrics:"

	// DefaultMetricsTTL bounds how stale a cached metrics snapshot may be.
	DefaultMetricsTTL = 5 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

func metricsKey(postID string, pl platform.Platform) string {
	return metricsKeyPrefix + postID + ":" + string(pl)
}

// GetMetrics retrieves a cached metrics snapshot for a (post, platform) pair.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetMetrics(ctx context.Context, postID string, pl platform.Platform) (*model.PostMetrics, error) {
	key := metricsKey(postID, pl)

	result, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	cached := &model.CachedMetrics{
		Impressions: result["impressions"],
		Engagements: result["engagements"],
		Clicks:      result["clicks"],
		Shares:      result["shares"],
		Comments:    result["comments"],
		Likes:       result["likes"],
		FetchedAt:   result["fetched_at"],
	}

	return cached.ToPostMetrics(postID, pl), nil
}

// SetMetrics stores a metrics snapshot with the given TTL. Each store
// overwrites the previous snapshot; history is not kept.
func (c *Cache) SetMetrics(ctx context.Context, m *model.PostMetrics, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultMetricsTTL
	}

	key := metricsKey(m.PostID, m.Platform)
	cached := m.ToCachedMetrics()

	fields := map[string]any{
		"impressions": cached.Impressions,
		"engagements": cached.Engagements,
		"clicks":      cached.Clicks,
		"shares":      cached.Shares,
		"comments":    cached.Comments,
		"likes":       cached.Likes,
		"fetched_at":  cached.FetchedAt,
	}

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache metrics: %w", err)
	}

	return nil
}
