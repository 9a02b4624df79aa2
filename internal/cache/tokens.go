package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/postdeck/postdeck/internal/platform"
)

const tokenKeyPrefix = "conn:"

func tokenKey(pl platform.Platform) string {
	return tokenKeyPrefix + string(pl)
}

// GetConnectionToken returns the stored token hash for a platform
// connection, or ErrCacheMiss when the platform is not connected.
func (c *Cache) GetConnectionToken(ctx context.Context, pl platform.Platform) (string, error) {
	hash, err := c.client.Get(ctx, tokenKey(pl)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return hash, nil
}

// SetConnectionToken stores the token hash for a platform connection.
// Tokens have no expiry; disconnecting removes them.
func (c *Cache) SetConnectionToken(ctx context.Context, pl platform.Platform, hash string) error {
	if err := c.client.Set(ctx, tokenKey(pl), hash, 0).Err(); err != nil {
		return fmt.Errorf("failed to store connection token: %w", err)
	}
	return nil
}

// DeleteConnectionToken removes a platform connection.
func (c *Cache) DeleteConnectionToken(ctx context.Context, pl platform.Platform) error {
	if err := c.client.Del(ctx, tokenKey(pl)).Err(); err != nil {
		return fmt.Errorf("failed to delete connection token: %w", err)
	}
	return nil
}
