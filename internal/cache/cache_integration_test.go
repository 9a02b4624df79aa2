//go:build integration

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/postdeck/postdeck/internal/model"
	"github.com/postdeck/postdeck/internal/platform"
	"github.com/postdeck/postdeck/internal/testutil"
)

func newIntegrationCache(t *testing.T) (context.Context, *Cache) {
	t.Helper()

	redisURL := testutil.RequireEnv(t, "REDIS_URL")
	ctx := context.Background()

	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return ctx, c
}

func TestIntegrationCache_MetricsRoundTrip(t *testing.T) {
	ctx, c := newIntegrationCache(t)

	if _, err := c.GetMetrics(ctx, "post-1", platform.Twitter); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss before write, got %v", err)
	}

	m := &model.PostMetrics{
		PostID:      "post-1",
		Platform:    platform.Twitter,
		Impressions: 1500,
		Engagements: 120,
		Likes:       80,
		Shares:      25,
		Comments:    15,
		Clicks:      30,
		FetchedAt:   time.Now().UTC().Truncate(time.Second),
	}

	if err := c.SetMetrics(ctx, m, time.Minute); err != nil {
		t.Fatalf("SetMetrics: %v", err)
	}

	got, err := c.GetMetrics(ctx, "post-1", platform.Twitter)
	if err != nil {
		t.Fatalf("GetMetrics: %v", err)
	}
	if got.Impressions != m.Impressions || got.Engagements != m.Engagements {
		t.Errorf("counts = %d/%d, want %d/%d", got.Impressions, got.Engagements, m.Impressions, m.Engagements)
	}
	if !got.FetchedAt.Equal(m.FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, m.FetchedAt)
	}

	// Another platform for the same post is a separate snapshot.
	if _, err := c.GetMetrics(ctx, "post-1", platform.LinkedIn); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss for other platform, got %v", err)
	}
}

func TestIntegrationCache_MetricsExpiry(t *testing.T) {
	ctx, c := newIntegrationCache(t)

	m := &model.PostMetrics{
		PostID:    "post-exp",
		Platform:  platform.Instagram,
		FetchedAt: time.Now().UTC(),
	}

	if err := c.SetMetrics(ctx, m, 100*time.Millisecond); err != nil {
		t.Fatalf("SetMetrics: %v", err)
	}

	time.Sleep(300 * time.Millisecond)

	if _, err := c.GetMetrics(ctx, "post-exp", platform.Instagram); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after TTL, got %v", err)
	}
}

func TestIntegrationCache_ConnectionTokens(t *testing.T) {
	ctx, c := newIntegrationCache(t)

	if _, err := c.GetConnectionToken(ctx, platform.Twitter); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss before connect, got %v", err)
	}

	hash := "$argon2id$v=19$m=65536,t=3,p=4$c2FsdHNhbHQ$aGFzaGhhc2g"
	if err := c.SetConnectionToken(ctx, platform.Twitter, hash); err != nil {
		t.Fatalf("SetConnectionToken: %v", err)
	}

	got, err := c.GetConnectionToken(ctx, platform.Twitter)
	if err != nil {
		t.Fatalf("GetConnectionToken: %v", err)
	}
	if got != hash {
		t.Errorf("hash = %q, want stored value", got)
	}

	if err := c.DeleteConnectionToken(ctx, platform.Twitter); err != nil {
		t.Fatalf("DeleteConnectionToken: %v", err)
	}
	if _, err := c.GetConnectionToken(ctx, platform.Twitter); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after delete, got %v", err)
	}
}
