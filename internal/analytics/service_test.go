package analytics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/postdeck/postdeck/internal/cache"
	"github.com/postdeck/postdeck/internal/model"
	"github.com/postdeck/postdeck/internal/platform"
	"github.com/postdeck/postdeck/internal/repository"
	"github.com/postdeck/postdeck/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSnapshotCache is an in-process SnapshotCache for tests.
type fakeSnapshotCache struct {
	mu      sync.Mutex
	entries map[string]*model.PostMetrics
	sets    int
	getErr  error
}

func newFakeSnapshotCache() *fakeSnapshotCache {
	return &fakeSnapshotCache{entries: make(map[string]*model.PostMetrics)}
}

func (f *fakeSnapshotCache) GetMetrics(ctx context.Context, postID string, pl platform.Platform) (*model.PostMetrics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	m, ok := f.entries[postID+":"+string(pl)]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return m, nil
}

func (f *fakeSnapshotCache) SetMetrics(ctx context.Context, m *model.PostMetrics, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[m.PostID+":"+string(m.Platform)] = m
	f.sets++
	return nil
}

// countingFetcher wraps StubFetcher and counts calls.
type countingFetcher struct {
	inner *StubFetcher
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingFetcher) FetchMetrics(ctx context.Context, postID string, pl platform.Platform) (*model.PostMetrics, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.FetchMetrics(ctx, postID, pl)
}

func (c *countingFetcher) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func seedPublished(t *testing.T, store *repository.Memory, id, content string, platforms ...platform.Platform) {
	t.Helper()

	ctx := context.Background()
	past := time.Now().Add(-time.Hour).UTC()
	post := &model.ScheduledPost{
		ID:            id,
		Content:       content,
		Platforms:     platforms,
		ScheduledTime: &past,
		Status:        model.PostStatusScheduled,
		CreatedAt:     past,
	}
	if err := store.CreatePost(ctx, post); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if err := store.MarkPublished(ctx, id, time.Now().UTC()); err != nil {
		t.Fatalf("MarkPublished: %v", err)
	}
}

func TestServiceUnified_FetchesAndCaches(t *testing.T) {
	t.Parallel()

	store := repository.NewMemory()
	seedPublished(t, store, "p1", "first post", platform.Twitter, platform.LinkedIn)
	seedPublished(t, store, "p2", "second post", platform.Instagram)

	snapshots := newFakeSnapshotCache()
	fetcher := &countingFetcher{inner: NewStubFetcher()}
	svc := NewService(store, snapshots, fetcher, testLogger(), nil)

	out, err := svc.Unified(context.Background())
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}

	if out.TotalPosts != 2 {
		t.Errorf("TotalPosts = %d, want 2", out.TotalPosts)
	}
	// One fetch per (post, platform) pair.
	if fetcher.count() != 3 {
		t.Errorf("fetch calls = %d, want 3", fetcher.count())
	}
	if snapshots.sets != 3 {
		t.Errorf("cache writes = %d, want 3", snapshots.sets)
	}
	if out.TotalImpressions == 0 {
		t.Error("expected nonzero impressions from stub fetcher")
	}

	// Second call is served entirely from cache.
	if _, err := svc.Unified(context.Background()); err != nil {
		t.Fatalf("Unified (cached): %v", err)
	}
	if fetcher.count() != 3 {
		t.Errorf("fetch calls after cached read = %d, want 3", fetcher.count())
	}
}

func TestServiceUnified_NoCacheConfigured(t *testing.T) {
	t.Parallel()

	store := repository.NewMemory()
	seedPublished(t, store, "p1", "solo", platform.Twitter)

	fetcher := &countingFetcher{inner: NewStubFetcher()}
	svc := NewService(store, nil, fetcher, testLogger(), nil)

	for i := 0; i < 2; i++ {
		if _, err := svc.Unified(context.Background()); err != nil {
			t.Fatalf("Unified: %v", err)
		}
	}
	if fetcher.count() != 2 {
		t.Errorf("fetch calls = %d, want 2 without a cache", fetcher.count())
	}
}

func TestServiceUnified_SkipsFailedSnapshots(t *testing.T) {
	t.Parallel()

	store := repository.NewMemory()
	seedPublished(t, store, "p1", "solo", platform.Twitter)

	fetcher := &countingFetcher{inner: NewStubFetcher(), err: errors.New("platform API down")}
	svc := NewService(store, nil, fetcher, testLogger(), nil)

	out, err := svc.Unified(context.Background())
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}
	if out.TotalPosts != 1 {
		t.Errorf("TotalPosts = %d, want 1", out.TotalPosts)
	}
	if out.TotalImpressions != 0 {
		t.Errorf("TotalImpressions = %d, want 0 when snapshots unavailable", out.TotalImpressions)
	}
}

func TestServiceUnified_NilStore(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, nil, NewStubFetcher(), testLogger(), nil)

	_, err := svc.Unified(context.Background())
	if !errors.Is(err, service.ErrStoreNotConfigured) {
		t.Fatalf("expected ErrStoreNotConfigured, got %v", err)
	}
}

func TestServiceUnified_CacheReadErrorFallsThrough(t *testing.T) {
	t.Parallel()

	store := repository.NewMemory()
	seedPublished(t, store, "p1", "solo", platform.Twitter)

	snapshots := newFakeSnapshotCache()
	snapshots.getErr = errors.New("redis unavailable")
	fetcher := &countingFetcher{inner: NewStubFetcher()}
	svc := NewService(store, snapshots, fetcher, testLogger(), nil)

	out, err := svc.Unified(context.Background())
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}
	if fetcher.count() != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.count())
	}
	if out.TotalImpressions == 0 {
		t.Error("expected metrics despite cache read failure")
	}
}

func TestStubFetcher_Deterministic(t *testing.T) {
	t.Parallel()

	f := NewStubFetcher()
	ctx := context.Background()

	a, err := f.FetchMetrics(ctx, "post-1", platform.Twitter)
	if err != nil {
		t.Fatalf("FetchMetrics: %v", err)
	}
	b, err := f.FetchMetrics(ctx, "post-1", platform.Twitter)
	if err != nil {
		t.Fatalf("FetchMetrics: %v", err)
	}
	if a.Impressions != b.Impressions || a.Engagements != b.Engagements {
		t.Errorf("repeated fetch differs: %+v vs %+v", a, b)
	}

	c, _ := f.FetchMetrics(ctx, "post-1", platform.LinkedIn)
	if a.Impressions == c.Impressions && a.Engagements == c.Engagements {
		t.Error("expected different platforms to yield different metrics")
	}

	if a.Engagements > a.Impressions {
		t.Errorf("engagements %d exceed impressions %d", a.Engagements, a.Impressions)
	}
	if sum := a.Likes + a.Shares + a.Comments; sum != a.Engagements {
		t.Errorf("breakdown sums to %d, want %d", sum, a.Engagements)
	}
}
