package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/postdeck/postdeck/internal/cache"
	"github.com/postdeck/postdeck/internal/metrics"
	"github.com/postdeck/postdeck/internal/model"
	"github.com/postdeck/postdeck/internal/platform"
	"github.com/postdeck/postdeck/internal/service"
)

// PostLister is the slice of the post store the analytics service needs.
type PostLister interface {
	ListPostsByStatus(ctx context.Context, status model.PostStatus) ([]*model.ScheduledPost, error)
}

// SnapshotCache stores and retrieves per-pair metric snapshots.
// Satisfied by *cache.Cache.
type SnapshotCache interface {
	GetMetrics(ctx context.Context, postID string, pl platform.Platform) (*model.PostMetrics, error)
	SetMetrics(ctx context.Context, m *model.PostMetrics, ttl time.Duration) error
}

// Service assembles the unified dashboard view: it lists published
// posts, resolves a metrics snapshot per (post, platform) pair through
// the cache, and folds everything with Aggregate.
type Service struct {
	store    PostLister
	cache    SnapshotCache
	fetcher  MetricsFetcher
	logger   *slog.Logger
	recorder metrics.Recorder
	ttl      time.Duration
	topN     int
}

// NewService creates an analytics service. cache may be nil, in which
// case every snapshot is fetched fresh.
func NewService(store PostLister, snapshots SnapshotCache, fetcher MetricsFetcher, logger *slog.Logger, recorder metrics.Recorder) *Service {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Service{
		store:    store,
		cache:    snapshots,
		fetcher:  fetcher,
		logger:   logger,
		recorder: recorder,
		ttl:      cache.DefaultMetricsTTL,
		topN:     DefaultTopN,
	}
}

// SetCacheTTL overrides the snapshot cache TTL.
func (s *Service) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		s.ttl = ttl
	}
}

// SetTopN overrides the size of the top-posts list.
func (s *Service) SetTopN(n int) {
	if n > 0 {
		s.topN = n
	}
}

// Unified returns the aggregated dashboard view over all published
// posts. A snapshot that cannot be fetched is skipped rather than
// failing the whole view.
func (s *Service) Unified(ctx context.Context) (*model.UnifiedAnalytics, error) {
	if s.store == nil {
		return nil, service.ErrStoreNotConfigured
	}

	posts, err := s.store.ListPostsByStatus(ctx, model.PostStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}

	snapshots := make([]*model.PostMetrics, 0, len(posts))
	for _, post := range posts {
		for _, pl := range post.Platforms {
			m, err := s.snapshot(ctx, post.ID, pl)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				s.logger.Warn("metrics snapshot unavailable",
					slog.String("post_id", post.ID),
					slog.String("platform", string(pl)),
					slog.String("error", err.Error()))
				continue
			}
			snapshots = append(snapshots, m)
		}
	}

	s.recorder.IncAnalyticsRequest()
	return Aggregate(posts, snapshots, s.topN), nil
}

// snapshot resolves one (post, platform) snapshot, cache first.
func (s *Service) snapshot(ctx context.Context, postID string, pl platform.Platform) (*model.PostMetrics, error) {
	if s.cache != nil {
		m, err := s.cache.GetMetrics(ctx, postID, pl)
		if err == nil {
			s.recorder.IncMetricsCache("hit")
			return m, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("metrics cache read failed",
				slog.String("post_id", postID),
				slog.String("error", err.Error()))
		}
		s.recorder.IncMetricsCache("miss")
	}

	if s.fetcher == nil {
		return nil, errors.New("no metrics fetcher configured")
	}

	m, err := s.fetcher.FetchMetrics(ctx, postID, pl)
	if err != nil {
		return nil, fmt.Errorf("fetch metrics: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetMetrics(ctx, m, s.ttl); err != nil {
			s.logger.Warn("metrics cache write failed",
				slog.String("post_id", postID),
				slog.String("error", err.Error()))
		}
	}

	return m, nil
}
