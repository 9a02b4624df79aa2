package analytics

import (
	"testing"
	"time"

	"github.com/postdeck/postdeck/internal/model"
	"github.com/postdeck/postdeck/internal/platform"
)

func publishedPost(id, content string, platforms ...platform.Platform) *model.ScheduledPost {
	now := time.Now().UTC()
	return &model.ScheduledPost{
		ID:          id,
		Content:     content,
		Platforms:   platforms,
		Status:      model.PostStatusPublished,
		CreatedAt:   now,
		PublishedAt: &now,
	}
}

func snapshot(postID string, pl platform.Platform, impressions, engagements int64, fetchedAt time.Time) *model.PostMetrics {
	return &model.PostMetrics{
		PostID:      postID,
		Platform:    pl,
		Impressions: impressions,
		Engagements: engagements,
		FetchedAt:   fetchedAt,
	}
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	out := Aggregate(nil, nil, 3)

	if out.TotalPosts != 0 || out.TotalImpressions != 0 || out.TotalEngagements != 0 {
		t.Fatalf("expected zero totals, got %+v", out)
	}
	if out.EngagementRate != 0 {
		t.Fatalf("expected zero rate, got %v", out.EngagementRate)
	}
	if len(out.TopPosts) != 0 || len(out.TimeSeries) != 0 {
		t.Fatalf("expected empty lists, got %+v", out)
	}
}

func TestAggregate_EngagementRate(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	tests := []struct {
		name      string
		snapshots []*model.PostMetrics
		wantRate  float64
	}{
		{
			name: "rate across posts with zero impression post",
			snapshots: []*model.PostMetrics{
				snapshot("a", platform.Twitter, 100, 10, now),
				snapshot("b", platform.Twitter, 0, 0, now),
			},
			wantRate: 10.0,
		},
		{
			name: "all zero impressions",
			snapshots: []*model.PostMetrics{
				snapshot("a", platform.Twitter, 0, 0, now),
				snapshot("b", platform.Twitter, 0, 0, now),
			},
			wantRate: 0,
		},
		{
			name: "sums across platforms before dividing",
			snapshots: []*model.PostMetrics{
				snapshot("a", platform.Twitter, 200, 10, now),
				snapshot("a", platform.LinkedIn, 300, 40, now),
			},
			wantRate: 10.0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			posts := []*model.ScheduledPost{
				publishedPost("a", "first", platform.Twitter, platform.LinkedIn),
				publishedPost("b", "second", platform.Twitter),
			}

			out := Aggregate(posts, tt.snapshots, 3)
			if out.EngagementRate != tt.wantRate {
				t.Errorf("EngagementRate = %v, want %v", out.EngagementRate, tt.wantRate)
			}
		})
	}
}

func TestAggregate_TopPostsStableOrder(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	posts := []*model.ScheduledPost{
		publishedPost("p1", "one", platform.Twitter),
		publishedPost("p2", "two", platform.Twitter),
		publishedPost("p3", "three", platform.Twitter),
		publishedPost("p4", "four", platform.Twitter),
		publishedPost("p5", "five", platform.Twitter),
	}
	snapshots := []*model.PostMetrics{
		snapshot("p1", platform.Twitter, 1000, 50, now),
		snapshot("p2", platform.Twitter, 1000, 200, now),
		snapshot("p3", platform.Twitter, 1000, 10, now),
		snapshot("p4", platform.Twitter, 1000, 200, now),
		snapshot("p5", platform.Twitter, 1000, 5, now),
	}

	out := Aggregate(posts, snapshots, 2)

	if len(out.TopPosts) != 2 {
		t.Fatalf("expected 2 top posts, got %d", len(out.TopPosts))
	}
	// The two 200-engagement posts, in their original relative order.
	if out.TopPosts[0].ID != "p2" || out.TopPosts[1].ID != "p4" {
		t.Errorf("top posts = [%s, %s], want [p2, p4]", out.TopPosts[0].ID, out.TopPosts[1].ID)
	}
}

func TestAggregate_IgnoresUnpublishedPosts(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	draft := publishedPost("d", "draft", platform.Twitter)
	draft.Status = model.PostStatusDraft
	draft.PublishedAt = nil
	failed := publishedPost("f", "failed", platform.Twitter)
	failed.Status = model.PostStatusFailed
	failed.PublishedAt = nil

	posts := []*model.ScheduledPost{
		publishedPost("a", "live", platform.Twitter),
		draft,
		failed,
	}
	snapshots := []*model.PostMetrics{
		snapshot("a", platform.Twitter, 100, 10, now),
		snapshot("d", platform.Twitter, 999, 999, now),
		snapshot("f", platform.Twitter, 999, 999, now),
	}

	out := Aggregate(posts, snapshots, 3)

	if out.TotalPosts != 1 {
		t.Errorf("TotalPosts = %d, want 1", out.TotalPosts)
	}
	if out.TotalImpressions != 100 || out.TotalEngagements != 10 {
		t.Errorf("totals = %d/%d, want 100/10", out.TotalImpressions, out.TotalEngagements)
	}
	if len(out.TopPosts) != 1 || out.TopPosts[0].ID != "a" {
		t.Errorf("unexpected top posts: %+v", out.TopPosts)
	}
}

func TestAggregate_PlatformBreakdown(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	posts := []*model.ScheduledPost{
		publishedPost("a", "cross post", platform.Twitter, platform.LinkedIn),
		publishedPost("b", "tweet only", platform.Twitter),
	}
	snapshots := []*model.PostMetrics{
		snapshot("a", platform.Twitter, 100, 10, now),
		snapshot("a", platform.LinkedIn, 400, 20, now),
		snapshot("b", platform.Twitter, 100, 10, now),
	}

	out := Aggregate(posts, snapshots, 3)

	tw := out.PlatformBreakdown[platform.Twitter]
	if tw == nil {
		t.Fatal("missing twitter breakdown")
	}
	if tw.Impressions != 200 || tw.Engagements != 20 || tw.Posts != 2 {
		t.Errorf("twitter breakdown = %+v", tw)
	}
	if tw.EngagementRate != 10.0 {
		t.Errorf("twitter rate = %v, want 10.0", tw.EngagementRate)
	}

	li := out.PlatformBreakdown[platform.LinkedIn]
	if li == nil {
		t.Fatal("missing linkedin breakdown")
	}
	if li.Impressions != 400 || li.Engagements != 20 || li.Posts != 1 {
		t.Errorf("linkedin breakdown = %+v", li)
	}
	if li.EngagementRate != 5.0 {
		t.Errorf("linkedin rate = %v, want 5.0", li.EngagementRate)
	}
}

func TestAggregate_TimeSeriesGroupsByDay(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day1Later := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	posts := []*model.ScheduledPost{
		publishedPost("a", "one", platform.Twitter),
		publishedPost("b", "two", platform.Twitter),
		publishedPost("c", "three", platform.Twitter),
	}
	snapshots := []*model.PostMetrics{
		snapshot("c", platform.Twitter, 50, 5, day2),
		snapshot("a", platform.Twitter, 100, 10, day1),
		snapshot("b", platform.Twitter, 200, 20, day1Later),
	}

	out := Aggregate(posts, snapshots, 3)

	if len(out.TimeSeries) != 2 {
		t.Fatalf("expected 2 points, got %d", len(out.TimeSeries))
	}
	first, second := out.TimeSeries[0], out.TimeSeries[1]
	if !first.Date.Before(second.Date) {
		t.Error("time series not sorted oldest first")
	}
	if first.Impressions != 300 || first.Engagements != 30 {
		t.Errorf("day one point = %+v", first)
	}
	if second.Impressions != 50 || second.Engagements != 5 {
		t.Errorf("day two point = %+v", second)
	}
}
