package model

import (
	"testing"
	"time"

	"github.com/postdeck/postdeck/internal/platform"
)

func TestPostMetrics_ToCachedMetrics(t *testing.T) {
	t.Parallel()

	m := &PostMetrics{
		PostID:      "post-1",
		Platform:    platform.Twitter,
		Impressions: 1200,
		Engagements: 340,
		Clicks:      55,
		Shares:      12,
		Comments:    8,
		Likes:       190,
		FetchedAt:   time.Unix(1700000000, 0),
	}

	cached := m.ToCachedMetrics()

	if cached.Impressions != "1200" {
		t.Errorf("Impressions = %s, want 1200", cached.Impressions)
	}
	if cached.Engagements != "340" {
		t.Errorf("Engagements = %s, want 340", cached.Engagements)
	}
	if cached.FetchedAt != "1700000000" {
		t.Errorf("FetchedAt = %s, want 1700000000", cached.FetchedAt)
	}
}

func TestCachedMetrics_RoundTrip(t *testing.T) {
	t.Parallel()

	orig := &PostMetrics{
		PostID:      "post-2",
		Platform:    platform.Instagram,
		Impressions: 999,
		Engagements: 77,
		Clicks:      3,
		Shares:      1,
		Comments:    2,
		Likes:       70,
		FetchedAt:   time.Unix(1690000000, 0),
	}

	got := orig.ToCachedMetrics().ToPostMetrics(orig.PostID, orig.Platform)

	if got.Impressions != orig.Impressions || got.Engagements != orig.Engagements {
		t.Errorf("round trip lost counts: got %+v", got)
	}
	if !got.FetchedAt.Equal(orig.FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, orig.FetchedAt)
	}
	if got.Platform != platform.Instagram {
		t.Errorf("Platform = %v, want instagram", got.Platform)
	}
}

func TestCachedMetrics_MalformedValues(t *testing.T) {
	t.Parallel()

	cached := &CachedMetrics{Impressions: "not-a-number", FetchedAt: ""}
	got := cached.ToPostMetrics("p", platform.Twitter)

	if got.Impressions != 0 {
		t.Errorf("Impressions = %d, want 0 for malformed value", got.Impressions)
	}
	if !got.FetchedAt.IsZero() {
		t.Errorf("FetchedAt should be zero for empty value, got %v", got.FetchedAt)
	}
}

func TestScheduledPost_ContentFor(t *testing.T) {
	t.Parallel()

	post := &ScheduledPost{
		Content: "raw content",
		AdaptedContent: map[platform.Platform]string{
			platform.LinkedIn: "adapted content",
		},
	}

	if got := post.ContentFor(platform.LinkedIn); got != "adapted content" {
		t.Errorf("ContentFor(linkedin) = %q, want adapted variant", got)
	}
	if got := post.ContentFor(platform.Twitter); got != "raw content" {
		t.Errorf("ContentFor(twitter) = %q, want raw fallback", got)
	}
}

func TestPostStatus_IsTerminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status PostStatus
		want   bool
	}{
		{PostStatusDraft, false},
		{PostStatusScheduled, false},
		{PostStatusPublished, true},
		{PostStatusFailed, true},
	}

	for _, test := range tests {
		if got := test.status.IsTerminal(); got != test.want {
			t.Errorf("IsTerminal(%s) = %v, want %v", test.status, got, test.want)
		}
	}
}

func TestScheduledPost_IsDue(t *testing.T) {
	t.Parallel()

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		post ScheduledPost
		want bool
	}{
		{"due", ScheduledPost{Status: PostStatusScheduled, ScheduledTime: &past}, true},
		{"not_yet", ScheduledPost{Status: PostStatusScheduled, ScheduledTime: &future}, false},
		{"draft", ScheduledPost{Status: PostStatusDraft, ScheduledTime: &past}, false},
		{"published", ScheduledPost{Status: PostStatusPublished, ScheduledTime: &past}, false},
		{"no_time", ScheduledPost{Status: PostStatusScheduled}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.post.IsDue(now); got != test.want {
				t.Errorf("IsDue = %v, want %v", got, test.want)
			}
		})
	}
}
