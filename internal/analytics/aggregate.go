// Package analytics folds per-post metrics into the dashboard view.
package analytics

import (
	"sort"
	"time"

	"github.com/postdeck/postdeck/internal/model"
	"github.com/postdeck/postdeck/internal/platform"
)

// DefaultTopN is the default size of the top-posts list.
const DefaultTopN = 3

// Aggregate computes the unified dashboard view from published posts
// and their metric snapshots. Pure function: no I/O, recomputed on
// every call.
func Aggregate(posts []*model.ScheduledPost, snapshots []*model.PostMetrics, topN int) *model.UnifiedAnalytics {
	if topN <= 0 {
		topN = DefaultTopN
	}

	out := &model.UnifiedAnalytics{
		PlatformBreakdown: make(map[platform.Platform]*model.PlatformStats),
	}

	published := make(map[string]*model.ScheduledPost)
	for _, post := range posts {
		if post.Status == model.PostStatusPublished {
			published[post.ID] = post
			out.TotalPosts++
		}
	}

	// Per-post engagement totals for the top-posts ranking, in the
	// original post order so ties break stably.
	type postTotals struct {
		post        *model.ScheduledPost
		engagements int64
		impressions int64
		platform    platform.Platform
	}
	totalsByID := make(map[string]*postTotals)
	ordered := make([]*postTotals, 0, len(published))

	for _, post := range posts {
		if post.Status != model.PostStatusPublished {
			continue
		}
		pt := &postTotals{post: post}
		if len(post.Platforms) > 0 {
			pt.platform = post.Platforms[0]
		}
		totalsByID[post.ID] = pt
		ordered = append(ordered, pt)
	}

	for _, m := range snapshots {
		post, ok := published[m.PostID]
		if !ok {
			continue
		}

		out.TotalImpressions += m.Impressions
		out.TotalEngagements += m.Engagements

		stats, ok := out.PlatformBreakdown[m.Platform]
		if !ok {
			stats = &model.PlatformStats{}
			out.PlatformBreakdown[m.Platform] = stats
		}
		stats.Impressions += m.Impressions
		stats.Engagements += m.Engagements
		stats.Posts++

		if pt := totalsByID[post.ID]; pt != nil {
			pt.engagements += m.Engagements
			pt.impressions += m.Impressions
		}
	}

	out.EngagementRate = rate(out.TotalEngagements, out.TotalImpressions)
	for _, stats := range out.PlatformBreakdown {
		stats.EngagementRate = rate(stats.Engagements, stats.Impressions)
	}

	// Stable sort keeps the original relative order for equal counts.
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].engagements > ordered[j].engagements
	})
	if len(ordered) > topN {
		ordered = ordered[:topN]
	}
	out.TopPosts = make([]model.TopPost, 0, len(ordered))
	for _, pt := range ordered {
		out.TopPosts = append(out.TopPosts, model.TopPost{
			ID:          pt.post.ID,
			Content:     pt.post.Content,
			Platform:    pt.platform,
			Engagements: pt.engagements,
			Impressions: pt.impressions,
		})
	}

	out.TimeSeries = buildTimeSeries(snapshots, published)

	return out
}

// rate returns engagements/impressions as a percentage, 0 when there
// are no impressions.
func rate(engagements, impressions int64) float64 {
	if impressions == 0 {
		return 0
	}
	return float64(engagements) / float64(impressions) * 100
}

// buildTimeSeries groups snapshots for published posts by fetch date,
// oldest first.
func buildTimeSeries(snapshots []*model.PostMetrics, published map[string]*model.ScheduledPost) []model.TimePoint {
	byDay := make(map[time.Time]*model.TimePoint)
	for _, m := range snapshots {
		if _, ok := published[m.PostID]; !ok {
			continue
		}
		day := m.FetchedAt.UTC().Truncate(24 * time.Hour)
		point, ok := byDay[day]
		if !ok {
			point = &model.TimePoint{Date: day}
			byDay[day] = point
		}
		point.Impressions += m.Impressions
		point.Engagements += m.Engagements
	}

	series := make([]model.TimePoint, 0, len(byDay))
	for _, point := range byDay {
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}
