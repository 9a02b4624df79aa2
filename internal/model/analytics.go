package model

import (
	"time"

	"github.com/postdeck/postdeck/internal/platform"
)

// PlatformStats holds the per-platform slice of the aggregated totals.
type PlatformStats struct {
	Impressions    int64   `json:"impressions"`
	Engagements    int64   `json:"engagements"`
	Posts          int     `json:"posts"`
	EngagementRate float64 `json:"engagementRate"`
}

// TopPost is one entry in the top-performing-posts list.
type TopPost struct {
	ID          string            `json:"id"`
	Content     string            `json:"content"`
	Platform    platform.Platform `json:"platform"`
	Engagements int64             `json:"engagements"`
	Impressions int64             `json:"impressions"`
}

// TimePoint is one entry in the chronological engagement series.
type TimePoint struct {
	Date        time.Time `json:"date"`
	Impressions int64     `json:"impressions"`
	Engagements int64     `json:"engagements"`
}

// UnifiedAnalytics is the derived dashboard view over published posts
// and their metric snapshots. It holds no independent state and is
// recomputed on every request.
type UnifiedAnalytics struct {
	TotalImpressions  int64                                 `json:"totalImpressions"`
	TotalEngagements  int64                                 `json:"totalEngagements"`
	TotalPosts        int                                   `json:"totalPosts"`
	EngagementRate    float64                               `json:"engagementRate"`
	PlatformBreakdown map[platform.Platform]*PlatformStats  `json:"platformBreakdown"`
	TopPosts          []TopPost                             `json:"topPosts"`
	TimeSeries        []TimePoint                           `json:"timeSeriesData"`
}
