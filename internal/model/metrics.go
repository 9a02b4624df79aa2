package model

import (
	"strconv"
	"time"

	"github.com/postdeck/postdeck/internal/platform"
)

// PostMetrics is one engagement snapshot for a (post, platform) pair.
// Each fetch overwrites the previous snapshot; history is not kept.
type PostMetrics struct {
	PostID      string            `json:"postId"`
	Platform    platform.Platform `json:"platform"`
	Impressions int64             `json:"impressions"`
	Engagements int64             `json:"engagements"`
	Clicks      int64             `json:"clicks"`
	Shares      int64             `json:"shares"`
	Comments    int64             `json:"comments"`
	Likes       int64             `json:"likes"`
	FetchedAt   time.Time         `json:"fetchedAt"`
}

// CachedMetrics represents a metrics snapshot stored in Redis.
// Uses string types for Redis hash compatibility.
type CachedMetrics struct {
	Impressions string `redis:"impressions"`
	Engagements string `redis:"engagements"`
	Clicks      string `redis:"clicks"`
	Shares      string `redis:"shares"`
	Comments    string `redis:"comments"`
	Likes       string `redis:"likes"`
	FetchedAt   string `redis:"fetched_at"` // Unix timestamp
}

// ToPostMetrics converts CachedMetrics back to the domain model.
func (c *CachedMetrics) ToPostMetrics(postID string, pl platform.Platform) *PostMetrics {
	m := &PostMetrics{
		PostID:      postID,
		Platform:    pl,
		Impressions: parseInt(c.Impressions),
		Engagements: parseInt(c.Engagements),
		Clicks:      parseInt(c.Clicks),
		Shares:      parseInt(c.Shares),
		Comments:    parseInt(c.Comments),
		Likes:       parseInt(c.Likes),
	}

	if c.FetchedAt != "" {
		if ts, err := strconv.ParseInt(c.FetchedAt, 10, 64); err == nil {
			m.FetchedAt = time.Unix(ts, 0)
		}
	}

	return m
}

// ToCachedMetrics converts the snapshot to its Redis hash form.
func (m *PostMetrics) ToCachedMetrics() *CachedMetrics {
	return &CachedMetrics{
		Impressions: strconv.FormatInt(m.Impressions, 10),
		Engagements: strconv.FormatInt(m.Engagements, 10),
		Clicks:      strconv.FormatInt(m.Clicks, 10),
		Shares:      strconv.FormatInt(m.Shares, 10),
		Comments:    strconv.FormatInt(m.Comments, 10),
		Likes:       strconv.FormatInt(m.Likes, 10),
		FetchedAt:   strconv.FormatInt(m.FetchedAt.Unix(), 10),
	}
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
