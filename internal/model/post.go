// Package model defines domain entities for the application.
package model

import (
	"time"

	"github.com/postdeck/postdeck/internal/platform"
)

// PostStatus represents the lifecycle state of a scheduled post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusFailed    PostStatus = "failed"
)

// IsTerminal reports whether the status admits no further transitions.
func (s PostStatus) IsTerminal() bool {
	return s == PostStatusPublished || s == PostStatusFailed
}

// ScheduledPost is the central entity: one authored draft targeting one
// or more platforms, with per-platform adapted variants computed once
// at schedule time.
type ScheduledPost struct {
	ID             string                         `json:"id"`
	Content        string                         `json:"content"`
	Platforms      []platform.Platform            `json:"platforms"`
	AdaptedContent map[platform.Platform]string   `json:"adaptedContent,omitempty"`
	ScheduledTime  *time.Time                     `json:"scheduledTime,omitempty"`
	Status         PostStatus                     `json:"status"`
	CreatedAt      time.Time                      `json:"createdAt"`
	PublishedAt    *time.Time                     `json:"publishedAt,omitempty"`
}

// ContentFor returns the adapted variant for the platform, falling back
// to the raw content when no variant was cached.
func (p *ScheduledPost) ContentFor(pl platform.Platform) string {
	if adapted, ok := p.AdaptedContent[pl]; ok && adapted != "" {
		return adapted
	}
	return p.Content
}

// IsDue reports whether the post is scheduled and its time has passed.
func (p *ScheduledPost) IsDue(now time.Time) bool {
	return p.Status == PostStatusScheduled &&
		p.ScheduledTime != nil &&
		!p.ScheduledTime.After(now)
}
