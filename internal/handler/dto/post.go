// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/postdeck/postdeck/internal/model"
)

// SchedulePostRequest represents the request body for scheduling a post.
type SchedulePostRequest struct {
	Content        string            `json:"content"`
	Platforms      []string          `json:"platforms"`
	ScheduledTime  string            `json:"scheduledTime,omitempty"`
	AdaptedContent map[string]string `json:"adaptedContent,omitempty"`
}

// SchedulePostResponse confirms a scheduled or drafted post. The
// preview fields echo what the composer highlights in the content.
type SchedulePostResponse struct {
	ID       string   `json:"id"`
	Message  string   `json:"message"`
	Hashtags []string `json:"hashtags,omitempty"`
	Mentions []string `json:"mentions,omitempty"`
	URLs     []string `json:"urls,omitempty"`
}

// PostListResponse wraps a list of posts.
type PostListResponse struct {
	Posts []*model.ScheduledPost `json:"posts"`
}

// PostResponse wraps a single post.
type PostResponse struct {
	Post *model.ScheduledPost `json:"post"`
}

// AnalyticsResponse wraps the unified dashboard view.
type AnalyticsResponse struct {
	Analytics *model.UnifiedAnalytics `json:"analytics"`
}

// ConnectRequest represents the request body for connecting a platform.
type ConnectRequest struct {
	Code string `json:"code"`
}

// ConnectResponse returns the one-time plaintext connection token.
type ConnectResponse struct {
	Platform string `json:"platform"`
	Token    string `json:"token"`
}

// ConnectionStatusResponse reports whether a platform is connected.
type ConnectionStatusResponse struct {
	Platform  string `json:"platform"`
	Connected bool   `json:"connected"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
