// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/postdeck/postdeck/internal/metrics"
	"github.com/postdeck/postdeck/internal/model"
	"github.com/postdeck/postdeck/internal/platform"
	"github.com/postdeck/postdeck/internal/repository"
)

// Service errors.
var (
	ErrPostNotFound = errors.New("post not found")

	// ErrStoreNotConfigured indicates the persistence backend is absent,
	// distinct from a backend that is configured but broken.
	ErrStoreNotConfigured = errors.New("post store not configured")
)

// PostStore is the persistence contract the service depends on.
// Satisfied by the Postgres repository and the in-memory store.
type PostStore interface {
	CreatePost(ctx context.Context, post *model.ScheduledPost) error
	GetPostByID(ctx context.Context, id string) (*model.ScheduledPost, error)
	ListPostsByStatus(ctx context.Context, status model.PostStatus) ([]*model.ScheduledPost, error)
}

// PostService handles post creation and retrieval.
type PostService struct {
	store   PostStore
	metrics metrics.Recorder
	now     func() time.Time
}

// NewPostService creates a new PostService. A nil store is allowed: all
// operations then return ErrStoreNotConfigured so the HTTP boundary can
// answer 503.
func NewPostService(store PostStore, recorder metrics.Recorder) *PostService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &PostService{
		store:   store,
		metrics: recorder,
		now:     time.Now,
	}
}

// SchedulePostInput defines input for scheduling a post.
type SchedulePostInput struct {
	Content       string
	Platforms     []platform.Platform
	ScheduledTime string // RFC 3339; empty creates a draft
	// AdaptedContent, when supplied by the composer, is stored as-is.
	// When absent, variants are computed here, once, and cached on
	// the post. Adapted text is never re-adapted.
	AdaptedContent map[platform.Platform]string
}

// SchedulePost validates the input, computes per-platform variants and
// persists the post. Status starts as scheduled when a valid time is
// supplied, draft otherwise.
func (s *PostService) SchedulePost(ctx context.Context, input SchedulePostInput) (*model.ScheduledPost, error) {
	if s.store == nil {
		return nil, ErrStoreNotConfigured
	}

	if err := ValidatePlatformSelection(input.Platforms); err != nil {
		return nil, err
	}

	if input.Content == "" {
		return nil, ErrEmptyContent
	}

	adapted := input.AdaptedContent
	if len(adapted) == 0 {
		adapted = platform.AdaptAll(input.Content, input.Platforms)
	}

	// Each platform's variant must fit its limit.
	for _, p := range input.Platforms {
		variant, ok := adapted[p]
		if !ok {
			variant = input.Content
		}
		if err := ValidateContentLength(variant, p); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()

	post := &model.ScheduledPost{
		ID:             uuid.New().String(),
		Content:        input.Content,
		Platforms:      input.Platforms,
		AdaptedContent: adapted,
		Status:         model.PostStatusDraft,
		CreatedAt:      now,
	}

	if input.ScheduledTime != "" {
		scheduledAt, err := ValidateScheduledTime(input.ScheduledTime, now)
		if err != nil {
			return nil, err
		}
		post.ScheduledTime = &scheduledAt
		post.Status = model.PostStatusScheduled
	}

	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	if post.Status == model.PostStatusScheduled {
		s.metrics.IncPostScheduled()
	} else {
		s.metrics.IncPostDrafted()
	}

	return post, nil
}

// GetPost retrieves a post by ID.
func (s *PostService) GetPost(ctx context.Context, id string) (*model.ScheduledPost, error) {
	if s.store == nil {
		return nil, ErrStoreNotConfigured
	}

	post, err := s.store.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// ListScheduled returns posts awaiting publication, ordered by
// scheduled time ascending.
func (s *PostService) ListScheduled(ctx context.Context) ([]*model.ScheduledPost, error) {
	if s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	return s.store.ListPostsByStatus(ctx, model.PostStatusScheduled)
}

// ListPublished returns published posts for the analytics projection.
func (s *PostService) ListPublished(ctx context.Context) ([]*model.ScheduledPost, error) {
	if s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	return s.store.ListPostsByStatus(ctx, model.PostStatusPublished)
}
