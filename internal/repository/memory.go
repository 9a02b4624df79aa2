package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/postdeck/postdeck/internal/model"
	"github.com/postdeck/postdeck/internal/platform"
)

// Memory is an in-process post store with the same contract as the
// Postgres repository. Used by tests and database-less development; it
// is not durable.
type Memory struct {
	mu    sync.Mutex
	posts map[string]*model.ScheduledPost
	order []string
}

// NewMemory creates an empty in-memory post store.
func NewMemory() *Memory {
	return &Memory{
		posts: make(map[string]*model.ScheduledPost),
	}
}

// CreatePost appends a new post.
func (m *Memory) CreatePost(ctx context.Context, post *model.ScheduledPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := clonePost(post)
	m.posts[post.ID] = clone
	m.order = append(m.order, post.ID)
	return nil
}

// GetPostByID retrieves a post by its ID.
func (m *Memory) GetPostByID(ctx context.Context, id string) (*model.ScheduledPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return clonePost(post), nil
}

// ListPostsByStatus retrieves posts with the given status ordered by
// scheduled time ascending.
func (m *Memory) ListPostsByStatus(ctx context.Context, status model.PostStatus) ([]*model.ScheduledPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	posts := make([]*model.ScheduledPost, 0)
	for _, id := range m.order {
		if post := m.posts[id]; post.Status == status {
			posts = append(posts, clonePost(post))
		}
	}

	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].ScheduledTime, posts[j].ScheduledTime
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	return posts, nil
}

// ListDuePosts retrieves scheduled posts whose time has passed, oldest
// first.
func (m *Memory) ListDuePosts(ctx context.Context, now time.Time, limit int) ([]*model.ScheduledPost, error) {
	scheduled, err := m.ListPostsByStatus(ctx, model.PostStatusScheduled)
	if err != nil {
		return nil, err
	}

	due := make([]*model.ScheduledPost, 0)
	for _, post := range scheduled {
		if post.IsDue(now) {
			due = append(due, post)
		}
		if limit > 0 && len(due) == limit {
			break
		}
	}
	return due, nil
}

// MarkPublished transitions a scheduled post to published.
func (m *Memory) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	return m.transition(id, func(post *model.ScheduledPost) {
		post.Status = model.PostStatusPublished
		at := publishedAt
		post.PublishedAt = &at
	})
}

// MarkFailed transitions a scheduled post to failed.
func (m *Memory) MarkFailed(ctx context.Context, id string) error {
	return m.transition(id, func(post *model.ScheduledPost) {
		post.Status = model.PostStatusFailed
	})
}

func (m *Memory) transition(id string, apply func(*model.ScheduledPost)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	if post.Status != model.PostStatusScheduled {
		return ErrPostNotScheduled
	}

	apply(post)
	return nil
}

func clonePost(post *model.ScheduledPost) *model.ScheduledPost {
	clone := *post
	clone.Platforms = append([]platform.Platform(nil), post.Platforms...)
	if post.AdaptedContent != nil {
		clone.AdaptedContent = make(map[platform.Platform]string, len(post.AdaptedContent))
		for k, v := range post.AdaptedContent {
			clone.AdaptedContent[k] = v
		}
	}
	if post.ScheduledTime != nil {
		t := *post.ScheduledTime
		clone.ScheduledTime = &t
	}
	if post.PublishedAt != nil {
		t := *post.PublishedAt
		clone.PublishedAt = &t
	}
	return &clone
}
