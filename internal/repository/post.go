package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/postdeck/postdeck/internal/model"
	"github.com/postdeck/postdeck/internal/platform"
)

// Common errors for post repository operations.
var (
	ErrPostNotFound = errors.New("post not found")

	// ErrPostNotScheduled is returned when a status transition finds the
	// post no longer in scheduled state. A rerun pass hitting this is
	// the idempotency guard working, not a failure.
	ErrPostNotScheduled = errors.New("post is not in scheduled status")
)

const postColumns = `id, content, platforms, scheduled_time, status, adapted_content, created_at, published_at`

// CreatePost inserts a new post.
func (r *Repository) CreatePost(ctx context.Context, post *model.ScheduledPost) error {
	platformsJSON, err := json.Marshal(post.Platforms)
	if err != nil {
		return fmt.Errorf("marshal platforms: %w", err)
	}
	adaptedJSON, err := json.Marshal(post.AdaptedContent)
	if err != nil {
		return fmt.Errorf("marshal adapted content: %w", err)
	}

	query := `
		INSERT INTO posts (id, content, platforms, scheduled_time, status, adapted_content, created_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.pool.Exec(ctx, query,
		post.ID,
		post.Content,
		string(platformsJSON),
		post.ScheduledTime,
		post.Status,
		string(adaptedJSON),
		post.CreatedAt,
		post.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// GetPostByID retrieves a post by its ID.
func (r *Repository) GetPostByID(ctx context.Context, id string) (*model.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post by ID: %w", err)
	}

	return post, nil
}

// ListPostsByStatus retrieves posts with the given status ordered by
// scheduled time ascending.
func (r *Repository) ListPostsByStatus(ctx context.Context, status model.PostStatus) ([]*model.ScheduledPost, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE status = $1
		ORDER BY scheduled_time ASC NULLS LAST, created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

// ListDuePosts retrieves scheduled posts whose time has passed, oldest
// first, limited to one pass batch.
func (r *Repository) ListDuePosts(ctx context.Context, now time.Time, limit int) ([]*model.ScheduledPost, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE status = $1 AND scheduled_time IS NOT NULL AND scheduled_time <= $2
		ORDER BY scheduled_time ASC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, model.PostStatusScheduled, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

// MarkPublished transitions a scheduled post to published and stamps
// publishedAt. The WHERE clause makes the transition conditional on the
// current status, so a pass rerun cannot publish the same post twice.
func (r *Repository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	return r.transition(ctx, id,
		`UPDATE posts SET status = $1, published_at = $2 WHERE id = $3 AND status = $4`,
		model.PostStatusPublished, publishedAt, id, model.PostStatusScheduled,
	)
}

// MarkFailed transitions a scheduled post to failed. PublishedAt stays
// unset.
func (r *Repository) MarkFailed(ctx context.Context, id string) error {
	return r.transition(ctx, id,
		`UPDATE posts SET status = $1 WHERE id = $2 AND status = $3`,
		model.PostStatusFailed, id, model.PostStatusScheduled,
	)
}

func (r *Repository) transition(ctx context.Context, id, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update post status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either the post does not exist or another pass already moved it.
		if _, err := r.GetPostByID(ctx, id); err != nil {
			return err
		}
		return ErrPostNotScheduled
	}

	return nil
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*model.ScheduledPost, error) {
	var (
		post          model.ScheduledPost
		platformsJSON string
		adaptedJSON   string
	)

	err := row.Scan(
		&post.ID,
		&post.Content,
		&platformsJSON,
		&post.ScheduledTime,
		&post.Status,
		&adaptedJSON,
		&post.CreatedAt,
		&post.PublishedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(platformsJSON), &post.Platforms); err != nil {
		return nil, fmt.Errorf("unmarshal platforms: %w", err)
	}
	if adaptedJSON != "" {
		if err := json.Unmarshal([]byte(adaptedJSON), &post.AdaptedContent); err != nil {
			return nil, fmt.Errorf("unmarshal adapted content: %w", err)
		}
	}
	if post.AdaptedContent == nil {
		post.AdaptedContent = map[platform.Platform]string{}
	}

	return &post, nil
}

func collectPosts(rows pgx.Rows) ([]*model.ScheduledPost, error) {
	posts := make([]*model.ScheduledPost, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}
