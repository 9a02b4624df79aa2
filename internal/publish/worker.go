package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/postdeck/postdeck/internal/metrics"
	"github.com/postdeck/postdeck/internal/model"
	"github.com/postdeck/postdeck/internal/platform"
	"github.com/postdeck/postdeck/internal/repository"
)

const (
	// DefaultBatchSize is the number of due posts to process per pass.
	DefaultBatchSize = 50
	// DefaultPollInterval is the time between due-post scans.
	DefaultPollInterval = time.Minute
	// DefaultPublishTimeout bounds a single platform publish call so one
	// unresponsive platform cannot stall the whole pass.
	DefaultPublishTimeout = 15 * time.Second
)

// Worker errors.
var (
	ErrStoreNotConfigured = errors.New("post store not configured")
	ErrNoPublisher        = errors.New("no publisher for platform")
)

// PostStore is the slice of the store contract the worker needs.
type PostStore interface {
	GetPostByID(ctx context.Context, id string) (*model.ScheduledPost, error)
	ListDuePosts(ctx context.Context, now time.Time, limit int) ([]*model.ScheduledPost, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	MarkFailed(ctx context.Context, id string) error
}

// Worker periodically scans for due posts and publishes them. Passes
// run one at a time on a single loop; status transitions are
// conditional updates in the store, so a rerun after a crash cannot
// publish a post twice.
type Worker struct {
	store          PostStore
	publishers     map[platform.Platform]Publisher
	logger         *slog.Logger
	metrics        metrics.Recorder
	batchSize      int
	pollInterval   time.Duration
	publishTimeout time.Duration
	now            func() time.Time
	started        bool
}

// NewWorker creates a publish worker.
func NewWorker(store PostStore, publishers map[platform.Platform]Publisher, logger *slog.Logger, recorder metrics.Recorder) *Worker {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Worker{
		store:          store,
		publishers:     publishers,
		logger:         logger.With("component", "publish.worker"),
		metrics:        recorder,
		batchSize:      DefaultBatchSize,
		pollInterval:   DefaultPollInterval,
		publishTimeout: DefaultPublishTimeout,
		now:            time.Now,
	}
}

// Run starts the worker loop. Blocks until context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if w.started {
		return errors.New("worker already started")
	}
	w.started = true

	if w.store == nil {
		w.logger.Info("publish worker idle: store not configured")
		<-ctx.Done()
		return ctx.Err()
	}

	w.logger.Info("publish worker started", "poll_interval", w.pollInterval)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("publish worker stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := w.processOnce(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				w.logger.Error("pass error", "error", err)
			}
		}
	}
}

// processOnce runs one pass: scan due posts and publish each one. A
// failing post never aborts the rest of the batch.
func (w *Worker) processOnce(ctx context.Context) error {
	start := w.now()

	due, err := w.store.ListDuePosts(ctx, start, w.batchSize)
	if err != nil {
		return fmt.Errorf("list due posts: %w", err)
	}

	w.metrics.SetDueQueueDepth(int64(len(due)))

	for _, post := range due {
		if err := w.publishPost(ctx, post); err != nil {
			w.logger.Warn("post publish failed",
				"post_id", post.ID,
				"error", err,
			)
		}
	}

	w.metrics.ObservePassDuration(time.Since(start))
	return nil
}

// publishPost delivers one post to each of its target platforms and
// applies the resulting status transition. All-or-nothing: one failed
// platform marks the whole post failed.
func (w *Worker) publishPost(ctx context.Context, post *model.ScheduledPost) error {
	for _, p := range post.Platforms {
		if err := w.publishToPlatform(ctx, post, p); err != nil {
			w.metrics.IncPostFailed()
			if markErr := w.store.MarkFailed(ctx, post.ID); markErr != nil {
				// Another pass may have already transitioned the post.
				if errors.Is(markErr, repository.ErrPostNotScheduled) {
					return err
				}
				return fmt.Errorf("mark failed: %w", markErr)
			}
			return err
		}
	}

	publishedAt := w.now().UTC()
	if err := w.store.MarkPublished(ctx, post.ID, publishedAt); err != nil {
		if errors.Is(err, repository.ErrPostNotScheduled) {
			// Lost the race against another transition; nothing to undo.
			w.logger.Warn("post already transitioned", "post_id", post.ID)
			return nil
		}
		return fmt.Errorf("mark published: %w", err)
	}

	w.metrics.IncPostPublished()
	w.logger.Info("post published",
		"post_id", post.ID,
		"platforms", len(post.Platforms),
	)
	return nil
}

// publishToPlatform sends one platform's variant with a bounded timeout.
func (w *Worker) publishToPlatform(ctx context.Context, post *model.ScheduledPost, p platform.Platform) error {
	publisher, ok := w.publishers[p]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoPublisher, p)
	}

	callCtx, cancel := context.WithTimeout(ctx, w.publishTimeout)
	defer cancel()

	start := w.now()
	err := publisher.Publish(callCtx, post.ContentFor(p))
	w.metrics.ObservePublishDuration(string(p), time.Since(start))

	if err != nil {
		w.metrics.IncPublishAttempt(string(p), "error")
		return fmt.Errorf("publish to %s: %w", p, err)
	}

	w.metrics.IncPublishAttempt(string(p), "success")
	return nil
}

// PublishByID publishes a single post immediately, outside the periodic
// pass. Used by the one-shot publish endpoint. The post must still be
// in scheduled status.
func (w *Worker) PublishByID(ctx context.Context, id string) error {
	if w.store == nil {
		return ErrStoreNotConfigured
	}

	post, err := w.store.GetPostByID(ctx, id)
	if err != nil {
		return err
	}

	if post.Status != model.PostStatusScheduled {
		return repository.ErrPostNotScheduled
	}

	return w.publishPost(ctx, post)
}

// SetBatchSize overrides the default pass batch size.
func (w *Worker) SetBatchSize(size int) {
	if size > 0 {
		w.batchSize = size
	}
}

// SetPollInterval overrides the default poll interval.
func (w *Worker) SetPollInterval(interval time.Duration) {
	if interval > 0 {
		w.pollInterval = interval
	}
}

// SetPublishTimeout overrides the per-call publish timeout.
func (w *Worker) SetPublishTimeout(timeout time.Duration) {
	if timeout > 0 {
		w.publishTimeout = timeout
	}
}
