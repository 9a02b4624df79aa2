// Package publish delivers due posts to their target platforms and
// drives the post status state machine.
package publish

import (
	"context"
	"log/slog"
	"time"

	"github.com/postdeck/postdeck/internal/platform"
)

// Publisher sends content to one external platform. Real API clients
// implement this per platform; the stubs below stand in until the
// OAuth integrations exist.
type Publisher interface {
	Platform() platform.Platform
	Publish(ctx context.Context, content string) error
}

// StubPublisher simulates a platform API call without performing any
// network I/O. It honors context cancellation so the worker's per-call
// timeout applies to it like it would to a real client.
type StubPublisher struct {
	platform platform.Platform
	latency  time.Duration
	logger   *slog.Logger
}

// NewStubPublisher creates a stub for the given platform.
func NewStubPublisher(p platform.Platform, logger *slog.Logger) *StubPublisher {
	return &StubPublisher{
		platform: p,
		latency:  50 * time.Millisecond,
		logger:   logger.With("component", "publish.stub", "platform", string(p)),
	}
}

// Platform returns the platform this publisher targets.
func (s *StubPublisher) Platform() platform.Platform {
	return s.platform
}

// Publish pretends to deliver content to the platform.
func (s *StubPublisher) Publish(ctx context.Context, content string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.latency):
	}

	s.logger.Info("published content",
		"content_length", len(content),
	)
	return nil
}

// StubPublishers builds a stub publisher for every supported platform.
func StubPublishers(logger *slog.Logger) map[platform.Platform]Publisher {
	publishers := make(map[platform.Platform]Publisher, len(platform.All()))
	for _, p := range platform.All() {
		publishers[p] = NewStubPublisher(p, logger)
	}
	return publishers
}
