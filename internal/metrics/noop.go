package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncPostScheduled is a no-op.
func (n *NoopRecorder) IncPostScheduled() {}

// IncPostDrafted is a no-op.
func (n *NoopRecorder) IncPostDrafted() {}

// IncPostPublished is a no-op.
func (n *NoopRecorder) IncPostPublished() {}

// IncPostFailed is a no-op.
func (n *NoopRecorder) IncPostFailed() {}

// IncPublishAttempt is a no-op.
func (n *NoopRecorder) IncPublishAttempt(platform string, status string) {}

// ObservePublishDuration is a no-op.
func (n *NoopRecorder) ObservePublishDuration(platform string, duration time.Duration) {}

// ObservePassDuration is a no-op.
func (n *NoopRecorder) ObservePassDuration(duration time.Duration) {}

// SetDueQueueDepth is a no-op.
func (n *NoopRecorder) SetDueQueueDepth(depth int64) {}

// IncAnalyticsRequest is a no-op.
func (n *NoopRecorder) IncAnalyticsRequest() {}

// IncMetricsCache is a no-op.
func (n *NoopRecorder) IncMetricsCache(result string) {}
