// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Post lifecycle metrics
	IncPostScheduled()
	IncPostDrafted()
	IncPostPublished()
	IncPostFailed()

	// Publish pass metrics
	IncPublishAttempt(platform string, status string) // status: "success" or "error"
	ObservePublishDuration(platform string, duration time.Duration)
	ObservePassDuration(duration time.Duration)
	SetDueQueueDepth(depth int64)

	// Analytics metrics
	IncAnalyticsRequest()
	IncMetricsCache(result string) // result: "hit" or "miss"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
