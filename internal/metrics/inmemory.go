package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	PostsScheduled      uint64
	PostsDrafted        uint64
	PostsPublished      uint64
	PostsFailed         uint64
	PublishAttempts     map[string]uint64 // keyed by "platform:status"
	PassDurationCount   uint64
	PassDurationTotalNs int64
	DueQueueDepth       int64
	AnalyticsRequests   uint64
	MetricsCacheHits    uint64
	MetricsCacheMisses  uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	postsScheduled      uint64
	postsDrafted        uint64
	postsPublished      uint64
	postsFailed         uint64
	passDurationCount   uint64
	passDurationTotalNs int64
	dueQueueDepth       int64
	analyticsRequests   uint64
	metricsCacheHits    uint64
	metricsCacheMisses  uint64

	mu              sync.Mutex
	publishAttempts map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		publishAttempts: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	attempts := make(map[string]uint64, len(m.publishAttempts))
	for k, v := range m.publishAttempts {
		attempts[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		PostsScheduled:      atomic.LoadUint64(&m.postsScheduled),
		PostsDrafted:        atomic.LoadUint64(&m.postsDrafted),
		PostsPublished:      atomic.LoadUint64(&m.postsPublished),
		PostsFailed:         atomic.LoadUint64(&m.postsFailed),
		PublishAttempts:     attempts,
		PassDurationCount:   atomic.LoadUint64(&m.passDurationCount),
		PassDurationTotalNs: atomic.LoadInt64(&m.passDurationTotalNs),
		DueQueueDepth:       atomic.LoadInt64(&m.dueQueueDepth),
		AnalyticsRequests:   atomic.LoadUint64(&m.analyticsRequests),
		MetricsCacheHits:    atomic.LoadUint64(&m.metricsCacheHits),
		MetricsCacheMisses:  atomic.LoadUint64(&m.metricsCacheMisses),
	}
}

// IncPostScheduled increments the scheduled-post counter.
func (m *InMemoryRecorder) IncPostScheduled() {
	atomic.AddUint64(&m.postsScheduled, 1)
}

// IncPostDrafted increments the drafted-post counter.
func (m *InMemoryRecorder) IncPostDrafted() {
	atomic.AddUint64(&m.postsDrafted, 1)
}

// IncPostPublished increments the published-post counter.
func (m *InMemoryRecorder) IncPostPublished() {
	atomic.AddUint64(&m.postsPublished, 1)
}

// IncPostFailed increments the failed-post counter.
func (m *InMemoryRecorder) IncPostFailed() {
	atomic.AddUint64(&m.postsFailed, 1)
}

// IncPublishAttempt increments the per-platform attempt counter.
func (m *InMemoryRecorder) IncPublishAttempt(platform string, status string) {
	m.mu.Lock()
	m.publishAttempts[platform+":"+status]++
	m.mu.Unlock()
}

// ObservePublishDuration is tracked only in aggregate here.
func (m *InMemoryRecorder) ObservePublishDuration(platform string, duration time.Duration) {}

// ObservePassDuration records one publish pass duration.
func (m *InMemoryRecorder) ObservePassDuration(duration time.Duration) {
	atomic.AddUint64(&m.passDurationCount, 1)
	atomic.AddInt64(&m.passDurationTotalNs, duration.Nanoseconds())
}

// SetDueQueueDepth records the current due-post queue depth.
func (m *InMemoryRecorder) SetDueQueueDepth(depth int64) {
	atomic.StoreInt64(&m.dueQueueDepth, depth)
}

// IncAnalyticsRequest increments the dashboard-request counter.
func (m *InMemoryRecorder) IncAnalyticsRequest() {
	atomic.AddUint64(&m.analyticsRequests, 1)
}

// IncMetricsCache increments the cache hit or miss counter.
func (m *InMemoryRecorder) IncMetricsCache(result string) {
	if result == "hit" {
		atomic.AddUint64(&m.metricsCacheHits, 1)
	} else {
		atomic.AddUint64(&m.metricsCacheMisses, 1)
	}
}
