package handler

import (
	"fmt"
	"net/http"

	"github.com/postdeck/postdeck/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "postdeck_posts_scheduled_total %d\n", snap.PostsScheduled)
	writeMetric(w, "postdeck_posts_drafted_total %d\n", snap.PostsDrafted)
	writeMetric(w, "postdeck_posts_published_total %d\n", snap.PostsPublished)
	writeMetric(w, "postdeck_posts_failed_total %d\n", snap.PostsFailed)

	for key, count := range snap.PublishAttempts {
		writeMetric(w, "postdeck_publish_attempts_total{key=%q} %d\n", key, count)
	}

	writeMetric(w, "postdeck_publish_pass_duration_seconds_count %d\n", snap.PassDurationCount)
	writeMetric(w, "postdeck_publish_pass_duration_seconds_sum %.6f\n", float64(snap.PassDurationTotalNs)/1e9)
	writeMetric(w, "postdeck_publish_due_queue_depth %d\n", snap.DueQueueDepth)

	writeMetric(w, "postdeck_analytics_requests_total %d\n", snap.AnalyticsRequests)
	writeMetric(w, "postdeck_metrics_cache_total{result=\"hit\"} %d\n", snap.MetricsCacheHits)
	writeMetric(w, "postdeck_metrics_cache_total{result=\"miss\"} %d\n", snap.MetricsCacheMisses)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
