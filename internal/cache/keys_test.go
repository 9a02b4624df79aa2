package cache

import (
	"testing"

	"github.com/postdeck/postdeck/internal/platform"
)

func TestMetricsKey(t *testing.T) {
	t.Parallel()

	got := metricsKey("post-1", platform.Twitter)
	if got != "metrics:post-1:twitter" {
		t.Errorf("metricsKey = %q", got)
	}
}

func TestTokenKey(t *testing.T) {
	t.Parallel()

	got := tokenKey(platform.LinkedIn)
	if got != "conn:linkedin" {
		t.Errorf("tokenKey = %q", got)
	}
}
