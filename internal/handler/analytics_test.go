package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/postdeck/postdeck/internal/analytics"
	"github.com/postdeck/postdeck/internal/handler/dto"
	"github.com/postdeck/postdeck/internal/model"
	"github.com/postdeck/postdeck/internal/platform"
	"github.com/postdeck/postdeck/internal/repository"
)

func TestAnalyticsHandler_Unified(t *testing.T) {
	store := repository.NewMemory()
	ctx := context.Background()
	past := time.Now().Add(-time.Hour).UTC()
	post := &model.ScheduledPost{
		ID:            "p1",
		Content:       "published already",
		Platforms:     []platform.Platform{platform.Twitter},
		ScheduledTime: &past,
		Status:        model.PostStatusScheduled,
		CreatedAt:     past,
	}
	if err := store.CreatePost(ctx, post); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if err := store.MarkPublished(ctx, "p1", time.Now().UTC()); err != nil {
		t.Fatalf("MarkPublished: %v", err)
	}

	svc := analytics.NewService(store, nil, analytics.NewStubFetcher(), testLogger(), nil)
	h := NewAnalyticsHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	rec := httptest.NewRecorder()
	h.Unified(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.AnalyticsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Analytics == nil {
		t.Fatal("expected analytics payload")
	}
	if resp.Analytics.TotalPosts != 1 {
		t.Errorf("TotalPosts = %d, want 1", resp.Analytics.TotalPosts)
	}
	if resp.Analytics.TotalImpressions == 0 {
		t.Error("expected nonzero impressions from stub fetcher")
	}
}

func TestAnalyticsHandler_NilStore(t *testing.T) {
	svc := analytics.NewService(nil, nil, analytics.NewStubFetcher(), testLogger(), nil)
	h := NewAnalyticsHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	rec := httptest.NewRecorder()
	h.Unified(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != "STORE_UNAVAILABLE" {
		t.Errorf("code = %s, want STORE_UNAVAILABLE", resp.Code)
	}
}
