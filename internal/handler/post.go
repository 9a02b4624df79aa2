package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/postdeck/postdeck/internal/handler/dto"
	"github.com/postdeck/postdeck/internal/platform"
	"github.com/postdeck/postdeck/internal/publish"
	"github.com/postdeck/postdeck/internal/repository"
	"github.com/postdeck/postdeck/internal/service"
)

// PublishTrigger publishes one scheduled post immediately, outside the
// regular publish pass. Satisfied by *publish.Worker.
type PublishTrigger interface {
	PublishByID(ctx context.Context, id string) error
}

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	svc       *service.PostService
	publisher PublishTrigger
	logger    *slog.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(svc *service.PostService, publisher PublishTrigger, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		svc:       svc,
		publisher: publisher,
		logger:    logger,
	}
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SchedulePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.SchedulePostInput{
		Content:       req.Content,
		ScheduledTime: req.ScheduledTime,
	}
	for _, raw := range req.Platforms {
		p, ok := platform.Parse(raw)
		if !ok {
			h.writeError(w, http.StatusBadRequest, "INVALID_PLATFORM", "Unknown platform: "+raw)
			return
		}
		input.Platforms = append(input.Platforms, p)
	}
	if len(req.AdaptedContent) > 0 {
		input.AdaptedContent = make(map[platform.Platform]string, len(req.AdaptedContent))
		for raw, variant := range req.AdaptedContent {
			p, ok := platform.Parse(raw)
			if !ok {
				h.writeError(w, http.StatusBadRequest, "INVALID_PLATFORM", "Unknown platform: "+raw)
				return
			}
			input.AdaptedContent[p] = variant
		}
	}

	post, err := h.svc.SchedulePost(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("post_created",
		"post_id", post.ID,
		"status", string(post.Status),
		"platforms", len(post.Platforms),
	)

	writeJSON(w, http.StatusCreated, dto.SchedulePostResponse{
		ID:       post.ID,
		Message:  "Post scheduled successfully",
		Hashtags: platform.Hashtags(post.Content),
		Mentions: platform.Mentions(post.Content),
		URLs:     platform.URLs(post.Content),
	})
}

// List handles GET /api/posts. Returns scheduled posts ordered by
// scheduled time ascending.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListScheduled(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PostListResponse{Posts: posts})
}

// Get handles GET /api/posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Post ID is required")
		return
	}

	post, err := h.svc.GetPost(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PostResponse{Post: post})
}

// Publish handles POST /api/posts/{id}/publish. Publishes a scheduled
// post immediately, regardless of its scheduled time.
func (h *PostHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Post ID is required")
		return
	}

	if h.publisher == nil {
		h.writeError(w, http.StatusServiceUnavailable, "PUBLISHER_UNAVAILABLE", "Publishing is not available")
		return
	}

	if err := h.publisher.PublishByID(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	post, err := h.svc.GetPost(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("post_published_manually",
		"post_id", post.ID,
		"status", string(post.Status),
	)

	writeJSON(w, http.StatusOK, dto.PostResponse{Post: post})
}

// handleServiceError maps service errors to HTTP responses.
func (h *PostHandler) handleServiceError(w http.ResponseWriter, err error) {
	var limitErr *service.ContentLimitError

	switch {
	case errors.As(err, &limitErr):
		h.writeError(w, http.StatusBadRequest, "CONTENT_TOO_LONG", limitErr.Error())
	case service.IsValidationError(err):
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrPostNotFound), errors.Is(err, repository.ErrPostNotFound):
		h.writeError(w, http.StatusNotFound, "POST_NOT_FOUND", "Post not found")
	case errors.Is(err, repository.ErrPostNotScheduled):
		h.writeError(w, http.StatusConflict, "POST_NOT_SCHEDULED", "Post is not in scheduled status")
	case errors.Is(err, service.ErrStoreNotConfigured), errors.Is(err, publish.ErrStoreNotConfigured):
		h.writeError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Post storage is not configured")
	case errors.Is(err, publish.ErrNoPublisher):
		h.writeError(w, http.StatusBadGateway, "PUBLISH_FAILED", "No publisher available for a target platform")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *PostHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
