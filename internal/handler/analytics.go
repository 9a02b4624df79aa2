package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/postdeck/postdeck/internal/analytics"
	"github.com/postdeck/postdeck/internal/handler/dto"
	"github.com/postdeck/postdeck/internal/service"
)

// AnalyticsHandler serves the unified analytics view.
type AnalyticsHandler struct {
	svc    *analytics.Service
	logger *slog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(svc *analytics.Service, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		svc:    svc,
		logger: logger,
	}
}

// Unified handles GET /api/analytics.
func (h *AnalyticsHandler) Unified(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Unified(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrStoreNotConfigured) {
			writeJSON(w, http.StatusServiceUnavailable, dto.ErrorResponse{
				Error: "Post storage is not configured",
				Code:  "STORE_UNAVAILABLE",
			})
			return
		}
		h.logger.Error("analytics_failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	writeJSON(w, http.StatusOK, dto.AnalyticsResponse{Analytics: view})
}
