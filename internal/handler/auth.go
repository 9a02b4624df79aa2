package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/postdeck/postdeck/internal/connection"
	"github.com/postdeck/postdeck/internal/handler/dto"
	"github.com/postdeck/postdeck/internal/platform"
)

// AuthHandler manages platform connection endpoints.
type AuthHandler struct {
	svc    *connection.Service
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *connection.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Status handles GET /api/auth/{platform}. An OAuth redirect callback
// lands here as a GET carrying ?code=, so a code query parameter is
// exchanged for a connection token exactly like a POST; without one the
// endpoint reports connection status.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	pl, ok := h.platformParam(w, r)
	if !ok {
		return
	}

	if code := r.URL.Query().Get("code"); code != "" {
		token, err := h.svc.Connect(r.Context(), pl, code)
		if err != nil {
			h.handleServiceError(w, err)
			return
		}

		h.logger.Info("platform_connected", "platform", string(pl))

		writeJSON(w, http.StatusOK, dto.ConnectResponse{
			Platform: string(pl),
			Token:    token,
		})
		return
	}

	connected, err := h.svc.IsConnected(r.Context(), pl)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConnectionStatusResponse{
		Platform:  string(pl),
		Connected: connected,
	})
}

// Connect handles POST /api/auth/{platform}. Exchanges an authorization
// code for a connection token; the token is returned exactly once.
func (h *AuthHandler) Connect(w http.ResponseWriter, r *http.Request) {
	pl, ok := h.platformParam(w, r)
	if !ok {
		return
	}

	var req dto.ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	token, err := h.svc.Connect(r.Context(), pl, req.Code)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("platform_connected", "platform", string(pl))

	writeJSON(w, http.StatusCreated, dto.ConnectResponse{
		Platform: string(pl),
		Token:    token,
	})
}

// Disconnect handles DELETE /api/auth/{platform}.
func (h *AuthHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	pl, ok := h.platformParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.Disconnect(r.Context(), pl); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("platform_disconnected", "platform", string(pl))

	w.WriteHeader(http.StatusNoContent)
}

// platformParam parses the {platform} URL parameter, writing a 400 on
// failure.
func (h *AuthHandler) platformParam(w http.ResponseWriter, r *http.Request) (platform.Platform, bool) {
	raw := chi.URLParam(r, "platform")
	pl, ok := platform.Parse(raw)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "INVALID_PLATFORM", "Unknown platform: "+raw)
		return "", false
	}
	return pl, true
}

// handleServiceError maps connection service errors to HTTP responses.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, connection.ErrInvalidCode):
		h.writeError(w, http.StatusBadRequest, "INVALID_CODE", "Authorization code is required")
	case errors.Is(err, connection.ErrUnknownPlatform):
		h.writeError(w, http.StatusBadRequest, "INVALID_PLATFORM", "Unknown platform")
	case errors.Is(err, connection.ErrStoreNotConfigured):
		h.writeError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Connection storage is not configured")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *AuthHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
