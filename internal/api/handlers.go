package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/cartsignal/cartsignal/internal/cart"
	"github.com/cartsignal/cartsignal/internal/config"
	"github.com/cartsignal/cartsignal/internal/server"
)

// sessionHeader carries the shopper's session identifier. The render
// endpoint issues one when the caller has none yet.
const sessionHeader = "X-Session-Id"

// RenderBanners handles POST /v1/banners.
func (h *Handler) RenderBanners(w http.ResponseWriter, r *http.Request) {
	var snap cart.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		server.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	banners := h.engine.Render(r.Context(), snap, sessionID)

	w.Header().Set(sessionHeader, sessionID)
	server.JSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"banners":    banners,
	})
}

// DismissBanner handles POST /v1/banners/dismiss.
func (h *Handler) DismissBanner(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Priority  *int   `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		req.SessionID = r.Header.Get(sessionHeader)
	}
	if req.SessionID == "" {
		server.Error(w, http.StatusUnprocessableEntity, "session_id is required")
		return
	}
	if req.Priority == nil {
		server.Error(w, http.StatusUnprocessableEntity, "priority is required")
		return
	}

	h.engine.Dismiss(r.Context(), req.SessionID, *req.Priority)
	server.JSON(w, http.StatusOK, map[string]any{"dismissed": *req.Priority})
}

// GetConfig handles GET /v1/config. It returns the currently applied
// merchant configuration, or 404 before the first resolve.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.provider.Current()
	if cfg == nil {
		server.Error(w, http.StatusNotFound, "no configuration applied yet")
		return
	}
	server.JSON(w, http.StatusOK, cfg)
}

// SetConfig handles POST /admin/config. The document is validated in full
// before it replaces the applied configuration.
func (h *Handler) SetConfig(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		server.Error(w, http.StatusBadRequest, "reading body: "+err.Error())
		return
	}
	cfg, err := config.Parse(data)
	if err != nil {
		server.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.provider.Set(cfg)
	h.logger.Info("config replaced via admin")
	server.JSON(w, http.StatusOK, map[string]any{"applied": true})
}

// Reset handles POST /admin/reset. It clears in-memory dismissal state and
// the request log. Durable dismissal sets are left alone; they expire on
// their own TTL.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if resettable, ok := h.store.(interface{ Reset() }); ok {
		resettable.Reset()
	}
	h.reqLog.Clear()
	h.logger.Info("state reset via admin")
	server.JSON(w, http.StatusOK, map[string]any{"reset": true})
}

// Health handles GET /admin/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	server.JSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"config_resolved": h.provider.Current() != nil,
	})
}

// Requests handles GET /admin/requests.
func (h *Handler) Requests(w http.ResponseWriter, r *http.Request) {
	server.JSON(w, http.StatusOK, h.reqLog.Entries())
}
