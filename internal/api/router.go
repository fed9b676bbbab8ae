// Package api implements the HTTP surface of the banner service: the
// shopper-facing banner endpoints and the admin control plane.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/cartsignal/cartsignal/internal/banner"
	"github.com/cartsignal/cartsignal/internal/dismiss"
	"github.com/cartsignal/cartsignal/internal/fetch"
	"github.com/cartsignal/cartsignal/internal/server"
)

// Handler holds all API handler state.
type Handler struct {
	engine   *banner.Engine
	provider *fetch.Provider
	store    dismiss.Store
	reqLog   *server.RequestLog
	logger   *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(engine *banner.Engine, provider *fetch.Provider, store dismiss.Store, reqLog *server.RequestLog, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, provider: provider, store: store, reqLog: reqLog, logger: logger}
}

// Routes mounts the v1 API and admin routes.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/banners", h.RenderBanners)
		r.Post("/banners/dismiss", h.DismissBanner)
		r.Get("/config", h.GetConfig)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/requests", h.Requests)
		r.Post("/config", h.SetConfig)
		r.Post("/reset", h.Reset)
	})
}
