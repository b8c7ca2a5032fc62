package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the metrics routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/metrics", func(r chi.Router) {
		r.Get("/", h.HandleGetMetrics)
		r.Get("/summary", h.HandleGetSummary)
	})
}
