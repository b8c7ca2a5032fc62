package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the explanation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/explanations", func(r chi.Router) {
		// Static segment registered first; chi matches it ahead of {date}.
		r.Get("/latest", h.HandleGetLatest)
		r.Get("/{date}", func(w http.ResponseWriter, r *http.Request) {
			h.HandleGetByDate(w, r, chi.URLParam(r, "date"))
		})
	})
}
