// Package handlers provides HTTP handlers for daily metrics and their summary.
package handlers

import (
	"context"
	"net/http"

	"github.com/aristath/readiness/internal/domain"
	"github.com/aristath/readiness/internal/modules/metrics"
	"github.com/aristath/readiness/internal/modules/trends"
	"github.com/aristath/readiness/internal/utils"
	"github.com/rs/zerolog"
)

// MetricsProvider serves date windows of metric rows.
type MetricsProvider interface {
	ResolveRange(start, end, days string) (metrics.RangeRequest, error)
	Request(ctx context.Context, req metrics.RangeRequest) ([]domain.MetricRow, error)
	Snapshot() []domain.MetricRow
}

// Handler handles metrics HTTP requests
type Handler struct {
	service MetricsProvider
	log     zerolog.Logger
}

// NewHandler creates a new metrics handler
func NewHandler(service MetricsProvider, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "metrics").Logger(),
	}
}

type dataResponse struct {
	Data interface{} `json:"data"`
}

// HandleGetMetrics handles GET /api/metrics
// Query: startDate & endDate, or days (1-365), or nothing for the last 30 days.
func (h *Handler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.load(w, r)
	if !ok {
		return
	}
	if rows == nil {
		rows = []domain.MetricRow{}
	}
	utils.WriteJSON(w, http.StatusOK, dataResponse{Data: rows}, h.log)
}

// HandleGetSummary handles GET /api/metrics/summary
// Ensures the requested window is cached, then summarizes everything cached.
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.load(w, r); !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, dataResponse{Data: trends.Summarize(h.service.Snapshot())}, h.log)
}

// load resolves the query parameters and fetches the window. On failure it
// writes the error response and returns false.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) ([]domain.MetricRow, bool) {
	q := r.URL.Query()

	req, err := h.service.ResolveRange(q.Get("startDate"), q.Get("endDate"), q.Get("days"))
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.NewErrorResponse("Invalid request", err), h.log)
		return nil, false
	}

	rows, err := h.service.Request(r.Context(), req)
	if err != nil {
		status := utils.StatusForError(err)
		if status >= http.StatusInternalServerError {
			h.log.Error().
				Err(err).
				Str("start", req.Start).
				Str("end", req.End).
				Msg("Failed to load metrics")
		}
		utils.WriteJSON(w, status, utils.NewErrorResponse("Failed to load metrics", err), h.log)
		return nil, false
	}
	return rows, true
}
