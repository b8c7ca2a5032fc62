// Package handlers provides HTTP handlers for daily explanations.
package handlers

import (
	"context"
	"net/http"

	"github.com/aristath/readiness/internal/domain"
	"github.com/aristath/readiness/internal/modules/explanations"
	"github.com/aristath/readiness/internal/utils"
	"github.com/rs/zerolog"
)

// Explainer resolves explanations by date.
type Explainer interface {
	Get(ctx context.Context, date string) (*explanations.Explanation, error)
	Yesterday() string
}

// Handler handles explanation HTTP requests
type Handler struct {
	service Explainer
	log     zerolog.Logger
}

// NewHandler creates a new explanations handler
func NewHandler(service Explainer, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "explanations").Logger(),
	}
}

// notFoundResponse is the 404 body: the date is echoed back.
type notFoundResponse struct {
	Error string           `json:"error"`
	Kind  domain.ErrorKind `json:"kind"`
	Date  string           `json:"date"`
}

// HandleGetByDate handles GET /api/explanations/{date}
func (h *Handler) HandleGetByDate(w http.ResponseWriter, r *http.Request, date string) {
	h.serve(w, r, date)
}

// HandleGetLatest handles GET /api/explanations/latest
// The date is always yesterday, regardless of what metrics are cached.
func (h *Handler) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.service.Yesterday())
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, date string) {
	e, err := h.service.Get(r.Context(), date)
	if err == nil {
		utils.WriteJSON(w, http.StatusOK, e, h.log)
		return
	}

	switch domain.KindOf(err) {
	case domain.KindNotFound:
		h.log.Debug().Str("date", date).Msg("No explanation for date")
		utils.WriteJSON(w, http.StatusNotFound, notFoundResponse{
			Error: "No explanation found for this date",
			Kind:  domain.KindNotFound,
			Date:  date,
		}, h.log)
	case domain.KindValidation:
		utils.WriteJSON(w, http.StatusBadRequest, utils.NewErrorResponse("Invalid date", err), h.log)
	default:
		h.log.Error().Err(err).Str("date", date).Msg("Failed to load explanation")
		utils.WriteJSON(w, utils.StatusForError(err), utils.NewErrorResponse("Failed to load explanation", err), h.log)
	}
}
