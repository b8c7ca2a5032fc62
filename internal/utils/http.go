// Package utils holds small helpers shared by the HTTP handler packages.
package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/readiness/internal/domain"
	"github.com/rs/zerolog"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error            string           `json:"error"`
	Kind             domain.ErrorKind `json:"kind"`
	Details          string           `json:"details,omitempty"`
	MissingVariables []string         `json:"missingVariables,omitempty"`
}

// StatusForError maps a classified error to an HTTP status.
// Unclassified errors are 500.
func StatusForError(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ResponseKind is the kind reported for err; unclassified errors are INTERNAL.
func ResponseKind(err error) domain.ErrorKind {
	if kind := domain.KindOf(err); kind != "" {
		return kind
	}
	return domain.KindInternal
}

// NewErrorResponse builds the body for err under a short summary.
func NewErrorResponse(summary string, err error) ErrorResponse {
	resp := ErrorResponse{Error: summary, Kind: ResponseKind(err), Details: err.Error()}

	var derr *domain.Error
	if errors.As(err, &derr) {
		resp.Details = derr.Detail
		if derr.Err != nil {
			resp.Details += ": " + derr.Err.Error()
		}
		resp.MissingVariables = derr.Missing
	}
	return resp
}

// WriteJSON writes data with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}, log zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
