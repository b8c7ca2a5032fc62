package server

import (
	"net/http"

	"github.com/aristath/readiness/internal/utils"
)

// handleHealth reports liveness. It never touches remote services.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "readiness",
	}, s.log)
}
