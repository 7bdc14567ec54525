package routing

import (
	"net/http"
)

// Health implements GET /api/health.
func (s *CatalogueServer) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, r, http.StatusOK, map[string]any{"status": "ok"}, "Service is healthy")
}
