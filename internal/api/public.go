package api

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

// handlePricing serves the public pricing list: active rows only, cached.
func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	items, err := s.pricing.ListActive(r.Context())
	if err != nil {
		log.Errorf("failed to list pricing items: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": items})
}

// handleReviews serves the public reviews list: active rows only, cached.
func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	reviews, err := s.reviews.ListActive(r.Context())
	if err != nil {
		log.Errorf("failed to list reviews: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": reviews})
}
