package api

import (
	"net/http"
	"strconv"

	"github.com/youssefMoMo/youssef-portfolio/internal/domain"

	log "github.com/sirupsen/logrus"
)

// handleGamesData serves GET /gamesData?ids=<csv>. The rate limit is checked
// before any validation or upstream work.
func (s *Server) handleGamesData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if !s.limiter.Allow(r.Context(), clientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "too many requests")
		return
	}

	placeIDs := domain.FilterPlaceIDs(r.URL.Query().Get("ids"))
	if len(placeIDs) == 0 {
		writeError(w, http.StatusBadRequest, "no valid place IDs provided")
		return
	}

	stats, totalVisits, err := s.games.Aggregate(r.Context(), placeIDs)
	if err != nil {
		log.Errorf("aggregation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"data":        stats,
		"totalVisits": strconv.FormatInt(totalVisits, 10),
		"count":       len(stats),
	})
}
