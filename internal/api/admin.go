package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/youssefMoMo/youssef-portfolio/internal/auth"
	"github.com/youssefMoMo/youssef-portfolio/internal/domain"
	"github.com/youssefMoMo/youssef-portfolio/internal/repository"

	log "github.com/sirupsen/logrus"
)

// adminAuthorized checks the three gate conditions: allow-listed IP, valid
// session token, and a matching CSRF pair on state-changing methods.
func (s *Server) adminAuthorized(r *http.Request) bool {
	if !s.auth.IPAllowed(clientIP(r)) {
		return false
	}

	cookie, err := r.Cookie(auth.SessionCookieName)
	if err != nil {
		return false
	}
	if err := s.auth.VerifySession(cookie.Value); err != nil {
		return false
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		csrfCookie, err := r.Cookie(auth.CSRFCookieName)
		if err != nil {
			return false
		}
		if !auth.CSRFMatches(r.Header.Get(auth.CSRFHeaderName), csrfCookie.Value) {
			return false
		}
	}

	return true
}

// stealthNotFound answers exactly like the mux does for unknown paths, so a
// prober cannot tell a gated route from a missing one.
func stealthNotFound(w http.ResponseWriter, r *http.Request) {
	http.NotFound(w, r)
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		stealthNotFound(w, r)
		return
	}
	if !s.auth.IPAllowed(clientIP(r)) {
		stealthNotFound(w, r)
		return
	}

	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	if !s.auth.VerifyCredentials(body.Username, body.Password) {
		log.Warnf("failed admin login from %s", clientIP(r))
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, expiresAt, err := s.auth.IssueSession()
	if err != nil {
		log.Errorf("failed to issue session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	csrfToken, err := auth.NewCSRFToken()
	if err != nil {
		log.Errorf("failed to issue CSRF token: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// Readable by the admin page so it can echo the value in the CSRF header.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CSRFCookieName,
		Value:    csrfToken,
		Path:     "/",
		Expires:  expiresAt,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		stealthNotFound(w, r)
		return
	}

	expired := time.Unix(0, 0)
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  expired,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CSRFCookieName,
		Value:    "",
		Path:     "/",
		Expires:  expired,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleAdminPricing(w http.ResponseWriter, r *http.Request) {
	if !s.adminAuthorized(r) {
		stealthNotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-store")

	switch r.Method {
	case http.MethodGet:
		items, err := s.pricing.ListAll(r.Context())
		if err != nil {
			log.Errorf("failed to list pricing items: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": items})

	case http.MethodPost:
		var in domain.PricingItemInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := in.ValidateCreate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		item, err := s.pricing.Create(r.Context(), in)
		if err != nil {
			log.Errorf("failed to create pricing item: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "data": item})

	case http.MethodPut:
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		var in domain.PricingItemInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		item, err := s.pricing.Update(r.Context(), id, in)
		if err != nil {
			respondUpdateError(w, "pricing item", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": item})

	case http.MethodDelete:
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		if err := s.pricing.Delete(r.Context(), id); err != nil {
			respondUpdateError(w, "pricing item", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleAdminReviews(w http.ResponseWriter, r *http.Request) {
	if !s.adminAuthorized(r) {
		stealthNotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-store")

	switch r.Method {
	case http.MethodGet:
		reviews, err := s.reviews.ListAll(r.Context())
		if err != nil {
			log.Errorf("failed to list reviews: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": reviews})

	case http.MethodPost:
		var in domain.ReviewInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := in.ValidateCreate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		review, err := s.reviews.Create(r.Context(), in)
		if err != nil {
			log.Errorf("failed to create review: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "data": review})

	case http.MethodPut:
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		var in domain.ReviewInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		review, err := s.reviews.Update(r.Context(), id, in)
		if err != nil {
			respondUpdateError(w, "review", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": review})

	case http.MethodDelete:
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		if err := s.reviews.Delete(r.Context(), id); err != nil {
			respondUpdateError(w, "review", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// requireID reads the numeric id query parameter used by update and delete.
func requireID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "a numeric id is required")
		return 0, false
	}
	return id, true
}

func respondUpdateError(w http.ResponseWriter, resource string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusBadRequest, resource+" not found")
		return
	}
	if errors.Is(err, repository.ErrNoFields) {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	log.Errorf("failed to write %s: %v", resource, err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
