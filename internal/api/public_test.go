package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/youssefMoMo/youssef-portfolio/internal/auth"
	"github.com/youssefMoMo/youssef-portfolio/internal/config"
	"github.com/youssefMoMo/youssef-portfolio/internal/domain"
	"github.com/youssefMoMo/youssef-portfolio/internal/ratelimit"
	"github.com/youssefMoMo/youssef-portfolio/internal/service"
)

func TestPublicListsOnlyActiveRowsWithCache(t *testing.T) {
	pricing := &fakePricingRepo{items: []domain.PricingItem{
		{ID: 1, Title: "Visible", Active: true},
		{ID: 2, Title: "Hidden", Active: false},
	}, nextID: 2}
	reviews := &fakeReviewRepo{reviews: []domain.Review{
		{ID: 1, Author: "Dana", Quote: "Great work", Active: true},
	}, nextID: 1}

	srv := NewServer(
		config.ServerConfig{Host: "127.0.0.1", Port: 0},
		service.NewGamesService(&stubGameAPI{}),
		pricing,
		reviews,
		ratelimit.NewMemoryLimiter(1000, time.Minute),
		auth.NewManager(config.AdminConfig{}),
	)

	r := httptest.NewRequest(http.MethodGet, "/pricing", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=300" {
		t.Errorf("Cache-Control = %q", cc)
	}
	if !strings.Contains(w.Body.String(), "Visible") || strings.Contains(w.Body.String(), "Hidden") {
		t.Errorf("inactive rows leaked: %s", w.Body.String())
	}

	r = httptest.NewRequest(http.MethodGet, "/reviews", nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Dana") {
		t.Errorf("expected review author in body: %s", w.Body.String())
	}
}

func TestClientIPExtraction(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:5555"

	if ip := clientIP(r); ip != "192.0.2.10" {
		t.Errorf("peer fallback = %q", ip)
	}

	r.Header.Set("X-Real-IP", "198.51.100.3")
	if ip := clientIP(r); ip != "198.51.100.3" {
		t.Errorf("X-Real-IP = %q", ip)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if ip := clientIP(r); ip != "203.0.113.9" {
		t.Errorf("X-Forwarded-For first entry = %q", ip)
	}
}
