// Package api exposes the HTTP surface: the gamesData aggregation proxy,
// the public pricing and reviews lists, and the gated admin CRUD.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/youssefMoMo/youssef-portfolio/internal/auth"
	"github.com/youssefMoMo/youssef-portfolio/internal/config"
	"github.com/youssefMoMo/youssef-portfolio/internal/ratelimit"
	"github.com/youssefMoMo/youssef-portfolio/internal/repository"
	"github.com/youssefMoMo/youssef-portfolio/internal/service"

	log "github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server

	games   *service.GamesService
	pricing repository.PricingRepository
	reviews repository.ReviewRepository
	limiter ratelimit.Limiter
	auth    *auth.Manager

	corsOrigins map[string]struct{}
}

func NewServer(
	cfg config.ServerConfig,
	games *service.GamesService,
	pricing repository.PricingRepository,
	reviews repository.ReviewRepository,
	limiter ratelimit.Limiter,
	authManager *auth.Manager,
) *Server {
	origins := make(map[string]struct{}, len(cfg.CORSOrigins))
	for _, origin := range cfg.CORSOrigins {
		origins[origin] = struct{}{}
	}

	s := &Server{
		games:       games,
		pricing:     pricing,
		reviews:     reviews,
		limiter:     limiter,
		auth:        authManager,
		corsOrigins: origins,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/gamesData", s.handleGamesData)
	mux.HandleFunc("/pricing", s.handlePricing)
	mux.HandleFunc("/reviews", s.handleReviews)
	mux.HandleFunc("/admin/login", s.handleAdminLogin)
	mux.HandleFunc("/admin/logout", s.handleAdminLogout)
	mux.HandleFunc("/admin/pricing", s.handleAdminPricing)
	mux.HandleFunc("/admin/reviews", s.handleAdminReviews)
	mux.HandleFunc("/healthz", handleHealth)

	s.httpServer = &http.Server{
		Addr:         cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Handler:      s.cors(mux),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	}
	return s
}

// Handler exposes the full middleware-wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on %s", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// cors reflects allow-listed origins and answers preflights. Requests from
// unknown origins pass through without CORS headers; the browser enforces
// the rest.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if _, ok := s.corsOrigins[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+auth.CSRFHeaderName)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
