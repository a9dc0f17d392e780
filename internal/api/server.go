// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost presentation boundary.
  - It is the composition root for the chi router.
  - Domain packages only see a [chi.Router] through RegisterRoutes.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/storyvoter/internal/platform/config"
	"github.com/taibuivan/storyvoter/internal/platform/constants"
	"github.com/taibuivan/storyvoter/internal/platform/metrics"
	"github.com/taibuivan/storyvoter/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// RouteRegistrar is implemented by every domain handler.
type RouteRegistrar interface {
	RegisterRoutes(api chi.Router)
}

// Handlers groups the infrastructure endpoints and the domain handler sets.
type Handlers struct {
	// Liveness is the /health handler. It answers 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It answers 200 when PostgreSQL and Redis respond.
	Readiness http.HandlerFunc

	// Metrics serves the Prometheus registry on /metrics.
	Metrics http.Handler

	// Domains register their routes under /api/v1 in order.
	Domains []RouteRegistrar
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. The rate limiter's sweeper stops with ctx.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, m *metrics.Metrics, verifier middleware.TokenVerifier, h Handlers) *Server {
	router := chi.NewRouter()
	limiter := middleware.NewRateLimiter(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)

	// # Middleware Chain
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(log, m))
	router.Use(middleware.PanicRecovery)
	router.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	router.Use(limiter.Middleware)
	router.Use(middleware.CORS(cfg))
	router.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	router.Get("/health", h.Liveness)
	router.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		router.Handle("/metrics", h.Metrics)
	}

	// # Application API
	router.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Authenticate(verifier))
		for _, domain := range h.Domains {
			domain.RegisterRoutes(api)
		}
	})

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server. It blocks until the server is closed.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
