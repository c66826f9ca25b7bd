// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It is the composition root for the chi router.
  - Every request passes the authenticator and the access policy before any
    business handler runs.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/unimart/internal/market/listing"
	"github.com/taibuivan/unimart/internal/market/media"
	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/internal/platform/constants"
	"github.com/taibuivan/unimart/internal/platform/middleware"
	"github.com/taibuivan/unimart/internal/platform/policy"
	"github.com/taibuivan/unimart/internal/platform/respond"
	"github.com/taibuivan/unimart/internal/users/account"
	"github.com/taibuivan/unimart/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Config is the slice of application configuration the server needs.
type Config interface {
	middleware.AppConfig
	Port() string
}

// Security holds the request authentication pipeline.
type Security struct {
	// Tokens validates bearer credentials.
	Tokens middleware.TokenValidator

	// Identities rebuilds the principal from the live account.
	Identities middleware.PrincipalResolver

	// Policy decides which paths admit anonymous callers.
	Policy *policy.Policy
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /api/health handler.
	Liveness http.HandlerFunc

	// Readiness is the /api/ready handler.
	Readiness http.HandlerFunc

	// Auth handles registration and login.
	Auth *auth.Handler

	// Account handles the caller's profile and moderation.
	Account *account.Handler

	// Listing handles the marketplace catalogue.
	Listing *listing.Handler

	// Media serves uploaded images.
	Media *media.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg Config, log *slog.Logger, security Security, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)
	r.Use(middleware.Authenticate(security.Tokens, security.Identities))
	r.Use(policy.Enforce(security.Policy))
	r.Use(middleware.Timeout(constants.GlobalRequestTimeout))

	// Unmatched routes are client errors in the shared error shape.
	r.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.BadRequest("No route matches "+request.URL.Path))
	})
	r.MethodNotAllowed(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.BadRequest("Method "+request.Method+" is not allowed on this route"))
	})

	// # Documentation
	r.Get("/v3/api-docs", serveOpenAPI)
	r.Get("/swagger-ui", serveSwaggerUI)
	r.Get("/swagger-ui/*", serveSwaggerUI)

	// # Media
	r.Mount("/uploads", h.Media.Routes())

	// # Application API
	r.Route("/api", func(api chi.Router) {
		api.Get("/health", h.Liveness)
		api.Get("/ready", h.Readiness)

		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Account.Routes())
		api.Mount("/admin/users", h.Account.AdminRoutes())
		api.Mount("/listings", h.Listing.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port(),
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
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
