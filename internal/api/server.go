// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ascinsa/pms/internal/activity"
	"github.com/ascinsa/pms/internal/control"
	"github.com/ascinsa/pms/internal/hour"
	"github.com/ascinsa/pms/internal/pages"
	"github.com/ascinsa/pms/internal/platform/config"
	"github.com/ascinsa/pms/internal/platform/constants"
	"github.com/ascinsa/pms/internal/platform/metrics"
	"github.com/ascinsa/pms/internal/platform/middleware"
	"github.com/ascinsa/pms/internal/platform/respond"
	"github.com/ascinsa/pms/internal/platform/sec"
	"github.com/ascinsa/pms/internal/platform/session"
	"github.com/ascinsa/pms/internal/project"
	"github.com/ascinsa/pms/internal/users/auth"
)

// MessageNotFound answers every unmatched route.
const MessageNotFound = "Sorry, page not found!"

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets. Nil handlers are
// not mounted.
type Handlers struct {
	// Liveness is the /health handler, 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when postgres and redis answer.
	Readiness http.HandlerFunc

	// Auth handles /auth/login and /auth/logout.
	Auth *auth.Handler

	// Pages serves home, docs, changelog and the checklist.
	Pages *pages.Handler

	// Hours serves the hour log pages, HoursAPI the caller's hours as JSON.
	Hours    *hour.Handler
	HoursAPI *hour.APIHandler

	// Controls serves the internal control items.
	Controls *control.Handler

	// Projects serves the project portfolio.
	Projects *project.Handler

	// History serves the activity log.
	History *activity.Handler
}

// Dependencies are the cross-cutting collaborators of the middleware chain.
type Dependencies struct {
	Sessions *session.Manager
	Verifier middleware.TokenVerifier
	Roles    *sec.RoleTable
	Metrics  *metrics.Metrics

	// Limiter applies to every request; nil disables it.
	Limiter *middleware.IPLimiter

	// TrustedProxies may set the client address through forwarding headers.
	TrustedProxies []netip.Prefix
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, deps Dependencies, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.TrustProxies(deps.TrustedProxies))
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery())
	r.Use(deps.Metrics.Instrument)
	r.Use(chimw.CleanPath)
	r.Use(middleware.CanonicalPath)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	if deps.Limiter != nil {
		r.Use(deps.Limiter.Middleware)
	}
	r.Use(deps.Sessions.Middleware)
	r.Use(middleware.DeriveRoles(deps.Roles))
	r.Use(middleware.RequireSession)

	r.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Text(writer, http.StatusNotFound, MessageNotFound)
	})

	// # Infrastructure Endpoints
	// Unauthenticated probes and the Prometheus scrape target.
	if h.Liveness != nil {
		r.Get("/health", h.Liveness)
	}
	if h.Readiness != nil {
		r.Get("/ready", h.Readiness)
	}
	r.Handle("/metrics", deps.Metrics.Handler())

	// # Static Assets
	static := http.FileServer(http.Dir(cfg.StaticDir))
	for _, prefix := range []string{"/css/*", "/js/*", "/img/*", "/vendor/*"} {
		r.Handle(prefix, static)
	}
	r.Handle("/favicon.ico", static)

	if h.Auth != nil {
		r.Route(constants.PathAuth, h.Auth.RegisterRoutes)
	}

	authOptions := middleware.AuthOptions{
		Verifier:     deps.Verifier,
		Policy:       cfg.AreaPolicy(),
		SecureCookie: cfg.IsProduction(),
		Metrics:      deps.Metrics,
	}

	// # JSON API
	// Token only: no session is required and failures answer 401.
	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Authenticate(authOptions))
		api.Get("/protected", pages.Protected)
		if h.HoursAPI != nil {
			api.Route("/hours", h.HoursAPI.RegisterRoutes)
		}
	})

	// # Pages
	r.Group(func(site chi.Router) {
		site.Use(middleware.Authenticate(authOptions))

		if h.Pages != nil {
			h.Pages.RegisterRoutes(site)
		}
		if h.Hours != nil {
			site.Route("/hour", h.Hours.RegisterRoutes)
		}
		if h.Controls != nil {
			site.Route("/control", h.Controls.RegisterRoutes)
		}
		if h.Projects != nil {
			site.Route(project.PathIndex, h.Projects.RegisterRoutes)
		}
		if h.History != nil {
			site.Route("/history", h.History.RegisterRoutes)
		}
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

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
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
