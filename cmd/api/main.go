// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the project-management panel server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis (session store).
//  5. Run database migrations (idempotent).
//  6. Build the identity, directory and role services.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ascinsa/pms/internal/activity"
	"github.com/ascinsa/pms/internal/api"
	"github.com/ascinsa/pms/internal/control"
	"github.com/ascinsa/pms/internal/hour"
	"github.com/ascinsa/pms/internal/pages"
	"github.com/ascinsa/pms/internal/platform/config"
	"github.com/ascinsa/pms/internal/platform/constants"
	"github.com/ascinsa/pms/internal/platform/directory"
	"github.com/ascinsa/pms/internal/platform/metrics"
	"github.com/ascinsa/pms/internal/platform/middleware"
	"github.com/ascinsa/pms/internal/platform/migration"
	pgstore "github.com/ascinsa/pms/internal/platform/postgres"
	redisstore "github.com/ascinsa/pms/internal/platform/redis"
	"github.com/ascinsa/pms/internal/platform/sec"
	"github.com/ascinsa/pms/internal/platform/session"
	"github.com/ascinsa/pms/internal/platform/view"
	"github.com/ascinsa/pms/internal/project"
	"github.com/ascinsa/pms/internal/users/auth"
	"github.com/ascinsa/pms/migrations"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives as long as the process; stops background sweepers on shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	source := migration.Source{Dir: cfg.MigrationPath, Files: migrations.Files}
	must(log, migration.RunUp(cfg.DatabaseURL, source, log), "run migrations")

	// ── 6. Identity, Directory, Roles ─────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, constants.TokenTTL)
	must(log, err, "initialize token service")

	people, err := directory.NewClient(cfg.DirectoryURL, cfg.DirectoryKey, cfg.DirectoryTimeout)
	must(log, err, "initialize directory client")

	roles, err := cfg.RoleTable()
	must(log, err, "load role table")

	sessions, err := session.NewManager(session.NewRedisStore(rdb), cfg.SessionSecret, log,
		session.WithSecureCookie(cfg.IsProduction()),
		session.WithTTL(cfg.SessionTTL),
	)
	must(log, err, "initialize session manager")

	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	must(log, err, "parse trusted proxies")

	collector := metrics.New()

	renderer, err := view.New()
	must(log, err, "parse templates")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckSessions: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	recorder := activity.NewRecorder(activity.NewPostgresRepository(pool), collector)

	authService := auth.NewService(people, tokens, collector, log)
	loginLimiter := middleware.NewIPLimiter(appCtx, constants.LoginRateLimitRPS, constants.LoginRateLimitBurst)
	authHandler := auth.NewHandler(authService, renderer, cfg.IsProduction(), loginLimiter.Middleware)

	hourService := hour.NewService(hour.NewPostgresRepository(pool), recorder, people, log)
	controlService := control.NewService(control.NewPostgresRepository(pool), recorder, people, cfg.SystemsArea, log)
	projectService := project.NewService(project.NewPostgresRepository(pool), recorder, people, cfg.SystemsArea, log)
	historyService := activity.NewService(activity.NewPostgresRepository(pool), people, log)

	pagesHandler, err := pages.NewHandler(renderer, projectService, hourService)
	must(log, err, "render pages")

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Pages:     pagesHandler,
		Hours:     hour.NewHandler(hourService, renderer),
		HoursAPI:  hour.NewAPIHandler(hourService, recorder.LogAction("add_hour")),
		Controls:  control.NewHandler(controlService, renderer),
		Projects:  project.NewHandler(projectService, renderer, recorder.LogAction, roles.IsAdmin),
		History:   activity.NewHandler(historyService, renderer),
	}

	server := api.NewServer(cfg, log, api.Dependencies{
		Sessions: sessions,
		Verifier: tokens,
		Roles:    roles,
		Metrics:  collector,
		Limiter:  middleware.NewIPLimiter(appCtx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst),

		TrustedProxies: proxies,
	}, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
