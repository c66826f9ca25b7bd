// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Unimart HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when configured.
//  5. Run database migrations (idempotent).
//  6. Build the token codec, identity resolver and access policy.
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

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/unimart/internal/api"
	"github.com/taibuivan/unimart/internal/market/listing"
	"github.com/taibuivan/unimart/internal/market/media"
	"github.com/taibuivan/unimart/internal/platform/config"
	"github.com/taibuivan/unimart/internal/platform/constants"
	"github.com/taibuivan/unimart/internal/platform/migration"
	"github.com/taibuivan/unimart/internal/platform/policy"
	pgstore "github.com/taibuivan/unimart/internal/platform/postgres"
	redisstore "github.com/taibuivan/unimart/internal/platform/redis"
	"github.com/taibuivan/unimart/internal/platform/sec"
	"github.com/taibuivan/unimart/internal/users/account"
	"github.com/taibuivan/unimart/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("production", cfg.IsProduction()),
		slog.Bool("rsa_signing", cfg.UsesRSA()),
		slog.Bool("search_cache", cfg.RedisURL != ""),
	)

	// Bounded startup so misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var (
		rdb         *goredis.Client
		searchCache listing.SearchCache
		checkCache  func(ctx context.Context) error
	)
	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		searchCache = listing.NewRedisSearchCache(rdb, cfg.SearchCacheTTL)
		checkCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security ───────────────────────────────────────────────────────
	codec, err := newCodec(cfg)
	must(log, err, "initialize token codec")

	accessPolicy, err := policy.New(policy.DefaultRules(cfg.PublicPaths...))
	must(log, err, "build access policy")

	for _, rule := range accessPolicy.Rules() {
		log.Debug("access_rule", slog.String("pattern", rule.Pattern), slog.String("mode", rule.Mode.String()))
	}

	accountRepository := account.NewPostgresRepository(pool)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    checkCache,
	}, log)

	mediaHandler, err := media.NewHandler(cfg.UploadDir, log)
	must(log, err, "open upload directory")
	defer mediaHandler.Close()

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(auth.NewService(accountRepository, codec, log)),
		Account:   account.NewHandler(account.NewService(accountRepository, log)),
		Listing:   listing.NewHandler(listing.NewService(listing.NewPostgresRepository(pool), searchCache, log)),
		Media:     mediaHandler,
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(cfg, log, api.Security{
		Tokens:     codec,
		Identities: account.NewIdentityResolver(accountRepository),
		Policy:     accessPolicy,
	}, handlers)

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

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the process-wide JSON logger.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", "unimart"))
}

// newCodec selects RS256 when a key pair is configured and HS256 otherwise.
func newCodec(cfg *config.Config) (*sec.TokenCodec, error) {
	if cfg.UsesRSA() {
		return sec.NewRSACodec(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, cfg.JWTTTL, cfg.JWTIssuer)
	}
	return sec.NewHMACCodec([]byte(cfg.JWTSecret), cfg.JWTTTL, cfg.JWTIssuer)
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
