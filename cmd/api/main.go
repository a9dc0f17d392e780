// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the StoryVoter HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Create the Prometheus registry.
//  4. Connect to PostgreSQL (pgxpool) and Redis.
//  5. Run database migrations (idempotent).
//  6. Wire repositories, services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/taibuivan/storyvoter/internal/api"
	"github.com/taibuivan/storyvoter/internal/billing/ledger"
	"github.com/taibuivan/storyvoter/internal/billing/payment"
	"github.com/taibuivan/storyvoter/internal/core/chapter"
	"github.com/taibuivan/storyvoter/internal/core/favorite"
	"github.com/taibuivan/storyvoter/internal/core/feed"
	"github.com/taibuivan/storyvoter/internal/core/publication"
	"github.com/taibuivan/storyvoter/internal/core/story"
	"github.com/taibuivan/storyvoter/internal/core/vote"
	"github.com/taibuivan/storyvoter/internal/platform/config"
	"github.com/taibuivan/storyvoter/internal/platform/constants"
	"github.com/taibuivan/storyvoter/internal/platform/metrics"
	"github.com/taibuivan/storyvoter/internal/platform/migration"
	pgstore "github.com/taibuivan/storyvoter/internal/platform/postgres"
	redisstore "github.com/taibuivan/storyvoter/internal/platform/redis"
	"github.com/taibuivan/storyvoter/internal/platform/sec"
	"github.com/taibuivan/storyvoter/internal/platform/yookassa"
	"github.com/taibuivan/storyvoter/internal/users/auth"
	"github.com/taibuivan/storyvoter/internal/users/profile"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Cancelled on SIGINT/SIGTERM; stops background workers.
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bounded so misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. Metrics ────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	// ── 4. PostgreSQL & Redis ─────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()
	go exportPoolStats(rootCtx, pool, appMetrics)

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize token service")

	profileRepository := profile.NewRepository(pool)
	storyRepository := story.NewRepository(pool)
	chapterRepository := chapter.NewRepository(pool)
	voteRepository := vote.NewRepository(pool)

	profileService := profile.NewService(profileRepository, log)
	authService := auth.NewService(
		auth.NewAccountRepository(pool),
		auth.NewSessionStore(rdb),
		profileRepository,
		tokens,
		log,
	)
	storyService := story.NewService(storyRepository, log)
	chapterService := chapter.NewService(chapterRepository, log)
	publicationService := publication.NewService(publication.NewRepository(pool), cfg.Voting.SequentialPolls, appMetrics, log)
	voteService := vote.NewService(voteRepository, chapterRepository, cfg.Voting, appMetrics, log)
	favoriteService := favorite.NewService(favorite.NewRepository(pool))
	feedService := feed.NewService(
		feed.NewRepository(pool),
		chapterRepository,
		voteService,
		favoriteService,
		feed.NewRedisCache(rdb),
		cfg.Feed,
		log,
	)
	ledgerService := ledger.NewService(ledger.NewRepository(pool), appMetrics, log)
	paymentService := payment.NewService(
		payment.NewRepository(pool),
		yookassa.NewClient(yookassa.Config{
			ShopID:    cfg.Billing.YooKassaShopID,
			SecretKey: cfg.Billing.YooKassaSecretKey,
			BaseURL:   cfg.Billing.YooKassaAPIURL,
		}, nil),
		cfg.Billing,
		appMetrics,
		log,
	)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log, appMetrics, tokens, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   appMetrics.Handler(),
		Domains: []api.RouteRegistrar{
			auth.NewHandler(authService),
			profile.NewHandler(profileService),
			feed.NewHandler(feedService),
			story.NewHandler(storyService),
			publication.NewHandler(publicationService),
			chapter.NewHandler(chapterService),
			vote.NewHandler(voteService),
			favorite.NewHandler(favoriteService),
			ledger.NewHandler(ledgerService),
			payment.NewHandler(paymentService),
		},
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_signal_received")
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger and makes it the process default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// exportPoolStats publishes pgxpool statistics until ctx is cancelled.
func exportPoolStats(ctx context.Context, pool *pgxpool.Pool, m *metrics.Metrics) {
	ticker := time.NewTicker(constants.PoolStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.RecordDBPoolStats(pool.Stat())
		case <-ctx.Done():
			return
		}
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
