// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Cinemateca HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and Redis.
//  4. Run database migrations (idempotent).
//  5. Open the image store and the actor lock.
//  6. Wire movie, actor and cast services and handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/cinemateca/internal/api"
	"github.com/taibuivan/cinemateca/internal/core/actor"
	"github.com/taibuivan/cinemateca/internal/core/cast"
	"github.com/taibuivan/cinemateca/internal/core/movie"
	"github.com/taibuivan/cinemateca/internal/platform/config"
	"github.com/taibuivan/cinemateca/internal/platform/constants"
	"github.com/taibuivan/cinemateca/internal/platform/lock"
	"github.com/taibuivan/cinemateca/internal/platform/migration"
	pgstore "github.com/taibuivan/cinemateca/internal/platform/postgres"
	redisstore "github.com/taibuivan/cinemateca/internal/platform/redis"
	"github.com/taibuivan/cinemateca/internal/platform/storage"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("[Cinemateca] service_initializing")

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
		slog.String("storage_driver", cfg.StorageDriver),
		slog.String("lock_driver", cfg.LockDriver),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Images and Locks ───────────────────────────────────────────────
	images, err := openImageStore(startupCtx, cfg, log)
	must(log, err, "open image store")

	locker := newLocker(cfg, rdb)

	vocabulary, err := movie.LoadVocabulary(cfg.VocabularyFile)
	must(log, err, "load vocabulary")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		Database: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		Cache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	// Order matters: actors read filmographies from the movie store, and the
	// cast service drives both.
	movieRepository := movie.NewPostgresRepository(pool)
	actorRepository := actor.NewPostgresRepository(pool)

	movieService := movie.NewService(movieRepository, images,
		movie.NewRedisOptionsCache(rdb, cfg.FilterCacheTTL),
		movie.NewRules(vocabulary),
		movie.Options{PageSize: cfg.MoviesPerPage, MaxButtons: cfg.MaxPaginationButtons},
	)
	actorService := actor.NewService(actorRepository, images,
		cast.NewFilmography(movieRepository),
		actor.NewRules(),
		actor.Options{PageSize: cfg.MoviesPerPage, MaxButtons: cfg.MaxPaginationButtons, Locker: locker},
	)
	castService := cast.NewService(movieRepository, actorRepository, actorService, images, locker)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Movie:     movie.NewHandler(movieService, castService),
		Cast:      cast.NewHandler(castService),
		Actor:     actor.NewHandler(actorService, castService),
	}

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	server := api.NewServer(rootCtx, cfg, log, handlers)

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
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", "cinemateca"))
}

// openImageStore selects the poster and portrait backend.
func openImageStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.ImageStore, error) {
	switch cfg.StorageDriver {
	case config.StorageDisk:
		return storage.NewDisk(cfg.UploadsDir)
	case config.StorageS3:
		return storage.NewS3(ctx, storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Prefix:    "images/",
		}, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// newLocker picks the actor lock. Several API instances need the Redis lock.
func newLocker(cfg *config.Config, rdb *goredis.Client) lock.Locker {
	if cfg.LockDriver == config.LockLocal {
		return lock.NewLocal()
	}
	return redisstore.NewLocker(rdb, cfg.ActorLockTTL)
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
