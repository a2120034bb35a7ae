package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/cache"
	"github.com/monocle-dev/taskboard/internal/config"
	"github.com/monocle-dev/taskboard/internal/handlers"
	"github.com/monocle-dev/taskboard/internal/router"
	"github.com/monocle-dev/taskboard/internal/scheduler"
	"github.com/monocle-dev/taskboard/internal/services"
	"github.com/monocle-dev/taskboard/internal/types"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func main() {
	logger := log.New()
	logger.SetFormatter(&log.JSONFormatter{})

	if err := godotenv.Load(); err != nil {
		logger.Info(".env file not found, using environment")
	}

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatalf("Error loading config: %v", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("invalid LOG_LEVEL %q, defaulting to info", cfg.LogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	if level < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := auth.InitJWTSecret(cfg.JWTSecret); err != nil {
		logger.Fatalf("Failed to initialize JWT: %v", err)
	}

	if err := db.ConnectDatabase(cfg.DBDriver, cfg.DatabaseURL); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.MigrateDatabase(db.DB); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable, board views will be served from the database")
		}
		cancel()
	}

	views := cache.NewBoardViews(rdb, cfg.BoardCacheTTL.Duration, logger)
	boards := services.NewBoardService(db.DB, views, logger)
	users := services.NewUserService(db.DB)

	jobs := scheduler.NewScheduler(logger)
	jobs.AddJob("position-audit", cfg.AuditInterval.Duration, boards.AuditPositions)

	h := handlers.New(db.DB, boards, users, logger)
	h.Domain = cfg.Domain

	r := router.NewRouter(h, users, types.AllowedOrigins(cfg.ClientURL, cfg.AllowedOrigins), logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	jobs.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown failed")
	}
}
