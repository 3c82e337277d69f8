package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nekogravitycat/padel-booking-backend/internal/app"
	"github.com/nekogravitycat/padel-booking-backend/internal/config"
	"github.com/nekogravitycat/padel-booking-backend/internal/db"
	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/cache"
	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/logger"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; the production flag is unknown.
		logger.Must(false).Fatal("failed to load config", zap.Error(err))
	}

	log := logger.Must(cfg.IsProduction)
	defer func() { _ = log.Sync() }()

	if !cfg.EnvFileLoaded {
		log.Info("no .env file found, using environment only")
	}

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN, db.PoolOptions{ConnectRetry: cfg.DBConnectRetries})
	if err != nil {
		log.Fatal("failed to connect to db", zap.Error(err))
	}
	defer pool.Close()

	// Connect Redis when configured
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.NewRedis(ctx, cache.RedisConfig{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			MaxRetries: 3,
		})
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		log.Info("idempotency keys enabled", zap.String("redis_addr", cfg.RedisAddr))
	}

	container := app.NewContainer(app.Config{
		IsProduction:         cfg.IsProduction,
		ProdOrigins:          cfg.ProdOrigins,
		DBPool:               pool,
		Logger:               log,
		JWTSecret:            cfg.JWTSecret,
		JWTTTL:               cfg.JWTAccessTokenTTL,
		BcryptCost:           cfg.BcryptCost,
		CommitTimeout:        cfg.CommitTimeout,
		LockTimeout:          cfg.LockTimeout,
		WeekendSurchargeName: cfg.WeekendSurchargeName,
		Redis:                rdb,
		IdempotencyTTL:       cfg.IdempotencyTTL,
	})

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		log.Info("server running", zap.String("addr", cfg.HTTPAddr), zap.Bool("production", cfg.IsProduction))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited gracefully")
}
