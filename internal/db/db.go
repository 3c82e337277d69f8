package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions tunes NewPool. The zero value connects once with pgx defaults.
type PoolOptions struct {
	MaxConns      int32
	ConnectRetry  int
	RetryInterval time.Duration
}

// NewPool creates a new pgx connection pool using the provided DSN.
// It pings the database to ensure the connection is valid, retrying
// opts.ConnectRetry extra times before giving up.
func NewPool(ctx context.Context, dsn string, opts PoolOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	interval := opts.RetryInterval
	if interval == 0 {
		interval = 2 * time.Second
	}

	var lastErr error
	for attempt := 0; attempt <= opts.ConnectRetry; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(interval):
			}
		}

		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			lastErr = fmt.Errorf("failed to create database pool: %w", err)
			continue
		}

		// Use a short-lived context for the initial ping.
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = pool.Ping(pingCtx)
		cancel()
		if err != nil {
			pool.Close()
			lastErr = fmt.Errorf("failed to ping database: %w", err)
			continue
		}

		return pool, nil
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", opts.ConnectRetry+1, lastErr)
}
