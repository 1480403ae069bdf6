package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The startup ping gets its own deadline so a misconfigured DATABASE_URL
// fails fast instead of hanging the serve and migrate commands.
const pingTimeout = 5 * time.Second

func clampConns(maxConns, minConns int32) (int32, int32) {
	if maxConns <= 0 {
		maxConns = 20
	}
	if minConns <= 0 || minConns > maxConns {
		minConns = 1
	}
	return maxConns, minConns
}

// NewPool opens a pgx connection pool and verifies connectivity before
// returning it. Non-positive conn bounds fall back to a small pool that
// suits a single API instance.
func NewPool(ctx context.Context, databaseURL string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns, cfg.MinConns = clampConns(maxConns, minConns)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
