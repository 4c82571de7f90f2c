package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-pos/internal/config"
	"restaurant-pos/internal/logger"
)

// DB wraps the PostgreSQL connection pool.
type DB struct {
	Pool *pgxpool.Pool
	log  *logger.Logger
}

// Connect opens a pool and pings it, retrying a few times so the service
// survives the database coming up after it.
func Connect(ctx context.Context, cfg *config.Config, log *logger.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxConns)

	const (
		maxRetries = 5
		retryDelay = 2 * time.Second
		pingTTL    = 5 * time.Second
	)

	var pool *pgxpool.Pool
	for i := 1; i <= maxRetries; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			pctx, cancel := context.WithTimeout(ctx, pingTTL)
			err = pool.Ping(pctx)
			cancel()
			if err == nil {
				return &DB{Pool: pool, log: log}, nil
			}
			pool.Close()
		}

		log.Error("db_connection_failed", err, map[string]any{"attempt": i})
		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("db connect canceled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxRetries, err)
}

func (db *DB) Close() {
	if db != nil && db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping is the health-check probe.
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}
