package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arcanehq/realmgate/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

const connectTimeout = 10 * time.Second

// DB wraps the pgx connection pool shared by the repositories.
type DB struct {
	Pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewConnection(cfg *config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database pool ready",
		slog.String("host", cfg.Host),
		slog.Int("max_conns", int(cfg.MaxConns)),
	)

	return &DB{Pool: pool, logger: logger}, nil
}

func (db *DB) Close() {
	db.logger.Info("closing database pool")
	db.Pool.Close()
}

// HealthCheck pings the pool with a short deadline so a stalled
// database cannot hang the health endpoint.
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	return nil
}
