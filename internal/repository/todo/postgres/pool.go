package postgres

import (
	"context"
	"fmt"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/config"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool parses the DSN, applies pool limits and pings before returning.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: parse database config", err)
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConnections
	poolCfg.MinConns = cfg.MinConnections
	poolCfg.MaxConnIdleTime = cfg.IdleTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("Repository: create pool", err)
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: ping failed", err)
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("Repository: connected to PostgreSQL")
	return pool, nil
}
