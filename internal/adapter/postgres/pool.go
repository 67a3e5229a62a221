package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aerotrack/partledger/internal/config"
)

const applicationName = "partledger"

// NewPool opens a pgx pool from cfg and pings it so a bad DSN fails at
// startup. Sessions run in UTC; business dates are computed in Go.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	poolCfg.MaxConns, poolCfg.MinConns = cfg.MaxConns, cfg.MinConns
	poolCfg.MaxConnLifetime, poolCfg.MaxConnIdleTime = cfg.MaxConnLifetime, cfg.MaxConnIdleTime

	params := poolCfg.ConnConfig.RuntimeParams
	if params["application_name"] == "" {
		params["application_name"] = applicationName
	}
	params["timezone"] = "UTC"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database %s: %w", poolCfg.ConnConfig.Host, err)
	}
	return pool, nil
}
