// Package store persists standardized projection rows to Postgres.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridironlab/nflprojections/internal/config"
	"github.com/gridironlab/nflprojections/internal/pipeline"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// Open creates and validates a new connection pool.
func Open(ctx context.Context, cfg *config.Config) (*Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// EnsureSchema creates the projections table when it does not exist yet.
// One row per (source, season, week, player); non-canonical columns land in
// the jsonb stats field.
func (p *Pool) EnsureSchema(ctx context.Context) error {
	_, err := p.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+config.ProjectionsTable+` (
			source     TEXT NOT NULL,
			season     INT NOT NULL,
			week       INT NOT NULL,
			plyr       TEXT NOT NULL,
			pos        TEXT,
			team       TEXT,
			proj       DOUBLE PRECISION,
			stats      JSONB NOT NULL DEFAULT '{}',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (source, season, week, plyr)
		)`)
	if err != nil {
		return fmt.Errorf("create %s table: %w", config.ProjectionsTable, err)
	}

	_, err = p.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS `+config.ProjectionsTable+`_season_week_idx
		ON `+config.ProjectionsTable+` (season, week)`)
	if err != nil {
		return fmt.Errorf("create season/week index: %w", err)
	}
	return nil
}

// Count reports how many rows the table holds for a source and query.
func (p *Pool) Count(ctx context.Context, source string, q pipeline.Query) (int, error) {
	var n int
	err := p.QueryRow(ctx, "projections_count", source, q.Season, q.Week).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count projections: %w", err)
	}
	return n, nil
}

// registerPreparedStatements registers the statements the storage layer uses
// on every call. Prepared statements eliminate parse overhead per request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Storage: post-upsert reporting
		"projections_count": "SELECT COUNT(*) FROM " + config.ProjectionsTable +
			" WHERE source = $1 AND season = $2 AND week = $3",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
