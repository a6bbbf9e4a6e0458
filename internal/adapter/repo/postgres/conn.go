package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates a pgx connection pool from the provided DSN.
// Queries are traced via otelpgx.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.ConnConfig.Tracer = otelpgx.NewTracer()
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// Migrate creates the tables this service needs. It is idempotent and runs
// at startup; schema evolution beyond additive DDL is handled out of band.
func Migrate(ctx context.Context, pool PgxPool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS resumes (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			filename TEXT NOT NULL,
			mime TEXT NOT NULL,
			size BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			resume_id TEXT NOT NULL,
			original_file_name TEXT NOT NULL,
			ts TIMESTAMPTZ NOT NULL,
			match_score INT NOT NULL,
			shortlist_probability DOUBLE PRECISION NOT NULL,
			skill_match_score DOUBLE PRECISION NOT NULL,
			present_skills JSONB NOT NULL,
			missing_skills JSONB NOT NULL,
			extra_skills JSONB NOT NULL,
			strengths JSONB NOT NULL,
			risk_flags JSONB NOT NULL,
			summary TEXT NOT NULL,
			recommendation TEXT NOT NULL,
			word_count INT NOT NULL,
			detected_format TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS analyses_ts_idx ON analyses (ts DESC)`,
	}
	for _, q := range stmts {
		if _, err := pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("op=postgres.migrate: %w", err)
		}
	}
	return nil
}
