package dump

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `CREATE TABLE IF NOT EXISTS yt_unknown_items (
	id         UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	renderer   TEXT NOT NULL,
	reason     TEXT NOT NULL,
	query      TEXT,
	raw        JSONB NOT NULL
)`

// PostgresSink keeps records in a shared PostgreSQL table.
type PostgresSink struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresSink, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("dump: parse postgres DSN: %w", err)
	}
	config.MaxConns = 4
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("dump: create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("dump: ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("dump: init schema: %w", err)
	}
	slog.Info("dump: postgres connected", slog.String("host", config.ConnConfig.Host))
	return &PostgresSink{pool: pool}, nil
}

func (s *PostgresSink) Write(ctx context.Context, r Record) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO yt_unknown_items (id, created_at, renderer, reason, query, raw) VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.CreatedAt, r.Renderer, r.Reason, r.Query, string(r.Raw))
	if err != nil {
		return fmt.Errorf("dump: insert: %w", err)
	}
	return nil
}

// Count returns how many records are stored.
func (s *PostgresSink) Count(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM yt_unknown_items`).Scan(&n)
	return n, err
}

func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
