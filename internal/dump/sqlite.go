package dump

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteSink keeps records in a local SQLite file.
type SQLiteSink struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("dump: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("dump: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS unknown_items (
		id         TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		renderer   TEXT NOT NULL,
		reason     TEXT NOT NULL,
		query      TEXT,
		raw        TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("dump: init schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

func (s *SQLiteSink) Write(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO unknown_items (id, created_at, renderer, reason, query, raw) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt.Format(time.RFC3339Nano), r.Renderer, r.Reason, r.Query, string(r.Raw))
	if err != nil {
		return fmt.Errorf("dump: insert: %w", err)
	}
	return nil
}

// Count returns how many records are stored.
func (s *SQLiteSink) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM unknown_items`).Scan(&n)
	return n, err
}

func (s *SQLiteSink) Close() error { return s.db.Close() }
