// Package dump stores raw result items the classifier could not map, so
// new renderer shapes can be triaged and added.
package dump

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is one captured item.
type Record struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Renderer  string          `json:"renderer"`
	Reason    string          `json:"reason"`
	Query     string          `json:"query,omitempty"`
	Raw       json.RawMessage `json:"raw"`
}

// NewRecord stamps a capture with a random id and the current time.
func NewRecord(renderer, reason, query string, raw json.RawMessage) Record {
	return Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Renderer:  renderer,
		Reason:    reason,
		Query:     query,
		Raw:       raw,
	}
}

// Sink persists records. Implementations are safe for concurrent use.
type Sink interface {
	Write(ctx context.Context, r Record) error
	Close() error
}

// Open picks a sink by DSN scheme: sqlite://path, postgres:// or
// postgresql:// URLs, and anything else as a directory path.
func Open(ctx context.Context, dsn string) (Sink, error) {
	var (
		sink Sink
		err  error
	)
	switch {
	case dsn == "":
		return nil, fmt.Errorf("dump: empty DSN")
	case strings.HasPrefix(dsn, "sqlite://"):
		sink, err = OpenSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"))
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		sink, err = OpenPostgres(ctx, dsn)
	default:
		sink, err = NewDirSink(dsn)
	}
	if err != nil {
		return nil, err
	}
	return sink, nil
}
