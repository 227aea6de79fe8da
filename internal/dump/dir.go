package dump

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirSink writes one file per record: <id>-<unix ms>.txt holding the
// indented raw item.
type DirSink struct {
	dir string
}

func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("dump: mkdir %s: %w", dir, err)
	}
	return &DirSink{dir: dir}, nil
}

func (s *DirSink) Write(_ context.Context, r Record) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Raw, "", "  "); err != nil {
		buf.Reset()
		buf.Write(r.Raw)
	}
	buf.WriteByte('\n')
	name := fmt.Sprintf("%s-%d.txt", fileToken(r.ID), r.CreatedAt.UnixMilli())
	if err := os.WriteFile(filepath.Join(s.dir, name), buf.Bytes(), 0640); err != nil {
		return fmt.Errorf("dump: write %s: %w", name, err)
	}
	return nil
}

func (s *DirSink) Close() error { return nil }

// fileToken keeps ids usable as file names.
func fileToken(id string) string {
	if id == "" {
		return "item"
	}
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, id)
}
