package session

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/vegasq/logwrangle/reader"
)

// DataFrameReader loads event log files into the session.
type DataFrameReader struct {
	session *Session
	format  reader.Format
}

// Format forces a file format ("json", "jsonl", "parquet" or "auto")
// instead of detecting it from the extension.
func (r *DataFrameReader) Format(name string) (*DataFrameReader, error) {
	f, err := reader.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return &DataFrameReader{session: r.session, format: f}, nil
}

// JSON loads a JSON Lines file, a JSON array file, or a glob of them.
func (r *DataFrameReader) JSON(ctx context.Context, path string) (*DataFrame, error) {
	return r.load(ctx, path, reader.FormatJSON)
}

// Parquet loads a Parquet file or a glob of them.
func (r *DataFrameReader) Parquet(ctx context.Context, path string) (*DataFrame, error) {
	return r.load(ctx, path, reader.FormatParquet)
}

// Load reads path in the reader's format, detecting it from the extension
// when none was set.
func (r *DataFrameReader) Load(ctx context.Context, path string) (*DataFrame, error) {
	return r.load(ctx, path, r.format)
}

func (r *DataFrameReader) load(ctx context.Context, path string, format reader.Format) (*DataFrame, error) {
	s := r.session
	format, err := reader.Resolve(path, format)
	if err != nil {
		return nil, err
	}

	if reader.IsGlob(path) {
		if _, err := reader.Glob(path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	table := "__relation_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil, ErrSessionStopped
	}
	err = s.backend.load(ctx, s.conn, table, path, format)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("path", path).Str("format", string(format)).Str("relation", table).Msg("Data read")
	return &DataFrame{session: s, query: "SELECT * FROM " + quoteIdent(table)}, nil
}
