package output

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnsupportedFormat is returned by New for unknown format names.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Table is a query result with ordered columns.
type Table struct {
	Columns []string
	Rows    [][]interface{}

	// Truncated reports that the query produced more rows than Rows holds.
	Truncated bool
}

// Records returns the rows as maps keyed by column name.
func (t *Table) Records() []map[string]interface{} {
	records := make([]map[string]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]interface{}, len(t.Columns))
		for j, col := range t.Columns {
			if j < len(row) {
				rec[col] = row[j]
			}
		}
		records[i] = rec
	}
	return records
}

// Formatter defines the interface for output formatters.
type Formatter interface {
	// Format writes t in the formatter's specific format
	Format(t *Table) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// New returns the formatter for a format name: table, json, jsonl or csv.
func New(format string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "table":
		return NewTableFormatter(w), nil
	case "json", "jsonl":
		return NewJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: table, json, jsonl, csv)", ErrUnsupportedFormat, format)
	}
}
