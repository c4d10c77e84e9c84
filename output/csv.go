package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVFormatter writes a header line followed by one record per row.
// NULL cells are written as empty fields.
type CSVFormatter struct {
	w io.Writer
}

// NewCSVFormatter returns a CSV formatter writing to w.
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

// SetOutput redirects subsequent output to w.
func (f *CSVFormatter) SetOutput(w io.Writer) {
	f.w = w
}

// Format writes t in column order. Rows shorter than the header are padded.
func (f *CSVFormatter) Format(t *Table) error {
	cw := csv.NewWriter(f.w)

	if len(t.Columns) > 0 {
		if err := cw.Write(t.Columns); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}

	record := make([]string, len(t.Columns))
	for n, row := range t.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = csvField(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", n, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// csvField renders v the way the table formatter does, except NULL becomes an
// empty field and text that a spreadsheet would evaluate is quoted with a
// leading apostrophe.
func csvField(v interface{}) string {
	if v == nil {
		return ""
	}
	s := formatCell(v)
	if _, text := v.(string); !text {
		if _, raw := v.([]byte); !raw {
			return s
		}
	}
	if s != "" && strings.ContainsRune("=+-@\t\r\n|", rune(s[0])) {
		return "'" + strings.ReplaceAll(s, "'", "''")
	}
	return s
}
