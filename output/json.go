package output

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// JSONFormatter writes JSON Lines. Keys within an object are sorted, so the
// same result always encodes to the same bytes regardless of engine.
type JSONFormatter struct {
	w io.Writer
}

// NewJSONFormatter returns a JSON Lines formatter writing to w.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{w: w}
}

// SetOutput redirects subsequent output to w.
func (f *JSONFormatter) SetOutput(w io.Writer) {
	f.w = w
}

// Format writes one object per row.
func (f *JSONFormatter) Format(t *Table) error {
	enc := json.NewEncoder(f.w)
	for n, rec := range t.Records() {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode row %d: %w", n, err)
		}
	}
	return nil
}
