package output

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

// DefaultTruncate is the cell width used by show-style output.
const DefaultTruncate = 20

// TableFormatter renders results as a bordered grid, the way an engine shell
// shows a DataFrame.
type TableFormatter struct {
	writer   io.Writer
	truncate int
}

// NewTableFormatter creates a table formatter truncating cells to
// DefaultTruncate characters.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w, truncate: DefaultTruncate}
}

// SetOutput sets the output writer
func (f *TableFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// SetTruncate sets the maximum cell width; 0 disables truncation.
func (f *TableFormatter) SetTruncate(n int) {
	f.truncate = n
}

// Format renders t followed by a note when rows were cut off.
func (f *TableFormatter) Format(t *Table) error {
	tw := tablewriter.NewWriter(f.writer)
	tw.SetHeader(t.Columns)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	tw.SetHeaderAlignment(tablewriter.ALIGN_RIGHT)

	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i := range cells {
			var v interface{}
			if i < len(row) {
				v = row[i]
			}
			cells[i] = truncateCell(formatCell(v), f.truncate)
		}
		tw.Append(cells)
	}
	tw.Render()

	if t.Truncated {
		suffix := "s"
		if len(t.Rows) == 1 {
			suffix = ""
		}
		if _, err := fmt.Fprintf(f.writer, "only showing top %d row%s\n", len(t.Rows), suffix); err != nil {
			return err
		}
	}
	return nil
}

// formatCell renders NULL as "null" and integral doubles with one decimal.
func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		if val == math.Trunc(val) && !math.IsInf(val, 0) && math.Abs(val) < 1e15 {
			return strconv.FormatFloat(val, 'f', 1, 64)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return formatCell(float64(val))
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", val)
	}
}

func truncateCell(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n < 4 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
