package reader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// Reader reads one Parquet event log file.
type Reader struct {
	f  *os.File
	pf *parquet.File
}

// NewReader opens path and checks that it holds valid Parquet metadata.
//
//	r, err := reader.NewReader("events.parquet")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	info, err := f.Stat()
	if err == nil {
		var pf *parquet.File
		if pf, err = parquet.OpenFile(f, info.Size()); err == nil {
			return &Reader{f: f, pf: pf}, nil
		}
		err = fmt.Errorf("failed to open parquet file %s: %w", path, err)
	}
	_ = f.Close()
	return nil, err
}

// ReadAll reads every row into memory. Keys are column names and values use
// the same Go types as decoded JSON: int64, float64, string, bool.
func (r *Reader) ReadAll() ([]map[string]interface{}, error) {
	rows := make([]map[string]interface{}, 0, r.pf.NumRows())

	pr := parquet.NewReader(r.pf)
	defer func() { _ = pr.Close() }()

	for n := 0; ; n++ {
		row := make(map[string]interface{})
		if err := pr.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row %d: %w", n, err)
		}
		for k, v := range row {
			row[k] = normalizeParquetValue(v)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// NumRows returns the row count from the file metadata.
func (r *Reader) NumRows() int64 {
	return r.pf.NumRows()
}

func normalizeParquetValue(v interface{}) interface{} {
	switch val := v.(type) {
	case int32:
		return int64(val)
	case uint32:
		return int64(val)
	case float32:
		return float64(val)
	case []byte:
		return string(val)
	case map[string]interface{}:
		for k, nested := range val {
			val[k] = normalizeParquetValue(nested)
		}
		return val
	case []interface{}:
		for i, nested := range val {
			val[i] = normalizeParquetValue(nested)
		}
		return val
	default:
		return v
	}
}

// Schema returns the parquet file schema.
func (r *Reader) Schema() *parquet.Schema {
	return r.pf.Schema()
}

// Close releases the file handle. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

func readParquetFile(path string) ([]map[string]interface{}, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	rows, readErr := r.ReadAll()
	closeErr := r.Close()
	if readErr != nil {
		return nil, readErr
	}
	if closeErr != nil {
		return nil, fmt.Errorf("failed to close %s: %w", path, closeErr)
	}
	return rows, nil
}
