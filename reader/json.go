package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
)

// ReadJSONFile reads an event log stored either as JSON Lines (one object
// per line) or as a single top-level array of objects. Blank lines are
// skipped. Integral numbers decode to int64, other numbers to float64.
func ReadJSONFile(path string) ([]map[string]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := DecodeJSON(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return rows, nil
}

// DecodeJSON decodes JSON Lines or a JSON array of objects from r.
func DecodeJSON(r io.Reader) ([]map[string]interface{}, error) {
	br := bufio.NewReader(r)

	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []map[string]interface{}{}, nil
		}
		return nil, err
	}

	dec := json.NewDecoder(br)
	dec.UseNumber()

	if first == '[' {
		var raw []map[string]interface{}
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid JSON array: %w", err)
		}
		for _, row := range raw {
			normalizeRow(row)
		}
		return raw, nil
	}

	rows := make([]map[string]interface{}, 0)
	for record := 1; ; record++ {
		var row map[string]interface{}
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid JSON record %d: %w", record, err)
		}
		if row == nil {
			return nil, fmt.Errorf("invalid JSON record %d: expected an object", record)
		}
		normalizeRow(row)
		rows = append(rows, row)
	}
	return rows, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

func normalizeRow(row map[string]interface{}) {
	for k, v := range row {
		row[k] = normalizeValue(v)
	}
}

// normalizeValue replaces json.Number with int64 or float64, recursing into
// nested objects and arrays.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		s := val.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := val.Int64(); err == nil {
				return i
			}
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return s
	case map[string]interface{}:
		normalizeRow(val)
		return val
	case []interface{}:
		for i := range val {
			val[i] = normalizeValue(val[i])
		}
		return val
	default:
		return v
	}
}
