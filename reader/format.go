package reader

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Format identifies an event log file encoding.
type Format string

const (
	// FormatAuto picks the format from the file extension.
	FormatAuto    Format = "auto"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// ErrUnsupportedFormat is returned for unknown format names and extensions.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// maxFiles bounds glob expansion to prevent resource exhaustion.
const maxFiles = 1000

// ParseFormat converts a format name; the empty string means FormatAuto.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, "jsonl", "ndjson":
		return FormatJSON, nil
	case FormatParquet:
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// DetectFormat returns the format implied by the extension of path.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl", ".ndjson":
		return FormatJSON, nil
	case ".parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("%w: cannot infer format of %s", ErrUnsupportedFormat, path)
	}
}

// Resolve returns format unless it is FormatAuto, in which case the format
// is detected from path.
func Resolve(path string, format Format) (Format, error) {
	if format == "" || format == FormatAuto {
		return DetectFormat(path)
	}
	return format, nil
}

// IsGlob reports whether pattern contains glob wildcards.
func IsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[]{}")
}

// ReadFile reads a single file in the given format.
func ReadFile(path string, format Format) ([]map[string]interface{}, error) {
	format, err := Resolve(path, format)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return ReadJSONFile(path)
	case FormatParquet:
		return readParquetFile(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ReadMultipleFiles reads every file matching pattern.
//
// A pattern without wildcards reads one file and leaves rows untouched. A
// glob pattern reads the matches concurrently, keeps them in lexical order
// and tags each row with a "_file" column holding its source path. Returns
// an error if nothing matches or any file fails to read.
func ReadMultipleFiles(pattern string, format Format) ([]map[string]interface{}, error) {
	if !IsGlob(pattern) {
		return ReadFile(pattern, format)
	}

	matches, err := Glob(pattern)
	if err != nil {
		return nil, err
	}

	results := make([][]map[string]interface{}, len(matches))
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i, path := range matches {
		g.Go(func() error {
			rows, err := ReadFile(path, format)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			for _, row := range rows {
				row["_file"] = path
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var allRows []map[string]interface{}
	for _, rows := range results {
		allRows = append(allRows, rows...)
	}
	return allRows, nil
}

// Glob expands pattern, failing when nothing or too much matches.
func Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	if len(matches) > maxFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxFiles)
	}
	return matches, nil
}
