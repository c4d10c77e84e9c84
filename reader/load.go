package reader

import "fmt"

// Relation is a fully decoded event log: ordered columns plus rows.
type Relation struct {
	Columns []Column
	Rows    []map[string]interface{}
}

// Load reads pattern (a path or glob) and derives its columns. Parquet
// columns follow the file schema of the first match; JSON columns are
// inferred from the values. Glob loads gain a trailing "_file" column.
func Load(pattern string, format Format) (*Relation, error) {
	first := pattern
	if IsGlob(pattern) {
		matches, err := Glob(pattern)
		if err != nil {
			return nil, err
		}
		first = matches[0]
	}

	resolved, err := Resolve(first, format)
	if err != nil {
		return nil, err
	}

	rows, err := ReadMultipleFiles(pattern, resolved)
	if err != nil {
		return nil, err
	}

	var cols []Column
	switch resolved {
	case FormatParquet:
		infos, err := ExtractSchemaInfo(first)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema of %s: %w", first, err)
		}
		cols = ColumnsFromSchemaInfo(infos)
		if IsGlob(pattern) {
			cols = append(cols, Column{Name: "_file", Type: TypeVarchar})
		}
	default:
		cols = InferColumns(rows)
	}

	return &Relation{Columns: cols, Rows: rows}, nil
}
