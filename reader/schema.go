package reader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ColumnType is the engine-neutral SQL type of a loaded column.
type ColumnType string

const (
	TypeBigInt  ColumnType = "BIGINT"
	TypeDouble  ColumnType = "DOUBLE"
	TypeBoolean ColumnType = "BOOLEAN"
	TypeVarchar ColumnType = "VARCHAR"
	// TypeJSON holds nested objects and arrays serialized as JSON text.
	TypeJSON ColumnType = "JSON"
)

// Column is one named, typed column of a Relation.
type Column struct {
	Name string
	Type ColumnType
}

// SchemaInfo represents metadata about a single column in a Parquet file.
type SchemaInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	PhysicalType string `json:"physical_type"`
	LogicalType  string `json:"logical_type"`
	Required     bool   `json:"required"`
	Optional     bool   `json:"optional"`
	Repeated     bool   `json:"repeated"`
}

// ExtractSchemaInfo extracts leaf column metadata from a Parquet file.
// Nested fields use dot notation (e.g., "location.city").
func ExtractSchemaInfo(path string) ([]SchemaInfo, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = r.Close() }()

	var infos []SchemaInfo
	for _, field := range r.Schema().Fields() {
		infos = append(infos, extractFieldInfo(field, "", false)...)
	}
	return infos, nil
}

// extractFieldInfo recurses into groups, propagating the repeated flag of
// any parent to its leaves.
func extractFieldInfo(field parquet.Field, prefix string, parentRepeated bool) []SchemaInfo {
	name := field.Name()
	if prefix != "" {
		name = prefix + "." + name
	}
	repeated := parentRepeated || field.Repeated()

	if children := field.Fields(); len(children) > 0 {
		var infos []SchemaInfo
		for _, child := range children {
			infos = append(infos, extractFieldInfo(child, name, repeated)...)
		}
		return infos
	}

	physical := physicalTypeName(field)
	logical := ""
	if field.Type() != nil {
		if lt := field.Type().LogicalType(); lt != nil {
			logical = lt.String()
		}
	}

	return []SchemaInfo{{
		Name:         name,
		Type:         friendlyTypeName(physical, logical),
		PhysicalType: physical,
		LogicalType:  logical,
		Required:     field.Required(),
		Optional:     field.Optional(),
		Repeated:     repeated,
	}}
}

func physicalTypeName(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}
	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// friendlyTypeName prefers the logical type when it is more specific than
// the physical one.
func friendlyTypeName(physical, logical string) string {
	switch {
	case logical == "STRING", logical == "UTF8":
		return "STRING"
	case logical == "ENUM", logical == "UUID", logical == "DATE", logical == "TIME",
		logical == "JSON", logical == "BSON", logical == "DECIMAL":
		return logical
	case strings.HasPrefix(logical, "TIMESTAMP"):
		return "TIMESTAMP"
	}
	switch physical {
	case "FLOAT":
		return "FLOAT32"
	case "DOUBLE":
		return "FLOAT64"
	default:
		return physical
	}
}

// columnTypeOf maps a Parquet leaf to the SQL type used when loading it.
func columnTypeOf(info SchemaInfo) ColumnType {
	if info.Repeated {
		return TypeJSON
	}
	switch info.Type {
	case "BOOLEAN":
		return TypeBoolean
	case "INT32", "INT64":
		return TypeBigInt
	case "FLOAT32", "FLOAT64", "DECIMAL":
		return TypeDouble
	case "JSON", "BSON":
		return TypeJSON
	default:
		return TypeVarchar
	}
}

// ColumnsFromSchemaInfo converts Parquet leaf metadata to top-level columns
// in schema order. Nested groups collapse into one JSON column.
func ColumnsFromSchemaInfo(infos []SchemaInfo) []Column {
	cols := make([]Column, 0, len(infos))
	index := make(map[string]int, len(infos))
	for _, info := range infos {
		top, _, nested := strings.Cut(info.Name, ".")
		typ := columnTypeOf(info)
		if nested {
			typ = TypeJSON
		}
		if i, ok := index[top]; ok {
			cols[i].Type = TypeJSON
			continue
		}
		index[top] = len(cols)
		cols = append(cols, Column{Name: top, Type: typ})
	}
	return cols
}

// InferColumns derives columns from decoded rows, sorted by name.
//
// Integers widen to DOUBLE when mixed with floats; any other mix of kinds
// becomes VARCHAR. Columns that are NULL everywhere are VARCHAR.
func InferColumns(rows []map[string]interface{}) []Column {
	types := make(map[string]ColumnType)
	for _, row := range rows {
		for name, v := range row {
			t, seen := valueType(v)
			cur, ok := types[name]
			switch {
			case !ok:
				if seen {
					types[name] = t
				} else {
					types[name] = ""
				}
			case seen:
				types[name] = widen(cur, t)
			}
		}
	}

	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([]Column, len(names))
	for i, name := range names {
		t := types[name]
		if t == "" {
			t = TypeVarchar
		}
		cols[i] = Column{Name: name, Type: t}
	}
	return cols
}

// valueType reports the column type of v; the bool is false for NULL.
func valueType(v interface{}) (ColumnType, bool) {
	switch v.(type) {
	case nil:
		return "", false
	case bool:
		return TypeBoolean, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeBigInt, true
	case float32, float64:
		return TypeDouble, true
	case string, []byte:
		return TypeVarchar, true
	default:
		return TypeJSON, true
	}
}

func widen(cur, next ColumnType) ColumnType {
	switch {
	case cur == "" || cur == next:
		return next
	case (cur == TypeBigInt && next == TypeDouble) || (cur == TypeDouble && next == TypeBigInt):
		return TypeDouble
	default:
		return TypeVarchar
	}
}
