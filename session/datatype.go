package session

import (
	"fmt"
	"reflect"
	"strings"
)

// DataType is the engine-neutral type of a column or function argument.
type DataType interface {
	TypeName() string
}

// StringType is variable-length text.
type StringType struct{}

func (t StringType) TypeName() string {
	return getDataTypeName(t)
}

// IntegerType is a 32-bit signed integer.
type IntegerType struct{}

func (t IntegerType) TypeName() string {
	return getDataTypeName(t)
}

// LongType is a 64-bit signed integer.
type LongType struct{}

func (t LongType) TypeName() string {
	return getDataTypeName(t)
}

// DoubleType is a 64-bit float. Decimals map here too.
type DoubleType struct{}

func (t DoubleType) TypeName() string {
	return getDataTypeName(t)
}

// BooleanType is true or false.
type BooleanType struct{}

func (t BooleanType) TypeName() string {
	return getDataTypeName(t)
}

// TimestampType covers dates and timestamps, with or without a zone.
type TimestampType struct{}

func (t TimestampType) TypeName() string {
	return getDataTypeName(t)
}

// UnsupportedType carries an engine type name with no neutral equivalent.
type UnsupportedType struct {
	TypeInfo any
}

func (t UnsupportedType) TypeName() string {
	return getDataTypeName(t)
}

func getDataTypeName(dataType DataType) string {
	t := reflect.TypeOf(dataType)
	if t == nil {
		return "(nil)"
	}
	var name string
	if t.Kind() == reflect.Ptr {
		name = t.Elem().Name()
	} else {
		name = t.Name()
	}
	name = strings.TrimSuffix(name, "Type")
	return name
}

// simpleString is the lower-case name used in schema trees.
func simpleString(dt DataType) string {
	if u, ok := dt.(UnsupportedType); ok && u.TypeInfo != nil {
		return strings.ToLower(fmt.Sprint(u.TypeInfo))
	}
	return strings.ToLower(dt.TypeName())
}

// dataTypeFromDatabaseType maps a driver-reported type name. Nested and
// interval types have no neutral equivalent and keep their engine name.
func dataTypeFromDatabaseType(name string) DataType {
	upper := strings.ToUpper(strings.TrimSpace(name))
	switch {
	case upper == "":
		return UnsupportedType{}
	case isNestedType(upper), strings.HasPrefix(upper, "INTERVAL"):
		return UnsupportedType{TypeInfo: name}
	}

	switch upper {
	case "INTEGER", "INT", "INT4", "INT2", "INT1", "SMALLINT", "TINYINT",
		"MEDIUMINT", "USMALLINT", "UTINYINT", "SIGNED":
		return IntegerType{}
	case "BIGINT", "INT8", "LONG", "HUGEINT", "UBIGINT", "UHUGEINT", "UINTEGER":
		return LongType{}
	case "STRING", "JSON", "UUID":
		return StringType{}
	case "NUMERIC":
		return DoubleType{}
	case "DATETIME", "DATE":
		return TimestampType{}
	}

	switch {
	case strings.Contains(upper, "CHAR"), strings.Contains(upper, "TEXT"), strings.Contains(upper, "CLOB"):
		return StringType{}
	case strings.HasPrefix(upper, "DOUBLE"), strings.HasPrefix(upper, "REAL"),
		strings.HasPrefix(upper, "FLOAT"), strings.HasPrefix(upper, "DECIMAL"), strings.HasPrefix(upper, "NUMERIC"):
		return DoubleType{}
	case strings.HasPrefix(upper, "BOOL"):
		return BooleanType{}
	case strings.HasPrefix(upper, "TIMESTAMP"):
		return TimestampType{}
	default:
		return UnsupportedType{TypeInfo: name}
	}
}

// isNestedType reports list, array, struct, map and union type names.
func isNestedType(upper string) bool {
	if strings.HasSuffix(upper, "]") {
		return true
	}
	for _, prefix := range []string{"STRUCT", "MAP", "UNION", "LIST"} {
		if upper == prefix || strings.HasPrefix(upper, prefix+"(") || strings.HasPrefix(upper, prefix+"<") {
			return true
		}
	}
	return false
}

// StructField is one column of a StructType.
type StructField struct {
	Name     string
	DataType DataType
	Nullable bool
}

// StructType is the schema of a DataFrame.
type StructType struct {
	Fields []StructField
}

// FieldNames returns the column names in order.
func (s *StructType) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// TreeString renders the schema as an indented tree:
//
//	root
//	 |-- artist: string (nullable = true)
func (s *StructType) TreeString() string {
	var b strings.Builder
	b.WriteString("root\n")
	for _, f := range s.Fields {
		fmt.Fprintf(&b, " |-- %s: %s (nullable = %t)\n", f.Name, simpleString(f.DataType), f.Nullable)
	}
	return b.String()
}
