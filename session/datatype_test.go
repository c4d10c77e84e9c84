package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataTypeFromDatabaseType(t *testing.T) {
	tests := []struct {
		name string
		want DataType
	}{
		{"VARCHAR", StringType{}},
		{"text", StringType{}},
		{"JSON", StringType{}},
		{"BIGINT", LongType{}},
		{"HUGEINT", LongType{}},
		{"INTEGER", IntegerType{}},
		{"DOUBLE", DoubleType{}},
		{"REAL", DoubleType{}},
		{"DECIMAL(18,3)", DoubleType{}},
		{"BOOLEAN", BooleanType{}},
		{"TIMESTAMP WITH TIME ZONE", TimestampType{}},
		{"", UnsupportedType{}},
		{"SMALLINT", IntegerType{}},
		{"UBIGINT", LongType{}},
		{"STRUCT(a INTEGER)", UnsupportedType{TypeInfo: "STRUCT(a INTEGER)"}},
		{"STRUCT(zip BIGINT)", UnsupportedType{TypeInfo: "STRUCT(zip BIGINT)"}},
		{"BIGINT[]", UnsupportedType{TypeInfo: "BIGINT[]"}},
		{"INTEGER[3]", UnsupportedType{TypeInfo: "INTEGER[3]"}},
		{"MAP(VARCHAR, INTEGER)", UnsupportedType{TypeInfo: "MAP(VARCHAR, INTEGER)"}},
		{"UNION(n INTEGER, s VARCHAR)", UnsupportedType{TypeInfo: "UNION(n INTEGER, s VARCHAR)"}},
		{"INTERVAL", UnsupportedType{TypeInfo: "INTERVAL"}},
		{"POINT", UnsupportedType{TypeInfo: "POINT"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dataTypeFromDatabaseType(tt.name))
		})
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "Long", LongType{}.TypeName())
	assert.Equal(t, "String", StringType{}.TypeName())
	assert.Equal(t, "Unsupported", UnsupportedType{}.TypeName())
}

func TestStructType_TreeString(t *testing.T) {
	schema := &StructType{Fields: []StructField{
		{Name: "page", DataType: StringType{}, Nullable: true},
		{Name: "ts", DataType: LongType{}, Nullable: false},
		{Name: "tags", DataType: UnsupportedType{TypeInfo: "VARCHAR[]"}, Nullable: true},
	}}

	want := "root\n" +
		" |-- page: string (nullable = true)\n" +
		" |-- ts: long (nullable = false)\n" +
		" |-- tags: varchar[] (nullable = true)\n"
	assert.Equal(t, want, schema.TreeString())
	assert.Equal(t, []string{"page", "ts", "tags"}, schema.FieldNames())
}
