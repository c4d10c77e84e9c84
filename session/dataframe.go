package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vegasq/logwrangle/output"
)

// DataFrame is a lazily evaluated query. Nothing runs until an action
// (Show, Collect, Count, Schema) is called.
type DataFrame struct {
	session *Session
	query   string
	args    []interface{}
}

// SQL returns the query text behind the DataFrame.
func (df *DataFrame) SQL() string {
	return df.query
}

// Show prints the first numRows rows through the session's formatter. With
// truncate set, table cells longer than 20 characters are cut.
func (df *DataFrame) Show(ctx context.Context, numRows int, truncate bool) error {
	if numRows < 0 {
		numRows = 0
	}
	t, err := df.Take(ctx, numRows)
	if err != nil {
		return err
	}

	out := df.session.out
	if tf, ok := out.(interface{ SetTruncate(int) }); ok {
		if truncate {
			tf.SetTruncate(output.DefaultTruncate)
		} else {
			tf.SetTruncate(0)
		}
	}
	return out.Format(t)
}

// Take returns up to n rows. Table.Truncated reports whether more exist.
func (df *DataFrame) Take(ctx context.Context, n int) (*output.Table, error) {
	_, t, err := df.fetch(ctx, n)
	return t, err
}

// Collect returns all rows.
func (df *DataFrame) Collect(ctx context.Context) ([]Row, error) {
	schema, t, err := df.fetch(ctx, -1)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(t.Rows))
	for i, values := range t.Rows {
		rows[i] = Row{schema: schema, values: values}
	}
	return rows, nil
}

// Count returns the number of rows the query produces.
func (df *DataFrame) Count(ctx context.Context) (int64, error) {
	s := df.session
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return 0, ErrSessionStopped
	}

	var n int64
	q := fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS counted", df.query)
	if err := s.conn.QueryRowContext(ctx, q, df.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return n, nil
}

// Schema returns the column names and types without reading any rows.
func (df *DataFrame) Schema(ctx context.Context) (*StructType, error) {
	s := df.session
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil, ErrSessionStopped
	}

	q := fmt.Sprintf("SELECT * FROM (%s) AS described LIMIT 0", df.query)
	rows, err := s.conn.QueryContext(ctx, q, df.args...)
	if err != nil {
		return nil, fmt.Errorf("schema failed: %w", err)
	}
	defer rows.Close()
	return schemaOf(rows)
}

// CreateOrReplaceTempView registers the query under name for the lifetime of
// the session.
func (df *DataFrame) CreateOrReplaceTempView(ctx context.Context, name string) error {
	if err := validateIdentifier(name); err != nil {
		return err
	}
	if len(df.args) > 0 {
		return ErrParameterizedView
	}

	s := df.session
	if err := s.exec(ctx, s.backend.replaceView(name, df.query)...); err != nil {
		if errors.Is(err, ErrSessionStopped) {
			return err
		}
		return fmt.Errorf("failed to create view %s: %w", name, err)
	}
	s.log.Debug().Str("view", name).Msg("View created")
	return nil
}

// fetch runs the query and reads at most limit rows, or all rows when limit
// is negative. The query is not rewritten so its own ordering holds; one
// extra row is read to detect truncation.
func (df *DataFrame) fetch(ctx context.Context, limit int) (*StructType, *output.Table, error) {
	s := df.session
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil, nil, ErrSessionStopped
	}

	rows, err := s.conn.QueryContext(ctx, df.query, df.args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	schema, err := schemaOf(rows)
	if err != nil {
		return nil, nil, err
	}

	t := &output.Table{Columns: schema.FieldNames()}
	for rows.Next() {
		if limit >= 0 && len(t.Rows) == limit {
			t.Truncated = true
			break
		}
		values := make([]interface{}, len(t.Columns))
		ptrs := make([]interface{}, len(values))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			values[i] = normalizeValue(v)
		}
		t.Rows = append(t.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return schema, t, nil
}

func schemaOf(rows *sql.Rows) (*StructType, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}
	fields := make([]StructField, len(types))
	for i, ct := range types {
		nullable, ok := ct.Nullable()
		if !ok {
			nullable = true
		}
		fields[i] = StructField{
			Name:     ct.Name(),
			DataType: dataTypeFromDatabaseType(ct.DatabaseTypeName()),
			Nullable: nullable,
		}
	}
	return &StructType{Fields: fields}, nil
}

// Row is one result row. Values are in schema order.
type Row struct {
	schema *StructType
	values []interface{}
}

// Values returns the row's values in column order.
func (r Row) Values() []interface{} {
	return r.values
}

// Get returns the value of the named column.
func (r Row) Get(name string) (interface{}, bool) {
	if r.schema == nil {
		return nil, false
	}
	for i, f := range r.schema.Fields {
		if f.Name == name && i < len(r.values) {
			return r.values[i], true
		}
	}
	return nil, false
}

// Schema returns the schema of the DataFrame the row came from.
func (r Row) Schema() *StructType {
	return r.schema
}
