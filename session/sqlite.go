package session

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mattn/go-sqlite3"

	"github.com/vegasq/logwrangle/reader"
)

type sqliteBackend struct{}

func (sqliteBackend) name() string { return "sqlite" }

func (sqliteBackend) open(opts options) (*sql.DB, error) {
	dsn := opts.dsn
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// every :memory: connection is its own database
	db.SetMaxOpenConns(1)
	return db, nil
}

func (sqliteBackend) registerFunction(_ context.Context, conn *sql.Conn, fn Function) error {
	impl := func(args ...interface{}) (interface{}, error) {
		return fn.invoke(args)
	}
	return conn.Raw(func(driverConn interface{}) error {
		c, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		return c.RegisterFunc(fn.Name, impl, fn.Deterministic)
	})
}

// load decodes the file in Go and copies the rows into a temp table in a
// single transaction.
func (sqliteBackend) load(ctx context.Context, conn *sql.Conn, table, path string, format reader.Format) error {
	rel, err := reader.Load(path, format)
	if err != nil {
		return err
	}
	if len(rel.Columns) == 0 {
		return fmt.Errorf("failed to load %s: no columns", path)
	}

	defs := make([]string, len(rel.Columns))
	marks := make([]string, len(rel.Columns))
	for i, col := range rel.Columns {
		defs[i] = quoteIdent(col.Name) + " " + sqliteColumnType(col.Type)
		marks[i] = "?"
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin load transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS temp."+quoteIdent(table)); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table, err)
	}
	create := fmt.Sprintf("CREATE TEMP TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create %s: %w", table, err)
	}

	insert, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(table), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer insert.Close()

	args := make([]interface{}, len(rel.Columns))
	for n, row := range rel.Rows {
		for i, col := range rel.Columns {
			v, err := sqliteValue(row[col.Name], col.Type)
			if err != nil {
				return fmt.Errorf("row %d column %s: %w", n, col.Name, err)
			}
			args[i] = v
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", n, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit load of %s: %w", path, err)
	}
	return nil
}

// sqliteColumnType picks declared types whose affinity matches the column
// and which map back to the same DataType.
func sqliteColumnType(t reader.ColumnType) string {
	switch t {
	case reader.TypeBigInt, reader.TypeDouble, reader.TypeBoolean:
		return string(t)
	default:
		return "TEXT"
	}
}

func sqliteValue(v interface{}, t reader.ColumnType) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case reader.TypeJSON:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case reader.TypeVarchar:
		switch val := v.(type) {
		case string:
			return val, nil
		case []byte:
			return string(val), nil
		case map[string]interface{}, []interface{}:
			b, err := json.Marshal(val)
			if err != nil {
				return nil, err
			}
			return string(b), nil
		default:
			return fmt.Sprint(val), nil
		}
	default:
		return v, nil
	}
}

func (sqliteBackend) replaceView(name, query string) []string {
	return []string{
		"DROP VIEW IF EXISTS temp." + quoteIdent(name),
		fmt.Sprintf("CREATE TEMP VIEW %s AS %s", quoteIdent(name), query),
	}
}
