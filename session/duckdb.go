package session

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"net/url"

	"github.com/duckdb/duckdb-go/v2"

	"github.com/vegasq/logwrangle/reader"
)

type duckdbBackend struct{}

func (duckdbBackend) name() string { return "duckdb" }

func (duckdbBackend) open(opts options) (*sql.DB, error) {
	params := url.Values{}
	if opts.threads > 0 {
		params.Set("threads", fmt.Sprint(opts.threads))
	}
	if opts.maxMemory != "" {
		params.Set("max_memory", opts.maxMemory)
	}
	connStr := opts.dsn
	if len(params) > 0 {
		connStr += "?" + params.Encode()
	}

	db, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	return db, nil
}

// scalarUDF exposes a Function through the duckdb scalar function API.
type scalarUDF struct {
	fn     Function
	config duckdb.ScalarFuncConfig
}

func (u *scalarUDF) Config() duckdb.ScalarFuncConfig {
	return u.config
}

func (u *scalarUDF) Executor() duckdb.ScalarFuncExecutor {
	return duckdb.ScalarFuncExecutor{
		RowExecutor: func(values []driver.Value) (any, error) {
			args := make([]interface{}, len(values))
			for i, v := range values {
				args[i] = v
			}
			return u.fn.invoke(args)
		},
	}
}

func (duckdbBackend) registerFunction(_ context.Context, conn *sql.Conn, fn Function) error {
	inputs := make([]duckdb.TypeInfo, len(fn.Args))
	for i, arg := range fn.Args {
		info, err := duckdbTypeInfo(arg)
		if err != nil {
			return fmt.Errorf("argument %d of %s: %w", i, fn.Name, err)
		}
		inputs[i] = info
	}
	result, err := duckdbTypeInfo(fn.Result)
	if err != nil {
		return fmt.Errorf("result of %s: %w", fn.Name, err)
	}

	udf := &scalarUDF{
		fn: fn,
		config: duckdb.ScalarFuncConfig{
			InputTypeInfos:      inputs,
			ResultTypeInfo:      result,
			Volatile:            !fn.Deterministic,
			SpecialNullHandling: fn.NullSafe,
		},
	}
	return duckdb.RegisterScalarUDF(conn, fn.Name, udf)
}

func duckdbTypeInfo(dt DataType) (duckdb.TypeInfo, error) {
	var t duckdb.Type
	switch dt.(type) {
	case StringType:
		t = duckdb.TYPE_VARCHAR
	case IntegerType:
		t = duckdb.TYPE_INTEGER
	case LongType:
		t = duckdb.TYPE_BIGINT
	case DoubleType:
		t = duckdb.TYPE_DOUBLE
	case BooleanType:
		t = duckdb.TYPE_BOOLEAN
	case TimestampType:
		t = duckdb.TYPE_TIMESTAMP
	default:
		return nil, fmt.Errorf("unsupported function type %s", dt.TypeName())
	}
	return duckdb.NewTypeInfo(t)
}

// load materializes the file with duckdb's own readers; glob patterns get a
// _file column holding the source path.
func (duckdbBackend) load(ctx context.Context, conn *sql.Conn, table, path string, format reader.Format) error {
	var fn string
	switch format {
	case reader.FormatJSON:
		fn = "read_json_auto"
	case reader.FormatParquet:
		fn = "read_parquet"
	default:
		return fmt.Errorf("%w: %q", reader.ErrUnsupportedFormat, format)
	}

	source := fmt.Sprintf("SELECT * FROM %s(%s)", fn, quoteLiteral(path))
	if reader.IsGlob(path) {
		source = fmt.Sprintf("SELECT * EXCLUDE (filename), filename AS _file FROM %s(%s, filename = true)",
			fn, quoteLiteral(path))
	}

	stmt := fmt.Sprintf("CREATE OR REPLACE TEMP TABLE %s AS %s", quoteIdent(table), source)
	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (duckdbBackend) replaceView(name, query string) []string {
	return []string{fmt.Sprintf("CREATE OR REPLACE TEMP VIEW %s AS %s", quoteIdent(name), query)}
}
