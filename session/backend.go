package session

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/vegasq/logwrangle/reader"
)

// options carries the Builder settings a backend needs to open a database.
type options struct {
	dsn       string
	threads   int
	maxMemory string
}

// backend adapts one embedded engine to the session. All methods that take a
// *sql.Conn operate on the session's pinned connection, so temp tables,
// views and functions stay visible to later queries.
type backend interface {
	name() string
	open(opts options) (*sql.DB, error)
	registerFunction(ctx context.Context, conn *sql.Conn, fn Function) error
	load(ctx context.Context, conn *sql.Conn, table, path string, format reader.Format) error
	replaceView(name, query string) []string
}

var engines = map[string]func() backend{
	"duckdb": func() backend { return duckdbBackend{} },
	"sqlite": func() backend { return sqliteBackend{} },
}

// DefaultEngine is used when the Builder names no engine.
const DefaultEngine = "duckdb"

// Engines returns the names of the available engines.
func Engines() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newBackend(name string) (backend, error) {
	if name == "" {
		name = DefaultEngine
	}
	factory, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownEngine, name, Engines())
	}
	return factory(), nil
}
