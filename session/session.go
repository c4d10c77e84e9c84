package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vegasq/logwrangle/internal/logging"
	"github.com/vegasq/logwrangle/output"
)

// Builder configures a Session. The zero value is usable; every setter
// returns a modified copy.
type Builder struct {
	appName   string
	engine    string
	dsn       string
	threads   int
	maxMemory string
	out       output.Formatter
	logger    *zerolog.Logger
}

// NewBuilder returns a Builder for the default engine.
func NewBuilder() Builder {
	return Builder{appName: "logwrangle", engine: DefaultEngine}
}

// AppName sets the name logged with every session event.
func (b Builder) AppName(name string) Builder {
	b.appName = name
	return b
}

// Engine selects the backend by name, see Engines.
func (b Builder) Engine(name string) Builder {
	b.engine = name
	return b
}

// DSN sets the engine data source. Empty means an in-memory database.
func (b Builder) DSN(dsn string) Builder {
	b.dsn = dsn
	return b
}

// Threads limits engine worker threads; 0 keeps the engine default.
func (b Builder) Threads(n int) Builder {
	b.threads = n
	return b
}

// MaxMemory sets the engine memory limit, e.g. "1GB".
func (b Builder) MaxMemory(limit string) Builder {
	b.maxMemory = limit
	return b
}

// Output sets the formatter used by DataFrame.Show.
func (b Builder) Output(f output.Formatter) Builder {
	b.out = f
	return b
}

// Logger replaces the component logger; session events carry the session id
// and engine name on top of it.
func (b Builder) Logger(l zerolog.Logger) Builder {
	b.logger = &l
	return b
}

// Build opens the engine and pins one connection for the session's lifetime.
func (b Builder) Build(ctx context.Context) (*Session, error) {
	be, err := newBackend(b.engine)
	if err != nil {
		return nil, err
	}

	db, err := be.open(options{dsn: b.dsn, threads: b.threads, maxMemory: b.maxMemory})
	if err != nil {
		return nil, err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", be.name(), err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", be.name(), err)
	}

	id := uuid.New().String()
	var log zerolog.Logger
	if b.logger != nil {
		log = *b.logger
	} else {
		log = logging.WithComponent("session")
	}
	log = log.With().Str("session_id", id).Str("engine", be.name()).Logger()

	out := b.out
	if out == nil {
		out = output.NewTableFormatter(os.Stdout)
	}

	s := &Session{
		id:        id,
		appName:   b.appName,
		backend:   be,
		db:        db,
		conn:      conn,
		out:       out,
		log:       log,
		functions: make(map[string]Function),
	}
	log.Info().Str("app", b.appName).Msg("Session created")
	return s, nil
}

// Session is a connection to an embedded engine holding loaded relations,
// temp views and registered functions.
type Session struct {
	id      string
	appName string
	backend backend
	db      *sql.DB
	conn    *sql.Conn
	out     output.Formatter
	log     zerolog.Logger

	mu        sync.Mutex
	stopped   bool
	functions map[string]Function
}

// ID returns the random UUID assigned when the session was built.
func (s *Session) ID() string { return s.id }

// AppName returns the name set on the Builder.
func (s *Session) AppName() string { return s.appName }

// Engine returns the backend name.
func (s *Session) Engine() string { return s.backend.name() }

// Output returns the formatter used by Show.
func (s *Session) Output() output.Formatter { return s.out }

// Read returns a reader that loads files into the session.
func (s *Session) Read() *DataFrameReader {
	return &DataFrameReader{session: s, format: ""}
}

// SQL returns a DataFrame for query. The query is prepared immediately so
// syntax errors and unknown relations surface here rather than at the
// first action.
func (s *Session) SQL(ctx context.Context, query string, args ...interface{}) (*DataFrame, error) {
	query = strings.TrimRight(strings.TrimSpace(query), ";")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil, ErrSessionStopped
	}

	stmt, err := s.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	_ = stmt.Close()

	return &DataFrame{session: s, query: query, args: args}, nil
}

// RegisterFunction makes fn callable from SQL on this session.
func (s *Session) RegisterFunction(ctx context.Context, fn Function) error {
	if err := fn.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrSessionStopped
	}
	if _, ok := s.functions[fn.Name]; ok {
		return fmt.Errorf("%w: %s", ErrFunctionExists, fn.Name)
	}

	if err := s.backend.registerFunction(ctx, s.conn, fn); err != nil {
		return fmt.Errorf("failed to register function %s: %w", fn.Name, err)
	}
	s.functions[fn.Name] = fn
	s.log.Debug().Str("function", fn.Name).Msg("Function registered")
	return nil
}

// HasFunction reports whether name was registered on this session.
func (s *Session) HasFunction(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.functions[name]
	return ok
}

// Stop closes the pinned connection and the database. Calling Stop again
// is a no-op.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true

	var errs []error
	if err := s.conn.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	}
	if len(errs) > 0 {
		s.log.Error().Errs("errors", errs).Msg("Session stopped with errors")
		return errors.Join(errs...)
	}
	s.log.Info().Msg("Session stopped")
	return nil
}

// Stopped reports whether Stop was called.
func (s *Session) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// exec runs statements on the pinned connection.
func (s *Session) exec(ctx context.Context, stmts ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrSessionStopped
	}
	for _, stmt := range stmts {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
