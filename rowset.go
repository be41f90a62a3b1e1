package rowset

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/tarmac-project/rowset/driver"
	"github.com/tarmac-project/rowset/sqlsplit"
)

// Config provides configuration options for opening a DB.
type Config struct {
	// Connector is the driver-manager entry point used to establish the
	// connection. Required.
	Connector driver.Connector

	// ConnString is passed through to the driver unchanged.
	ConnString string

	// UTF16Strings selects the wide-character decoding mode for
	// WCHAR/WVARCHAR/WLONGVARCHAR columns. When false (the default) wide
	// columns are fetched through the same narrow-string path as CHAR
	// columns; when true they are fetched as UTF-16 code unit buffers and
	// validated during conversion.
	UTF16Strings bool

	// Logger receives debug-level lifecycle events. Defaults to a discard
	// logger.
	Logger *slog.Logger
}

// DB is an open connection issuing statements through a handle-based driver.
//
// A DB and every Stmt and Rows derived from it are owned by a single
// goroutine; the underlying driver handles must not be shared across
// goroutines.
type DB struct {
	conn   driver.Conn
	utf16  bool
	logger *slog.Logger
	closed bool
}

// Stmt is a prepared statement handle, reusable across parameter bindings
// and executions. While a result set built from it is open the statement
// rejects further queries; closing the Rows returns ownership.
type Stmt struct {
	db    *DB
	stmt  driver.Stmt
	query string
	busy  bool
	done  bool
}

// stageErr wraps a driver fault with its error kind and lifecycle stage.
func stageErr(kind error, stage string, err error) error {
	return fmt.Errorf("%w while %s: %w", kind, stage, err)
}

// Connect establishes a connection using the configured driver connector.
func Connect(config Config) (*DB, error) {
	if config.Connector == nil {
		return nil, ErrNoConnector
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("connecting to database", "conn_string", config.ConnString)

	conn, err := config.Connector.Connect(config.ConnString)
	if err != nil {
		return nil, stageErr(ErrConnectivity, stageConnecting, err)
	}

	return &DB{
		conn:   conn,
		utf16:  config.UTF16Strings,
		logger: logger,
	}, nil
}

// Query executes a one-shot statement with optional positional parameters
// and returns the result set iterator. The returned Rows owns the statement
// handle; closing it finalizes the handle.
func (db *DB) Query(query string, params ...any) (*Rows, error) {
	if db.closed {
		return nil, ErrClosed
	}

	db.logger.Debug("direct query", "query", query)

	st, err := db.conn.NewStmt()
	if err != nil {
		return nil, stageErr(ErrStatement, stagePairing, err)
	}

	if err := bindParams(st, params); err != nil {
		_ = st.Close()
		return nil, err
	}

	kind, err := st.ExecDirect(query)
	if err != nil {
		_ = st.Close()
		return nil, stageErr(ErrStatement, stageExecDirect, err)
	}

	rows, err := newRows(st, kind, nil, db.utf16, db.logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return rows, nil
}

// Prepare compiles a statement on the driver for repeated execution.
func (db *DB) Prepare(query string) (*Stmt, error) {
	if db.closed {
		return nil, ErrClosed
	}

	db.logger.Debug("preparing query", "query", query)

	st, err := db.conn.NewStmt()
	if err != nil {
		return nil, stageErr(ErrStatement, stagePairing, err)
	}

	if err := st.Prepare(query); err != nil {
		_ = st.Close()
		return nil, stageErr(ErrStatement, stagePreparing, err)
	}

	return &Stmt{db: db, stmt: st, query: query}, nil
}

// QueryBatch splits a batch of semicolon-terminated statements and executes
// them in input order, yielding one result set per statement. Iteration
// stops at the first split fault. The caller closes each yielded Rows.
func (db *DB) QueryBatch(batch string) iter.Seq2[*Rows, error] {
	return func(yield func(*Rows, error) bool) {
		for stmt, err := range sqlsplit.Statements(batch) {
			if err != nil {
				yield(nil, fmt.Errorf("failed to execute multiple queries: %w", err))
				return
			}

			rows, qerr := db.Query(stmt)
			if !yield(rows, qerr) {
				return
			}
		}
	}
}

// Close releases the connection. Closing twice is safe.
func (db *DB) Close() error {
	if db.closed {
		return nil
	}
	db.closed = true

	if err := db.conn.Close(); err != nil {
		return stageErr(ErrConnectivity, stageClosingConn, err)
	}
	return nil
}

// Query executes the prepared statement with optional positional parameters.
// The statement stays busy until the returned Rows is closed.
func (s *Stmt) Query(params ...any) (*Rows, error) {
	if s.done {
		return nil, ErrStatementClosed
	}
	if s.busy {
		return nil, ErrStatementBusy
	}

	s.db.logger.Debug("executing prepared query", "query", s.query)

	if err := bindParams(s.stmt, params); err != nil {
		return nil, err
	}

	kind, err := s.stmt.Execute()
	if err != nil {
		return nil, stageErr(ErrStatement, stageExecuting, err)
	}

	rows, err := newRows(s.stmt, kind, s, s.db.utf16, s.db.logger)
	if err != nil {
		return nil, err
	}

	s.busy = true
	return rows, nil
}

// Close releases the prepared statement handle. Closing twice is safe.
func (s *Stmt) Close() error {
	if s.done {
		return nil
	}
	s.done = true

	if err := s.stmt.Close(); err != nil {
		return stageErr(ErrStatement, stageClosingStmt, err)
	}
	return nil
}

// bindParams attaches positional parameters in order. Parameter ordinals are
// 1-based at the driver.
func bindParams(st driver.Stmt, params []any) error {
	for i, p := range params {
		if err := st.Bind(i+1, p); err != nil {
			return stageErr(ErrStatement, stageBinding, err)
		}
	}
	return nil
}
