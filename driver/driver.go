package driver

// Connector is the driver-manager entry point. Implementations are expected
// to treat the connection string as opaque and pass it through to the
// underlying connectivity layer.
type Connector interface {
	// Connect establishes a connection for the given connection string.
	Connect(connString string) (Conn, error)
}

// Conn is an open database connection owning statement handles. A Conn and
// the handles derived from it must stay on the goroutine that created them.
type Conn interface {
	// NewStmt allocates a fresh statement handle on this connection.
	NewStmt() (Stmt, error)

	// Close releases the connection and any driver resources behind it.
	Close() error
}

// Stmt is a statement handle. The handle moves through the usual lifecycle:
// optional Prepare, zero or more Bind calls, ExecDirect or Execute, then
// describe/fetch while the result set is open, CloseCursor, and finally
// Close. Illegal transitions (fetching without an open result set, executing
// a closed handle) must be rejected with an error rather than left undefined.
type Stmt interface {
	// Prepare compiles the query on the driver for repeated execution.
	Prepare(query string) error

	// Bind attaches a positional parameter. Index is 1-based.
	Bind(index int, value any) error

	// ResetParams releases all bound parameters. Called by the iterator as
	// soon as execution has started, since the driver no longer needs them.
	ResetParams() error

	// ExecDirect executes a one-shot query without preparing it first.
	ExecDirect(query string) (ResultKind, error)

	// Execute runs the previously prepared query.
	Execute() (ResultKind, error)

	// NumResultCols reports the number of result columns of an open result
	// set.
	NumResultCols() (int, error)

	// DescribeCol describes one result column. Index is 1-based.
	DescribeCol(index int) (ColumnDescriptor, error)

	// Fetch advances to the next row and returns a cursor positioned at it.
	// A nil cursor with a nil error means the result set is exhausted.
	Fetch() (Cursor, error)

	// CloseCursor closes the open result set, making the handle reusable.
	CloseCursor() error

	// Close releases the statement handle.
	Close() error
}

// Cursor reads column values from the fetched row. Columns are 1-based and
// must be read in ascending order, each at most once. The second return
// value is false when the column is SQL NULL.
type Cursor interface {
	GetInt64(col int) (int64, bool, error)
	GetFloat64(col int) (float64, bool, error)
	GetString(col int) (string, bool, error)
	GetWide(col int) ([]uint16, bool, error)
	GetByte(col int) (byte, bool, error)
	GetTimestamp(col int) (Timestamp, bool, error)
	GetDate(col int) (Date, bool, error)
	GetTime(col int) (Time, bool, error)
	GetTime2(col int) (Time2, bool, error)
}
