package rowset

import "errors"

var (
	// ErrConnectivity indicates that establishing the environment or
	// connection failed.
	ErrConnectivity = errors.New("database connectivity failed")

	// ErrStatement means preparing, binding, or executing a statement
	// failed. The wrapped chain carries the lifecycle stage label.
	ErrStatement = errors.New("driver call failed")

	// ErrDataAccess means reading a value from an open cursor failed.
	ErrDataAccess = errors.New("failed to access result data")

	// ErrInvalidUTF16 signals that a wide-character column buffer was not
	// valid UTF-16. It always appears wrapped inside ErrDataAccess.
	ErrInvalidUTF16 = errors.New("invalid UTF-16 column data")

	// ErrFromSchema means a Converter rejected the result set schema.
	ErrFromSchema = errors.New("failed to convert table schema to target type")

	// ErrFromRow means a Converter rejected a decoded row.
	ErrFromRow = errors.New("failed to convert table row to target type")

	// ErrNoConnector is returned when Connect is called without a driver
	// connector.
	ErrNoConnector = errors.New("driver connector cannot be nil")

	// ErrNotConnected is returned by a Factory whose connection attempt
	// failed.
	ErrNotConnected = errors.New("not connected to database")

	// ErrStatementBusy rejects reuse of a prepared statement while a result
	// set built from it is still open.
	ErrStatementBusy = errors.New("statement has an open result set")

	// ErrStatementClosed rejects operations on a closed statement handle.
	ErrStatementClosed = errors.New("statement is closed")

	// ErrClosed rejects operations on a closed connection.
	ErrClosed = errors.New("connection is closed")
)

// Lifecycle stage labels used when wrapping driver faults. Each driver-level
// failure is wrapped exactly at the point it occurs so callers can trace a
// fault to the stage that produced it.
const (
	stageConnecting    = "connecting to database"
	stagePairing       = "pairing statement with connection"
	stagePreparing     = "preparing query"
	stageBinding       = "binding parameter to statement"
	stageExecuting     = "executing statement"
	stageExecDirect    = "executing direct statement"
	stageResetParams   = "resetting bound parameters on statement"
	stageNumResultCols = "getting number of result columns"
	stageDescribeCols  = "getting column descriptors"
	stageFetching      = "fetching row"
	stageGetValue      = "getting value from cursor"
	stageClosingCursor = "closing cursor"
	stageClosingStmt   = "closing statement"
	stageClosingConn   = "closing connection"
)
