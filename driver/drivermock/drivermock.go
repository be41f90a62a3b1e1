package drivermock

import (
	"errors"
	"fmt"
	"unicode/utf16"

	"github.com/tarmac-project/rowset/driver"
)

var (
	// ErrOperationFailed is returned by a failing stage when no custom error
	// is configured.
	ErrOperationFailed = errors.New("operation failed")

	// ErrNotExecuted is returned when a result-set call is made before the
	// statement was executed.
	ErrNotExecuted = errors.New("statement has not been executed")

	// ErrNotPrepared is returned when Execute is called without Prepare.
	ErrNotPrepared = errors.New("statement has not been prepared")

	// ErrNoCursor is returned when fetching without an open result set.
	ErrNoCursor = errors.New("no open result set")

	// ErrColumnOrder is returned when a column is read out of ascending
	// order. The scripted cursor enforces the same single-pass read
	// discipline as a real get-data handle.
	ErrColumnOrder = errors.New("column read out of order")

	// ErrStmtClosed is returned on any use of a closed statement handle.
	ErrStmtClosed = errors.New("statement handle is closed")
)

// BoundParam records one Bind call.
type BoundParam struct {
	Index int
	Value any
}

// Config represents the configuration for creating a Mock instance.
type Config struct {
	// Columns are the descriptors reported for the result set.
	Columns []driver.ColumnDescriptor

	// Rows is the scripted row data, one cell per column. A nil cell is
	// reported as SQL NULL.
	Rows [][]any

	// NoData makes every execution report an empty result state instead of
	// a cursor.
	NoData bool

	// Error is the error returned by failing stages. Defaults to
	// ErrOperationFailed.
	Error error

	// Failure toggles, one per lifecycle stage. FailDescribe covers both
	// the column-count and the per-column describe calls.
	FailConnect     bool
	FailPrepare     bool
	FailBind        bool
	FailExec        bool
	FailDescribe    bool
	FailResetParams bool
	FailFetch       bool
	FailGetData     bool
}

// Mock is a scripted driver. It implements driver.Connector and records the
// calls made through the handles it hands out.
type Mock struct {
	cfg Config

	// ConnStrings records every Connect call.
	ConnStrings []string

	// Queries records every ExecDirect query and every Execute of a
	// prepared query.
	Queries []string

	// Prepared records every Prepare call.
	Prepared []string

	// Bound records every Bind call in order.
	Bound []BoundParam

	// ResetParamsCalls counts ResetParams invocations.
	ResetParamsCalls int

	// CloseCursorCalls counts CloseCursor invocations.
	CloseCursorCalls int

	// StmtCloseCalls counts statement Close invocations.
	StmtCloseCalls int

	// ConnCloseCalls counts connection Close invocations.
	ConnCloseCalls int
}

var _ driver.Connector = (*Mock)(nil)

// New creates a new Mock based on the provided Config.
func New(config Config) (*Mock, error) {
	if config.Error == nil {
		config.Error = ErrOperationFailed
	}
	return &Mock{cfg: config}, nil
}

// Connect hands out a scripted connection.
func (m *Mock) Connect(connString string) (driver.Conn, error) {
	if m.cfg.FailConnect {
		return nil, m.cfg.Error
	}
	m.ConnStrings = append(m.ConnStrings, connString)
	return &conn{mock: m}, nil
}

type conn struct {
	mock   *Mock
	closed bool
}

func (c *conn) NewStmt() (driver.Stmt, error) {
	if c.closed {
		return nil, ErrStmtClosed
	}
	return &stmt{mock: c.mock}, nil
}

func (c *conn) Close() error {
	c.closed = true
	c.mock.ConnCloseCalls++
	return nil
}

type stmt struct {
	mock     *Mock
	query    string
	prepared bool
	cursor   bool
	fetchIdx int
	closed   bool
}

func (s *stmt) Prepare(query string) error {
	if s.closed {
		return ErrStmtClosed
	}
	if s.mock.cfg.FailPrepare {
		return s.mock.cfg.Error
	}
	s.query = query
	s.prepared = true
	s.mock.Prepared = append(s.mock.Prepared, query)
	return nil
}

func (s *stmt) Bind(index int, value any) error {
	if s.closed {
		return ErrStmtClosed
	}
	if s.mock.cfg.FailBind {
		return s.mock.cfg.Error
	}
	s.mock.Bound = append(s.mock.Bound, BoundParam{Index: index, Value: value})
	return nil
}

func (s *stmt) ResetParams() error {
	if s.closed {
		return ErrStmtClosed
	}
	if s.mock.cfg.FailResetParams {
		return s.mock.cfg.Error
	}
	s.mock.ResetParamsCalls++
	return nil
}

func (s *stmt) ExecDirect(query string) (driver.ResultKind, error) {
	if s.closed {
		return driver.NoData, ErrStmtClosed
	}
	if s.mock.cfg.FailExec {
		return driver.NoData, s.mock.cfg.Error
	}
	s.query = query
	s.mock.Queries = append(s.mock.Queries, query)
	return s.execute()
}

func (s *stmt) Execute() (driver.ResultKind, error) {
	if s.closed {
		return driver.NoData, ErrStmtClosed
	}
	if !s.prepared {
		return driver.NoData, ErrNotPrepared
	}
	if s.mock.cfg.FailExec {
		return driver.NoData, s.mock.cfg.Error
	}
	s.mock.Queries = append(s.mock.Queries, s.query)
	return s.execute()
}

func (s *stmt) execute() (driver.ResultKind, error) {
	s.fetchIdx = 0
	if s.mock.cfg.NoData {
		return driver.NoData, nil
	}
	s.cursor = true
	return driver.HasData, nil
}

func (s *stmt) NumResultCols() (int, error) {
	if !s.cursor {
		return 0, ErrNotExecuted
	}
	if s.mock.cfg.FailDescribe {
		return 0, s.mock.cfg.Error
	}
	return len(s.mock.cfg.Columns), nil
}

func (s *stmt) DescribeCol(index int) (driver.ColumnDescriptor, error) {
	if !s.cursor {
		return driver.ColumnDescriptor{}, ErrNotExecuted
	}
	if s.mock.cfg.FailDescribe {
		return driver.ColumnDescriptor{}, s.mock.cfg.Error
	}
	if index < 1 || index > len(s.mock.cfg.Columns) {
		return driver.ColumnDescriptor{}, fmt.Errorf("column index %d out of range", index)
	}
	return s.mock.cfg.Columns[index-1], nil
}

func (s *stmt) Fetch() (driver.Cursor, error) {
	if s.closed {
		return nil, ErrStmtClosed
	}
	if !s.cursor {
		return nil, ErrNoCursor
	}
	if s.mock.cfg.FailFetch {
		return nil, s.mock.cfg.Error
	}
	if s.fetchIdx >= len(s.mock.cfg.Rows) {
		return nil, nil
	}

	row := s.mock.cfg.Rows[s.fetchIdx]
	s.fetchIdx++
	return &cursor{mock: s.mock, row: row}, nil
}

func (s *stmt) CloseCursor() error {
	s.cursor = false
	s.mock.CloseCursorCalls++
	return nil
}

func (s *stmt) Close() error {
	s.closed = true
	s.cursor = false
	s.mock.StmtCloseCalls++
	return nil
}

// cursor reads one scripted row, enforcing ascending single-pass access.
type cursor struct {
	mock    *Mock
	row     []any
	lastCol int
}

func (c *cursor) cell(col int) (any, bool, error) {
	if c.mock.cfg.FailGetData {
		return nil, false, c.mock.cfg.Error
	}
	if col <= c.lastCol {
		return nil, false, fmt.Errorf("%w: column %d after column %d", ErrColumnOrder, col, c.lastCol)
	}
	if col < 1 || col > len(c.row) {
		return nil, false, fmt.Errorf("column index %d out of range", col)
	}
	c.lastCol = col

	value := c.row[col-1]
	if value == nil {
		return nil, false, nil
	}
	return value, true, nil
}

func (c *cursor) GetInt64(col int) (int64, bool, error) {
	value, ok, err := c.cell(col)
	if err != nil || !ok {
		return 0, ok, err
	}
	switch v := value.(type) {
	case int:
		return int64(v), true, nil
	case int8:
		return int64(v), true, nil
	case int16:
		return int64(v), true, nil
	case int32:
		return int64(v), true, nil
	case int64:
		return v, true, nil
	default:
		return 0, false, fmt.Errorf("column %d holds %T, not an integer", col, value)
	}
}

func (c *cursor) GetFloat64(col int) (float64, bool, error) {
	value, ok, err := c.cell(col)
	if err != nil || !ok {
		return 0, ok, err
	}
	switch v := value.(type) {
	case float32:
		return float64(v), true, nil
	case float64:
		return v, true, nil
	default:
		return 0, false, fmt.Errorf("column %d holds %T, not a float", col, value)
	}
}

func (c *cursor) GetString(col int) (string, bool, error) {
	value, ok, err := c.cell(col)
	if err != nil || !ok {
		return "", ok, err
	}
	switch v := value.(type) {
	case string:
		return v, true, nil
	case []uint16:
		return string(utf16.Decode(v)), true, nil
	default:
		return "", false, fmt.Errorf("column %d holds %T, not a string", col, value)
	}
}

func (c *cursor) GetWide(col int) ([]uint16, bool, error) {
	value, ok, err := c.cell(col)
	if err != nil || !ok {
		return nil, ok, err
	}
	switch v := value.(type) {
	case []uint16:
		return v, true, nil
	case string:
		return utf16.Encode([]rune(v)), true, nil
	default:
		return nil, false, fmt.Errorf("column %d holds %T, not a wide string", col, value)
	}
}

func (c *cursor) GetByte(col int) (byte, bool, error) {
	value, ok, err := c.cell(col)
	if err != nil || !ok {
		return 0, ok, err
	}
	switch v := value.(type) {
	case byte:
		return v, true, nil
	case bool:
		if v {
			return 1, true, nil
		}
		return 0, true, nil
	case int:
		return byte(v), true, nil
	default:
		return 0, false, fmt.Errorf("column %d holds %T, not a byte", col, value)
	}
}

func (c *cursor) GetTimestamp(col int) (driver.Timestamp, bool, error) {
	value, ok, err := c.cell(col)
	if err != nil || !ok {
		return driver.Timestamp{}, ok, err
	}
	ts, isTS := value.(driver.Timestamp)
	if !isTS {
		return driver.Timestamp{}, false, fmt.Errorf("column %d holds %T, not a timestamp", col, value)
	}
	return ts, true, nil
}

func (c *cursor) GetDate(col int) (driver.Date, bool, error) {
	value, ok, err := c.cell(col)
	if err != nil || !ok {
		return driver.Date{}, ok, err
	}
	d, isDate := value.(driver.Date)
	if !isDate {
		return driver.Date{}, false, fmt.Errorf("column %d holds %T, not a date", col, value)
	}
	return d, true, nil
}

func (c *cursor) GetTime(col int) (driver.Time, bool, error) {
	value, ok, err := c.cell(col)
	if err != nil || !ok {
		return driver.Time{}, ok, err
	}
	t, isTime := value.(driver.Time)
	if !isTime {
		return driver.Time{}, false, fmt.Errorf("column %d holds %T, not a time", col, value)
	}
	return t, true, nil
}

func (c *cursor) GetTime2(col int) (driver.Time2, bool, error) {
	value, ok, err := c.cell(col)
	if err != nil || !ok {
		return driver.Time2{}, ok, err
	}
	t, isTime := value.(driver.Time2)
	if !isTime {
		return driver.Time2{}, false, fmt.Errorf("column %d holds %T, not a time2", col, value)
	}
	return t, true, nil
}
