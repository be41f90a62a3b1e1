package sqlbridge

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/tarmac-project/rowset/driver"
)

var (
	// ErrNotPrepared is returned when Execute is called without Prepare.
	ErrNotPrepared = errors.New("statement has not been prepared")

	// ErrNoCursor is returned when a result-set call is made without an
	// open result set.
	ErrNoCursor = errors.New("no open result set")
)

// Connector implements driver.Connector on top of database/sql.
type Connector struct {
	driverName string
}

var _ driver.Connector = (*Connector)(nil)

// New creates a Connector for a registered database/sql driver name.
func New(driverName string) *Connector {
	return &Connector{driverName: driverName}
}

// Connect opens and pings a database handle for the given DSN.
func (c *Connector) Connect(connString string) (driver.Conn, error) {
	db, err := sql.Open(c.driverName, connString)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &conn{db: db}, nil
}

type conn struct {
	db *sql.DB
}

func (c *conn) NewStmt() (driver.Stmt, error) {
	return &stmt{db: c.db}, nil
}

func (c *conn) Close() error {
	return c.db.Close()
}

type stmt struct {
	db       *sql.DB
	prepared *sql.Stmt
	params   []any
	rows     *sql.Rows
	descs    []driver.ColumnDescriptor
}

func (s *stmt) Prepare(query string) error {
	st, err := s.db.Prepare(query)
	if err != nil {
		return err
	}
	s.prepared = st
	return nil
}

func (s *stmt) Bind(index int, value any) error {
	for len(s.params) < index {
		s.params = append(s.params, nil)
	}
	s.params[index-1] = value
	return nil
}

func (s *stmt) ResetParams() error {
	s.params = nil
	return nil
}

func (s *stmt) ExecDirect(query string) (driver.ResultKind, error) {
	rows, err := s.db.Query(query, s.params...)
	if err != nil {
		return driver.NoData, err
	}
	return s.begin(rows)
}

func (s *stmt) Execute() (driver.ResultKind, error) {
	if s.prepared == nil {
		return driver.NoData, ErrNotPrepared
	}
	rows, err := s.prepared.Query(s.params...)
	if err != nil {
		return driver.NoData, err
	}
	return s.begin(rows)
}

// begin inspects the result set shape. database/sql reports DDL/DML issued
// through Query as rows with zero columns, which maps to the no-data state.
func (s *stmt) begin(rows *sql.Rows) (driver.ResultKind, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		_ = rows.Close()
		return driver.NoData, err
	}

	if len(colTypes) == 0 {
		// Drain so the statement completes before the handle is reused.
		err := rows.Close()
		return driver.NoData, err
	}

	s.descs = make([]driver.ColumnDescriptor, len(colTypes))
	for i, ct := range colTypes {
		s.descs[i] = describe(ct)
	}
	s.rows = rows
	return driver.HasData, nil
}

func (s *stmt) NumResultCols() (int, error) {
	if s.rows == nil {
		return 0, ErrNoCursor
	}
	return len(s.descs), nil
}

func (s *stmt) DescribeCol(index int) (driver.ColumnDescriptor, error) {
	if s.rows == nil {
		return driver.ColumnDescriptor{}, ErrNoCursor
	}
	if index < 1 || index > len(s.descs) {
		return driver.ColumnDescriptor{}, ErrNoCursor
	}
	return s.descs[index-1], nil
}

func (s *stmt) Fetch() (driver.Cursor, error) {
	if s.rows == nil {
		return nil, ErrNoCursor
	}

	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	values := make([]any, len(s.descs))
	ptrs := make([]any, len(values))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := s.rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	return &cursor{values: values}, nil
}

func (s *stmt) CloseCursor() error {
	if s.rows == nil {
		return nil
	}
	err := s.rows.Close()
	s.rows = nil
	return err
}

func (s *stmt) Close() error {
	closeErr := s.CloseCursor()
	if s.prepared != nil {
		if err := s.prepared.Close(); err != nil && closeErr == nil {
			closeErr = err
		}
		s.prepared = nil
	}
	return closeErr
}

// describe maps a database/sql column type to a descriptor. Unknown type
// names fall back to VARCHAR so the decoder treats the column as text.
func describe(ct *sql.ColumnType) driver.ColumnDescriptor {
	desc := driver.ColumnDescriptor{
		Name: ct.Name(),
		Type: typeCodeFor(ct.DatabaseTypeName()),
	}

	if length, ok := ct.Length(); ok {
		desc.Size = int(length)
	}
	if _, scale, ok := ct.DecimalSize(); ok {
		desc.DecimalDigits = int16(scale)
	}
	if nullable, ok := ct.Nullable(); ok {
		if nullable {
			desc.Nullable = driver.Nullable
		} else {
			desc.Nullable = driver.NoNulls
		}
	}
	return desc
}

func typeCodeFor(name string) driver.TypeCode {
	base := strings.ToUpper(strings.TrimSpace(name))
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}

	switch base {
	case "TINYINT":
		return driver.TypeTinyInt
	case "SMALLINT", "INT2":
		return driver.TypeSmallInt
	case "INT", "INTEGER", "MEDIUMINT", "INT4", "SERIAL":
		return driver.TypeInteger
	case "BIGINT", "INT8", "BIGSERIAL":
		return driver.TypeBigInt
	case "FLOAT", "REAL", "FLOAT4":
		return driver.TypeReal
	case "DOUBLE", "DOUBLE PRECISION", "FLOAT8", "NUMERIC", "DECIMAL":
		return driver.TypeDouble
	case "CHAR", "CHARACTER", "BPCHAR":
		return driver.TypeChar
	case "VARCHAR", "CHARACTER VARYING", "TEXT", "CLOB", "JSON", "UUID":
		return driver.TypeVarChar
	case "TINYTEXT", "MEDIUMTEXT", "LONGTEXT", "LONGVARCHAR":
		return driver.TypeLongVarChar
	case "NCHAR":
		return driver.TypeWChar
	case "NVARCHAR":
		return driver.TypeWVarChar
	case "NTEXT":
		return driver.TypeWLongVarChar
	case "DATE":
		return driver.TypeDate
	case "TIME":
		return driver.TypeTime
	case "DATETIME", "TIMESTAMP", "TIMESTAMPTZ":
		return driver.TypeTimestamp
	case "BIT", "BOOL", "BOOLEAN":
		return driver.TypeBit
	default:
		return driver.TypeVarChar
	}
}
