package tarmachost

import (
	"errors"
	"fmt"
	"strings"

	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/sql"
	wapc "github.com/wapc/wapc-guest-tinygo"

	"github.com/tarmac-project/rowset/driver"
)

const (
	capabilityName = "sql"
	fnExec         = "exec"
	fnQuery        = "query"

	// DefaultNamespace is used when no explicit namespace is provided.
	DefaultNamespace = "tarmac"

	hostStatusOK       = int32(200)
	hostStatusPartial  = int32(206)
	hostStatusBadInput = int32(400)
	hostStatusMissing  = int32(404)
	hostStatusError    = int32(500)
)

var (
	// ErrHostCall indicates that a waPC host invocation failed.
	ErrHostCall = errors.New("host call failed")

	// ErrHostResponseInvalid signals that the host returned an invalid or
	// unexpected payload.
	ErrHostResponseInvalid = errors.New("host response is invalid or unexpected")

	// ErrHostError means the host completed the call but reported a failure
	// status.
	ErrHostError = errors.New("host returned an error status")

	// ErrParamsUnsupported is returned by Bind: the sql capability carries
	// no parameter payload.
	ErrParamsUnsupported = errors.New("positional parameters are not supported by the sql capability")

	// ErrNotPrepared is returned when Execute is called without Prepare.
	ErrNotPrepared = errors.New("statement has not been prepared")

	// ErrNoCursor is returned when a result-set call is made without an
	// open result set.
	ErrNoCursor = errors.New("no open result set")
)

// HostCall defines the waPC host function signature used by driver
// operations.
type HostCall func(string, string, string, []byte) ([]byte, error)

// Config controls how the connector interacts with the host runtime.
type Config struct {
	// Namespace scopes host interactions. Defaults to DefaultNamespace.
	Namespace string

	// HostCall overrides the waPC host function used for driver operations.
	HostCall HostCall
}

// Connector implements driver.Connector over the Tarmac sql capability.
type Connector struct {
	namespace string
	hostCall  HostCall
}

var _ driver.Connector = (*Connector)(nil)

// New creates a Connector with namespace defaults and optional host-call
// override.
func New(config Config) (*Connector, error) {
	namespace := config.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	hostCall := config.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &Connector{namespace: namespace, hostCall: hostCall}, nil
}

// Connect returns a connection bound to the configured namespace. The host
// owns the actual database connection, so a non-empty connection string is
// treated as a namespace override.
func (c *Connector) Connect(connString string) (driver.Conn, error) {
	namespace := c.namespace
	if connString != "" {
		namespace = connString
	}
	return &conn{namespace: namespace, hostCall: c.hostCall}, nil
}

type conn struct {
	namespace string
	hostCall  HostCall
}

func (c *conn) NewStmt() (driver.Stmt, error) {
	return &stmt{conn: c}, nil
}

func (c *conn) Close() error {
	return nil
}

type stmt struct {
	conn   *conn
	query  string
	result *resultSet
}

func (s *stmt) Prepare(query string) error {
	s.query = query
	return nil
}

func (s *stmt) Bind(index int, value any) error {
	return fmt.Errorf("%w (parameter %d)", ErrParamsUnsupported, index)
}

func (s *stmt) ResetParams() error {
	return nil
}

func (s *stmt) ExecDirect(query string) (driver.ResultKind, error) {
	return s.run(query)
}

func (s *stmt) Execute() (driver.ResultKind, error) {
	if s.query == "" {
		return driver.NoData, ErrNotPrepared
	}
	return s.run(s.query)
}

// run routes row-producing statements to the query function and everything
// else to exec, which never yields a result set.
func (s *stmt) run(query string) (driver.ResultKind, error) {
	s.result = nil

	if !returnsRows(query) {
		if err := s.exec(query); err != nil {
			return driver.NoData, err
		}
		return driver.NoData, nil
	}

	rs, err := s.queryHost(query)
	if err != nil {
		return driver.NoData, err
	}
	if len(rs.descs) == 0 {
		return driver.NoData, nil
	}
	s.result = rs
	return driver.HasData, nil
}

func (s *stmt) exec(query string) error {
	req := &proto.SQLExec{Query: []byte(query)}
	payload, err := req.MarshalVT()
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	respBytes, callErr := s.conn.hostCall(s.conn.namespace, capabilityName, fnExec, payload)
	if callErr != nil && len(respBytes) == 0 {
		return errors.Join(ErrHostCall, callErr)
	}

	var resp proto.SQLExecResponse
	if err := resp.UnmarshalVT(respBytes); err != nil {
		return errors.Join(ErrHostResponseInvalid, err)
	}
	return checkStatus(resp.GetStatus(), callErr)
}

func (s *stmt) queryHost(query string) (*resultSet, error) {
	req := &proto.SQLQuery{Query: []byte(query)}
	payload, err := req.MarshalVT()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	respBytes, callErr := s.conn.hostCall(s.conn.namespace, capabilityName, fnQuery, payload)
	if callErr != nil && len(respBytes) == 0 {
		return nil, errors.Join(ErrHostCall, callErr)
	}

	var resp proto.SQLQueryResponse
	if err := resp.UnmarshalVT(respBytes); err != nil {
		return nil, errors.Join(ErrHostResponseInvalid, err)
	}
	if err := checkStatus(resp.GetStatus(), callErr); err != nil {
		return nil, err
	}

	return newResultSet(resp.GetColumns(), resp.GetData())
}

func (s *stmt) NumResultCols() (int, error) {
	if s.result == nil {
		return 0, ErrNoCursor
	}
	return len(s.result.descs), nil
}

func (s *stmt) DescribeCol(index int) (driver.ColumnDescriptor, error) {
	if s.result == nil {
		return driver.ColumnDescriptor{}, ErrNoCursor
	}
	if index < 1 || index > len(s.result.descs) {
		return driver.ColumnDescriptor{}, ErrNoCursor
	}
	return s.result.descs[index-1], nil
}

func (s *stmt) Fetch() (driver.Cursor, error) {
	if s.result == nil {
		return nil, ErrNoCursor
	}
	return s.result.fetch(), nil
}

func (s *stmt) CloseCursor() error {
	s.result = nil
	return nil
}

func (s *stmt) Close() error {
	s.result = nil
	s.query = ""
	return nil
}

// checkStatus validates the host status payload the same way the SDK
// capability clients do.
func checkStatus(status *sdkproto.Status, callErr error) error {
	if status == nil {
		if callErr != nil {
			return errors.Join(ErrHostCall, callErr, ErrHostResponseInvalid)
		}
		return ErrHostResponseInvalid
	}

	code := status.GetCode()
	switch code {
	case hostStatusOK, hostStatusPartial:
		return nil
	case hostStatusBadInput, hostStatusMissing, hostStatusError:
		detail := fmt.Sprintf("host status %d", code)
		if msg := status.GetStatus(); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		if callErr != nil {
			return errors.Join(ErrHostCall, callErr, ErrHostError, errors.New(detail))
		}
		return errors.Join(ErrHostError, errors.New(detail))
	default:
		statusErr := fmt.Errorf("unexpected host status code %d", code)
		if callErr != nil {
			return errors.Join(ErrHostCall, callErr, ErrHostResponseInvalid, statusErr)
		}
		return errors.Join(ErrHostResponseInvalid, statusErr)
	}
}

// returnsRows reports whether the statement should be routed to the query
// function. The capability has no way to report a cursor for exec calls, so
// routing is by leading keyword.
func returnsRows(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "SHOW", "DESCRIBE", "DESC", "EXPLAIN", "WITH", "VALUES", "PRAGMA":
		return true
	default:
		return false
	}
}
