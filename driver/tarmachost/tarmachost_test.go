package tarmachost

import (
	"errors"
	"testing"

	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/sql"

	"github.com/tarmac-project/rowset/driver"
	"github.com/tarmac-project/rowset/driver/tarmachost/hostmock"
)

func queryResponse(columns []string, data string) func() []byte {
	return func() []byte {
		resp := &proto.SQLQueryResponse{
			Status:  &sdkproto.Status{Status: "OK", Code: 200},
			Columns: columns,
			Data:    []byte(data),
		}
		b, _ := resp.MarshalVT()
		return b
	}
}

func execResponse(code int32, status string) func() []byte {
	return func() []byte {
		resp := &proto.SQLExecResponse{
			Status: &sdkproto.Status{Status: status, Code: code},
		}
		b, _ := resp.MarshalVT()
		return b
	}
}

func newStmt(t *testing.T, cfg hostmock.Config) (*hostmock.Mock, driver.Stmt) {
	t.Helper()

	mock, err := hostmock.New(cfg)
	if err != nil {
		t.Fatalf("hostmock: %v", err)
	}

	connector, err := New(Config{HostCall: mock.HostCall})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	conn, err := connector.Connect("")
	if err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	st, err := conn.NewStmt()
	if err != nil {
		t.Fatalf("NewStmt returned error: %v", err)
	}
	return mock, st
}

func TestQuery_DefaultNamespace(t *testing.T) {
	t.Parallel()

	query := "SELECT id, name FROM users"
	mock, st := newStmt(t, hostmock.Config{
		ExpectedNamespace:  DefaultNamespace,
		ExpectedCapability: "sql",
		ExpectedFunction:   fnQuery,
		PayloadValidator: func(_ string, payload []byte) error {
			var req proto.SQLQuery
			if err := req.UnmarshalVT(payload); err != nil {
				return err
			}
			if string(req.GetQuery()) != query {
				return errors.New("query mismatch")
			}
			return nil
		},
		Responses: map[string]func() []byte{
			fnQuery: queryResponse(
				[]string{"id", "name"},
				`[{"id": 1, "name": "alice"}, {"id": 2, "name": null}]`,
			),
		},
	})

	kind, err := st.ExecDirect(query)
	if err != nil {
		t.Fatalf("ExecDirect returned error: %v", err)
	}
	if kind != driver.HasData {
		t.Fatalf("kind = %v, want HasData", kind)
	}
	if len(mock.Calls) != 1 || mock.Calls[0] != fnQuery {
		t.Fatalf("host calls: %q", mock.Calls)
	}

	numCols, err := st.NumResultCols()
	if err != nil || numCols != 2 {
		t.Fatalf("NumResultCols = %d, %v", numCols, err)
	}

	idDesc, err := st.DescribeCol(1)
	if err != nil {
		t.Fatalf("DescribeCol(1) returned error: %v", err)
	}
	if idDesc.Name != "id" || idDesc.Type != driver.TypeBigInt {
		t.Errorf("id descriptor: %+v", idDesc)
	}
	nameDesc, err := st.DescribeCol(2)
	if err != nil {
		t.Fatalf("DescribeCol(2) returned error: %v", err)
	}
	if nameDesc.Name != "name" || nameDesc.Type != driver.TypeVarChar || nameDesc.Nullable != driver.Nullable {
		t.Errorf("name descriptor: %+v", nameDesc)
	}

	cursor, err := st.Fetch()
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	id, ok, err := cursor.GetInt64(1)
	if err != nil || !ok || id != 1 {
		t.Fatalf("GetInt64 = %d ok=%v err=%v", id, ok, err)
	}
	name, ok, err := cursor.GetString(2)
	if err != nil || !ok || name != "alice" {
		t.Fatalf("GetString = %q ok=%v err=%v", name, ok, err)
	}

	cursor, err = st.Fetch()
	if err != nil {
		t.Fatalf("second Fetch returned error: %v", err)
	}
	if _, ok, err := cursor.GetString(2); ok || err != nil {
		t.Fatalf("null cell: ok=%v err=%v", ok, err)
	}

	cursor, err = st.Fetch()
	if err != nil {
		t.Fatalf("third Fetch returned error: %v", err)
	}
	if cursor != nil {
		t.Fatal("Fetch returned a cursor past the result set")
	}
}

func TestExec_RoutedByKeyword(t *testing.T) {
	t.Parallel()

	mock, st := newStmt(t, hostmock.Config{
		ExpectedNamespace:  DefaultNamespace,
		ExpectedCapability: "sql",
		ExpectedFunction:   fnExec,
		Responses: map[string]func() []byte{
			fnExec: execResponse(200, "OK"),
		},
	})

	kind, err := st.ExecDirect("CREATE TABLE t (id INT)")
	if err != nil {
		t.Fatalf("ExecDirect returned error: %v", err)
	}
	if kind != driver.NoData {
		t.Fatalf("kind = %v, want NoData", kind)
	}
	if len(mock.Calls) != 1 || mock.Calls[0] != fnExec {
		t.Fatalf("host calls: %q", mock.Calls)
	}
}

func TestConnect_NamespaceOverride(t *testing.T) {
	t.Parallel()

	mock, err := hostmock.New(hostmock.Config{
		ExpectedNamespace:  "analytics",
		ExpectedCapability: "sql",
		Responses: map[string]func() []byte{
			fnExec: execResponse(200, "OK"),
		},
	})
	if err != nil {
		t.Fatalf("hostmock: %v", err)
	}

	connector, err := New(Config{HostCall: mock.HostCall})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	conn, err := connector.Connect("analytics")
	if err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	st, err := conn.NewStmt()
	if err != nil {
		t.Fatalf("NewStmt returned error: %v", err)
	}

	if _, err := st.ExecDirect("DELETE FROM t"); err != nil {
		t.Fatalf("ExecDirect returned error: %v", err)
	}
}

func TestExecute_PreparedEmulation(t *testing.T) {
	t.Parallel()

	mock, st := newStmt(t, hostmock.Config{
		ExpectedNamespace:  DefaultNamespace,
		ExpectedCapability: "sql",
		ExpectedFunction:   fnQuery,
		Responses: map[string]func() []byte{
			fnQuery: queryResponse([]string{"n"}, `[{"n": 42}]`),
		},
	})

	if _, err := st.Execute(); !errors.Is(err, ErrNotPrepared) {
		t.Fatalf("got %v, want ErrNotPrepared", err)
	}

	if err := st.Prepare("SELECT 42 AS n"); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}

	for run := 0; run < 2; run++ {
		kind, err := st.Execute()
		if err != nil {
			t.Fatalf("Execute %d returned error: %v", run, err)
		}
		if kind != driver.HasData {
			t.Fatalf("Execute %d: kind = %v, want HasData", run, kind)
		}
		if err := st.CloseCursor(); err != nil {
			t.Fatalf("CloseCursor returned error: %v", err)
		}
	}
	if len(mock.Calls) != 2 {
		t.Fatalf("host calls: %q", mock.Calls)
	}
}

func TestBind_Unsupported(t *testing.T) {
	t.Parallel()

	_, st := newStmt(t, hostmock.Config{
		ExpectedNamespace:  DefaultNamespace,
		ExpectedCapability: "sql",
	})

	if err := st.Bind(1, 42); !errors.Is(err, ErrParamsUnsupported) {
		t.Fatalf("got %v, want ErrParamsUnsupported", err)
	}
}

func TestHostFailures(t *testing.T) {
	t.Parallel()

	t.Run("CallError", func(t *testing.T) {
		t.Parallel()

		_, st := newStmt(t, hostmock.Config{Fail: true})
		if _, err := st.ExecDirect("SELECT 1"); !errors.Is(err, ErrHostCall) {
			t.Fatalf("got %v, want ErrHostCall", err)
		}
	})

	t.Run("ErrorStatus", func(t *testing.T) {
		t.Parallel()

		_, st := newStmt(t, hostmock.Config{
			ExpectedNamespace:  DefaultNamespace,
			ExpectedCapability: "sql",
			Responses: map[string]func() []byte{
				fnExec: execResponse(500, "Internal Error"),
			},
		})
		if _, err := st.ExecDirect("DROP TABLE t"); !errors.Is(err, ErrHostError) {
			t.Fatalf("got %v, want ErrHostError", err)
		}
	})

	t.Run("MissingStatus", func(t *testing.T) {
		t.Parallel()

		_, st := newStmt(t, hostmock.Config{
			ExpectedNamespace:  DefaultNamespace,
			ExpectedCapability: "sql",
			Responses: map[string]func() []byte{
				fnQuery: func() []byte {
					resp := &proto.SQLQueryResponse{}
					b, _ := resp.MarshalVT()
					return b
				},
			},
		})
		if _, err := st.ExecDirect("SELECT 1"); !errors.Is(err, ErrHostResponseInvalid) {
			t.Fatalf("got %v, want ErrHostResponseInvalid", err)
		}
	})

	t.Run("MalformedRowPayload", func(t *testing.T) {
		t.Parallel()

		_, st := newStmt(t, hostmock.Config{
			ExpectedNamespace:  DefaultNamespace,
			ExpectedCapability: "sql",
			Responses: map[string]func() []byte{
				fnQuery: queryResponse([]string{"n"}, `{"not": "an array"`),
			},
		})
		if _, err := st.ExecDirect("SELECT 1"); !errors.Is(err, ErrHostResponseInvalid) {
			t.Fatalf("got %v, want ErrHostResponseInvalid", err)
		}
	})
}

func TestReturnsRows(t *testing.T) {
	t.Parallel()

	cases := []struct {
		query string
		want  bool
	}{
		{query: "SELECT 1", want: true},
		{query: "select 1", want: true},
		{query: "  WITH cte AS (SELECT 1) SELECT * FROM cte", want: true},
		{query: "SHOW TABLES", want: true},
		{query: "EXPLAIN SELECT 1", want: true},
		{query: "INSERT INTO t VALUES (1)", want: false},
		{query: "CREATE TABLE t (id INT)", want: false},
		{query: "DROP TABLE t", want: false},
		{query: "", want: false},
	}

	for _, tc := range cases {
		if got := returnsRows(tc.query); got != tc.want {
			t.Errorf("returnsRows(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func TestColumnTypeInference(t *testing.T) {
	t.Parallel()

	rs, err := newResultSet(
		[]string{"i", "f", "s", "b", "mixed", "allnull"},
		[]byte(`[
			{"i": 1, "f": 1.5, "s": "x", "b": true, "mixed": 1, "allnull": null},
			{"i": 2, "f": 2.5, "s": "y", "b": false, "mixed": "two", "allnull": null}
		]`),
	)
	if err != nil {
		t.Fatalf("newResultSet returned error: %v", err)
	}

	want := map[string]driver.TypeCode{
		"i":       driver.TypeBigInt,
		"f":       driver.TypeDouble,
		"s":       driver.TypeVarChar,
		"b":       driver.TypeBit,
		"mixed":   driver.TypeVarChar,
		"allnull": driver.TypeVarChar,
	}
	for _, desc := range rs.descs {
		if desc.Type != want[desc.Name] {
			t.Errorf("column %q inferred %v, want %v", desc.Name, desc.Type, want[desc.Name])
		}
	}
	for _, desc := range rs.descs {
		if desc.Name == "allnull" && desc.Nullable != driver.Nullable {
			t.Errorf("allnull column reported %v", desc.Nullable)
		}
	}
}
