package rowset

import (
	"log/slog"
	"strings"

	"github.com/tarmac-project/rowset/driver"
)

// Schema is the ordered column descriptor list of one result set. It is
// fixed before the first row is decoded and never mutated afterwards.
type Schema = []driver.ColumnDescriptor

type rowsState int8

const (
	// stateActive has an open cursor with rows pending.
	stateActive rowsState = iota

	// stateNoData is the closed-for-reading state entered when the driver
	// reported no result set, or a data-bearing response with zero columns.
	stateNoData

	// stateExhausted means the cursor reported no more rows.
	stateExhausted

	// stateClosed is terminal.
	stateClosed
)

// Rows is a pull-based iterator over the result set of one executed
// statement. It exclusively owns the statement handle for its lifetime.
//
// Usage follows the scanner shape: Next advances and decodes one row, Row
// returns it, Err reports a terminal fault, and Close releases the cursor.
// After an error from Next the iterator state is terminal and further pulls
// yield nothing.
type Rows struct {
	stmt      driver.Stmt
	prepared  *Stmt
	schema    Schema
	state     rowsState
	hasCursor bool
	utf16     bool
	logger    *slog.Logger
	row       Row
	err       error
}

// newRows computes the initial iterator state from the driver-reported
// result kind. This is the only point where the schema is read.
func newRows(st driver.Stmt, kind driver.ResultKind, prepared *Stmt, utf16 bool, logger *slog.Logger) (*Rows, error) {
	r := &Rows{
		stmt:     st,
		prepared: prepared,
		utf16:    utf16,
		logger:   logger,
	}

	switch kind {
	case driver.HasData:
		numCols, err := st.NumResultCols()
		if err != nil {
			return nil, stageErr(ErrStatement, stageNumResultCols, err)
		}

		r.schema = make(Schema, 0, numCols)
		for i := 1; i <= numCols; i++ {
			desc, err := st.DescribeCol(i)
			if err != nil {
				return nil, stageErr(ErrStatement, stageDescribeCols, err)
			}
			r.schema = append(r.schema, desc)
		}

		// Parameter data is not referenced once execution has started.
		if err := st.ResetParams(); err != nil {
			return nil, stageErr(ErrStatement, stageResetParams, err)
		}

		if numCols == 0 {
			// Invalid cursor state: a data-bearing response with no
			// columns. Treat as closed for reading.
			r.state = stateNoData
		} else {
			r.state = stateActive
			r.hasCursor = true
			logger.Debug("got data", "columns", columnNames(r.schema))
		}

	case driver.NoData:
		if err := st.ResetParams(); err != nil {
			return nil, stageErr(ErrStatement, stageResetParams, err)
		}
		r.schema = Schema{}
		r.state = stateNoData
		logger.Debug("no data")
	}

	return r, nil
}

// Schema returns the column descriptors of this result set. The slice is
// lent by reference and must not be mutated.
func (r *Rows) Schema() Schema {
	return r.schema
}

// Next fetches and decodes the next row. It returns false at the end of the
// result set or on a terminal error; check Err after the loop.
func (r *Rows) Next() bool {
	if r.state != stateActive {
		return false
	}

	cursor, err := r.stmt.Fetch()
	if err != nil {
		r.err = stageErr(ErrStatement, stageFetching, err)
		r.state = stateExhausted
		return false
	}
	if cursor == nil {
		r.state = stateExhausted
		return false
	}

	row, err := decodeRow(cursor, r.schema, r.utf16)
	if err != nil {
		r.err = err
		r.state = stateExhausted
		return false
	}

	r.row = row
	return true
}

// Row returns the row decoded by the last successful Next. The value is
// owned by the caller; the iterator does not retain it.
func (r *Rows) Row() Row {
	return r.row
}

// Err returns the terminal error that stopped iteration, if any.
func (r *Rows) Err() error {
	return r.err
}

// Close releases the cursor. For a result set built from a prepared
// statement it returns ownership of the statement for reuse; for a direct
// query it finalizes the one-shot statement handle. Close succeeds even when
// no rows were ever fetched and closing twice is safe.
func (r *Rows) Close() error {
	if r.state == stateClosed {
		return nil
	}

	var closeErr error
	if r.hasCursor {
		if err := r.stmt.CloseCursor(); err != nil {
			closeErr = stageErr(ErrStatement, stageClosingCursor, err)
		}
	}
	r.state = stateClosed

	if r.prepared != nil {
		r.prepared.busy = false
		return closeErr
	}

	if err := r.stmt.Close(); err != nil && closeErr == nil {
		closeErr = stageErr(ErrStatement, stageClosingStmt, err)
	}
	return closeErr
}

func columnNames(schema Schema) string {
	names := make([]string, len(schema))
	for i, desc := range schema {
		names[i] = desc.Name
	}
	return strings.Join(names, ", ")
}
