package tarmachost

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode/utf16"

	"github.com/tarmac-project/rowset/driver"
)

// resultSet holds the decoded JSON rows of one query response. The host
// returns the full result set in one payload, so fetching just walks the
// slice.
type resultSet struct {
	descs []driver.ColumnDescriptor
	rows  []map[string]any
	next  int
}

// newResultSet decodes the JSON row payload and infers a wire type for each
// column from the values it actually carries. Numbers are decoded with
// UseNumber so integer columns are not flattened to floats.
func newResultSet(columns []string, data []byte) (*resultSet, error) {
	rs := &resultSet{}

	if len(data) > 0 && !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&rs.rows); err != nil {
			return nil, errors.Join(ErrHostResponseInvalid, err)
		}
	}

	rs.descs = make([]driver.ColumnDescriptor, 0, len(columns))
	for _, name := range columns {
		rs.descs = append(rs.descs, describeColumn(name, rs.rows))
	}
	return rs, nil
}

func (rs *resultSet) fetch() driver.Cursor {
	if rs.next >= len(rs.rows) {
		return nil
	}
	c := &cursor{descs: rs.descs, row: rs.rows[rs.next]}
	rs.next++
	return c
}

// describeColumn scans the column's values to pick a wire type. Mixed or
// all-null columns fall back to VARCHAR so the decoder reads them as text.
func describeColumn(name string, rows []map[string]any) driver.ColumnDescriptor {
	desc := driver.ColumnDescriptor{
		Name:     name,
		Type:     driver.TypeVarChar,
		Nullable: driver.NullabilityUnknown,
	}

	sawNull := false
	typed := false
	for _, row := range rows {
		value, present := row[name]
		if !present || value == nil {
			sawNull = true
			continue
		}
		code := typeCodeForValue(value)
		if !typed {
			desc.Type = code
			typed = true
			continue
		}
		if desc.Type != code {
			desc.Type = driver.TypeVarChar
		}
	}

	if sawNull {
		desc.Nullable = driver.Nullable
	}
	return desc
}

func typeCodeForValue(value any) driver.TypeCode {
	switch v := value.(type) {
	case json.Number:
		if _, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return driver.TypeBigInt
		}
		return driver.TypeDouble
	case bool:
		return driver.TypeBit
	default:
		return driver.TypeVarChar
	}
}

// cursor presents one decoded JSON row through the typed get-data surface.
type cursor struct {
	descs []driver.ColumnDescriptor
	row   map[string]any
}

var _ driver.Cursor = (*cursor)(nil)

func (c *cursor) cell(col int) (any, bool, error) {
	if col < 1 || col > len(c.descs) {
		return nil, false, fmt.Errorf("column index %d out of range", col)
	}
	value, present := c.row[c.descs[col-1].Name]
	if !present || value == nil {
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
	case json.Number:
		n, perr := strconv.ParseInt(v.String(), 10, 64)
		if perr != nil {
			return 0, false, perr
		}
		return n, true, nil
	case string:
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			return 0, false, perr
		}
		return n, true, nil
	case bool:
		if v {
			return 1, true, nil
		}
		return 0, true, nil
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
	case json.Number:
		f, perr := v.Float64()
		if perr != nil {
			return 0, false, perr
		}
		return f, true, nil
	case string:
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			return 0, false, perr
		}
		return f, true, nil
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
	case json.Number:
		return v.String(), true, nil
	case bool:
		return strconv.FormatBool(v), true, nil
	default:
		return fmt.Sprintf("%v", v), true, nil
	}
}

func (c *cursor) GetWide(col int) ([]uint16, bool, error) {
	s, ok, err := c.GetString(col)
	if err != nil || !ok {
		return nil, ok, err
	}
	return utf16.Encode([]rune(s)), true, nil
}

func (c *cursor) GetByte(col int) (byte, bool, error) {
	value, ok, err := c.cell(col)
	if err != nil || !ok {
		return 0, ok, err
	}
	switch v := value.(type) {
	case bool:
		if v {
			return 1, true, nil
		}
		return 0, true, nil
	case json.Number:
		n, perr := strconv.ParseInt(v.String(), 10, 64)
		if perr != nil {
			return 0, false, perr
		}
		if n != 0 {
			return 1, true, nil
		}
		return 0, true, nil
	default:
		return 0, false, fmt.Errorf("column %d holds %T, not a byte", col, value)
	}
}

func (c *cursor) GetTimestamp(col int) (driver.Timestamp, bool, error) {
	t, ok, err := c.temporal(col, timestampLayouts)
	if err != nil || !ok {
		return driver.Timestamp{}, ok, err
	}
	return driver.Timestamp{
		Year:     t.Year(),
		Month:    int(t.Month()),
		Day:      t.Day(),
		Hour:     t.Hour(),
		Minute:   t.Minute(),
		Second:   t.Second(),
		Fraction: uint32(t.Nanosecond()),
	}, true, nil
}

func (c *cursor) GetDate(col int) (driver.Date, bool, error) {
	t, ok, err := c.temporal(col, dateLayouts)
	if err != nil || !ok {
		return driver.Date{}, ok, err
	}
	return driver.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, true, nil
}

func (c *cursor) GetTime(col int) (driver.Time, bool, error) {
	t, ok, err := c.temporal(col, timeLayouts)
	if err != nil || !ok {
		return driver.Time{}, ok, err
	}
	return driver.Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, true, nil
}

func (c *cursor) GetTime2(col int) (driver.Time2, bool, error) {
	t, ok, err := c.temporal(col, timeLayouts)
	if err != nil || !ok {
		return driver.Time2{}, ok, err
	}
	return driver.Time2{
		Hour:     t.Hour(),
		Minute:   t.Minute(),
		Second:   t.Second(),
		Fraction: uint32(t.Nanosecond()),
	}, true, nil
}

var (
	timestampLayouts = []string{
		"2006-01-02T15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05"}
	timeLayouts = []string{"15:04:05.999999999", "15:04:05"}
)

func (c *cursor) temporal(col int, layouts []string) (time.Time, bool, error) {
	value, ok, err := c.cell(col)
	if err != nil || !ok {
		return time.Time{}, ok, err
	}

	text, isText := value.(string)
	if !isText {
		return time.Time{}, false, fmt.Errorf("column %d holds %T, not a temporal value", col, value)
	}

	var lastErr error
	for _, layout := range layouts {
		t, perr := time.Parse(layout, text)
		if perr == nil {
			return t, true, nil
		}
		lastErr = perr
	}
	return time.Time{}, false, lastErr
}
