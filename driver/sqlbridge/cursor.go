package sqlbridge

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/tarmac-project/rowset/driver"
)

// cursor reads the scanned values of one row. database/sql hands back
// int64, float64, bool, []byte, string, time.Time or nil depending on the
// underlying driver, so every getter carries the coercions needed to present
// the typed get-data surface.
type cursor struct {
	values []any
}

var _ driver.Cursor = (*cursor)(nil)

func (c *cursor) cell(col int) (any, bool, error) {
	if col < 1 || col > len(c.values) {
		return nil, false, fmt.Errorf("column index %d out of range", col)
	}
	value := c.values[col-1]
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
	case int64:
		return v, true, nil
	case float64:
		return int64(v), true, nil
	case bool:
		if v {
			return 1, true, nil
		}
		return 0, true, nil
	case []byte:
		n, perr := strconv.ParseInt(string(v), 10, 64)
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
	case float64:
		return v, true, nil
	case int64:
		return float64(v), true, nil
	case []byte:
		f, perr := strconv.ParseFloat(string(v), 64)
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
	case []byte:
		return string(v), true, nil
	case int64:
		return strconv.FormatInt(v, 10), true, nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true, nil
	case bool:
		return strconv.FormatBool(v), true, nil
	case time.Time:
		return v.Format("2006-01-02 15:04:05"), true, nil
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
	case int64:
		if v != 0 {
			return 1, true, nil
		}
		return 0, true, nil
	case []byte:
		if len(v) == 0 {
			return 0, true, nil
		}
		return v[len(v)-1], true, nil
	case string:
		if v == "" || v == "0" || strings.EqualFold(v, "false") {
			return 0, true, nil
		}
		return 1, true, nil
	default:
		return 0, false, fmt.Errorf("column %d holds %T, not a byte", col, value)
	}
}

func (c *cursor) GetTimestamp(col int) (driver.Timestamp, bool, error) {
	value, ok, err := c.cell(col)
	if err != nil || !ok {
		return driver.Timestamp{}, ok, err
	}

	t, err := c.toTime(col, value, timestampLayouts)
	if err != nil {
		return driver.Timestamp{}, false, err
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
	value, ok, err := c.cell(col)
	if err != nil || !ok {
		return driver.Date{}, ok, err
	}

	t, err := c.toTime(col, value, dateLayouts)
	if err != nil {
		return driver.Date{}, false, err
	}
	return driver.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, true, nil
}

func (c *cursor) GetTime(col int) (driver.Time, bool, error) {
	value, ok, err := c.cell(col)
	if err != nil || !ok {
		return driver.Time{}, ok, err
	}

	t, err := c.toTime(col, value, timeLayouts)
	if err != nil {
		return driver.Time{}, false, err
	}
	return driver.Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, true, nil
}

func (c *cursor) GetTime2(col int) (driver.Time2, bool, error) {
	value, ok, err := c.cell(col)
	if err != nil || !ok {
		return driver.Time2{}, ok, err
	}

	t, err := c.toTime(col, value, timeLayouts)
	if err != nil {
		return driver.Time2{}, false, err
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
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05"}
	timeLayouts = []string{"15:04:05.999999999", "15:04:05"}
)

func (c *cursor) toTime(col int, value any, layouts []string) (time.Time, error) {
	var text string
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case []byte:
		text = string(v)
	case string:
		text = v
	default:
		return time.Time{}, fmt.Errorf("column %d holds %T, not a temporal value", col, value)
	}

	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
