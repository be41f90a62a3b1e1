package rowset

import (
	"fmt"
	"unicode/utf16"

	"github.com/tarmac-project/rowset/driver"
	"google.golang.org/protobuf/types/known/structpb"
)

// Row is one decoded result row: a dynamic value per column, index-aligned
// with the Schema.
type Row = []*structpb.Value

// decodeRow reads every column of the fetched row in ascending order,
// exactly once each, as required by the underlying get-data handles.
func decodeRow(cursor driver.Cursor, schema Schema, utf16Mode bool) (Row, error) {
	row := make(Row, 0, len(schema))
	for i, desc := range schema {
		value, err := decodeColumn(cursor, i+1, desc, utf16Mode)
		if err != nil {
			return nil, stageErr(ErrDataAccess, stageGetValue, err)
		}
		row = append(row, value)
	}
	return row, nil
}

// decodeColumn dispatches on the driver-reported wire type and produces one
// dynamic value. SQL NULL always decodes to the Null variant. An unmapped
// wire type is a hard stop: the decoder never coerces a value it does not
// understand.
func decodeColumn(cursor driver.Cursor, col int, desc driver.ColumnDescriptor, utf16Mode bool) (*structpb.Value, error) {
	switch desc.Type {
	case driver.TypeTinyInt, driver.TypeSmallInt, driver.TypeInteger, driver.TypeBigInt:
		n, ok, err := cursor.GetInt64(col)
		if err != nil {
			return nil, err
		}
		if !ok {
			return structpb.NewNullValue(), nil
		}
		return structpb.NewNumberValue(float64(n)), nil

	case driver.TypeFloat, driver.TypeReal, driver.TypeDouble:
		f, ok, err := cursor.GetFloat64(col)
		if err != nil {
			return nil, err
		}
		if !ok {
			return structpb.NewNullValue(), nil
		}
		return structpb.NewNumberValue(f), nil

	case driver.TypeChar, driver.TypeVarChar, driver.TypeLongVarChar:
		return decodeNarrow(cursor, col)

	case driver.TypeWChar, driver.TypeWVarChar, driver.TypeWLongVarChar:
		if !utf16Mode {
			return decodeNarrow(cursor, col)
		}
		units, ok, err := cursor.GetWide(col)
		if err != nil {
			return nil, err
		}
		if !ok {
			return structpb.NewNullValue(), nil
		}
		s, err := decodeUTF16(units)
		if err != nil {
			return nil, fmt.Errorf("getting UTF-16 string (WCHAR | WVARCHAR | WLONGVARCHAR): %w", err)
		}
		return structpb.NewStringValue(s), nil

	case driver.TypeTimestamp:
		ts, ok, err := cursor.GetTimestamp(col)
		if err != nil {
			return nil, err
		}
		if !ok {
			return structpb.NewNullValue(), nil
		}
		return structpb.NewStringValue(fmt.Sprintf(
			"%04d-%02d-%02d %02d:%02d:%02d.%03d",
			ts.Year, ts.Month, ts.Day,
			ts.Hour, ts.Minute, ts.Second,
			ts.Fraction/1_000_000,
		)), nil

	case driver.TypeDate:
		d, ok, err := cursor.GetDate(col)
		if err != nil {
			return nil, err
		}
		if !ok {
			return structpb.NewNullValue(), nil
		}
		return structpb.NewStringValue(fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)), nil

	case driver.TypeTime:
		t, ok, err := cursor.GetTime(col)
		if err != nil {
			return nil, err
		}
		if !ok {
			return structpb.NewNullValue(), nil
		}
		return structpb.NewStringValue(fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)), nil

	case driver.TypeSSTime2:
		t, ok, err := cursor.GetTime2(col)
		if err != nil {
			return nil, err
		}
		if !ok {
			return structpb.NewNullValue(), nil
		}
		return structpb.NewStringValue(fmt.Sprintf(
			"%02d:%02d:%02d.%07d",
			t.Hour, t.Minute, t.Second, t.Fraction/100,
		)), nil

	case driver.TypeBit:
		b, ok, err := cursor.GetByte(col)
		if err != nil {
			return nil, err
		}
		if !ok {
			return structpb.NewNullValue(), nil
		}
		return structpb.NewBoolValue(b != 0), nil

	default:
		panic(fmt.Sprintf("got unimplemented SQL data type: %s (column %q)", desc.Type, desc.Name))
	}
}

func decodeNarrow(cursor driver.Cursor, col int) (*structpb.Value, error) {
	s, ok, err := cursor.GetString(col)
	if err != nil {
		return nil, err
	}
	if !ok {
		return structpb.NewNullValue(), nil
	}
	return structpb.NewStringValue(s), nil
}

// decodeUTF16 converts a UTF-16 code unit buffer to a string, rejecting
// unpaired surrogates. utf16.Decode alone would silently substitute U+FFFD,
// which would hide driver corruption.
func decodeUTF16(units []uint16) (string, error) {
	for i := 0; i < len(units); i++ {
		switch u := units[i]; {
		case u >= 0xD800 && u < 0xDC00:
			if i+1 >= len(units) || units[i+1] < 0xDC00 || units[i+1] >= 0xE000 {
				return "", fmt.Errorf("%w: unpaired high surrogate at unit %d", ErrInvalidUTF16, i)
			}
			i++
		case u >= 0xDC00 && u < 0xE000:
			return "", fmt.Errorf("%w: unpaired low surrogate at unit %d", ErrInvalidUTF16, i)
		}
	}
	return string(utf16.Decode(units)), nil
}
