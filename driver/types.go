package driver

import "fmt"

// TypeCode identifies the wire type a driver reports for a result column.
// The values follow the ODBC SQL data type codes so that native driver
// bindings can pass them through unchanged.
type TypeCode int16

const (
	TypeUnknown      TypeCode = 0
	TypeChar         TypeCode = 1
	TypeInteger      TypeCode = 4
	TypeSmallInt     TypeCode = 5
	TypeFloat        TypeCode = 6
	TypeReal         TypeCode = 7
	TypeDouble       TypeCode = 8
	TypeDate         TypeCode = 9
	TypeTime         TypeCode = 10
	TypeTimestamp    TypeCode = 11
	TypeVarChar      TypeCode = 12
	TypeLongVarChar  TypeCode = -1
	TypeBigInt       TypeCode = -5
	TypeTinyInt      TypeCode = -6
	TypeBit          TypeCode = -7
	TypeWChar        TypeCode = -8
	TypeWVarChar     TypeCode = -9
	TypeWLongVarChar TypeCode = -10
	TypeSSTime2      TypeCode = -154
)

var typeNames = map[TypeCode]string{
	TypeUnknown:      "UNKNOWN",
	TypeChar:         "CHAR",
	TypeInteger:      "INTEGER",
	TypeSmallInt:     "SMALLINT",
	TypeFloat:        "FLOAT",
	TypeReal:         "REAL",
	TypeDouble:       "DOUBLE",
	TypeDate:         "DATE",
	TypeTime:         "TIME",
	TypeTimestamp:    "TIMESTAMP",
	TypeVarChar:      "VARCHAR",
	TypeLongVarChar:  "LONGVARCHAR",
	TypeBigInt:       "BIGINT",
	TypeTinyInt:      "TINYINT",
	TypeBit:          "BIT",
	TypeWChar:        "WCHAR",
	TypeWVarChar:     "WVARCHAR",
	TypeWLongVarChar: "WLONGVARCHAR",
	TypeSSTime2:      "SS_TIME2",
}

// String returns the ODBC-style name of the type code.
func (t TypeCode) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TypeCode(%d)", int16(t))
}

// Nullability is the tri-state nullable attribute of a result column.
type Nullability int8

const (
	NullabilityUnknown Nullability = iota
	NoNulls
	Nullable
)

// String returns a short label for logging.
func (n Nullability) String() string {
	switch n {
	case NoNulls:
		return "no-nulls"
	case Nullable:
		return "nullable"
	default:
		return "unknown"
	}
}

// ColumnDescriptor describes one result column. A driver produces the
// descriptors once per result set; they are immutable afterwards.
type ColumnDescriptor struct {
	// Name is the column name as reported by the driver.
	Name string

	// Type is the wire type code the driver reports for the column.
	Type TypeCode

	// Size is the column size in driver units, zero when not reported.
	Size int

	// DecimalDigits is the scale for decimal-bearing types, zero otherwise.
	DecimalDigits int16

	// Nullable reports whether the column may carry SQL NULL.
	Nullable Nullability
}

// ResultKind reports whether an executed statement produced a result set.
type ResultKind int8

const (
	// NoData means the statement completed without a result set (DDL/DML).
	NoData ResultKind = iota

	// HasData means an open cursor with result columns is available.
	HasData
)

// Timestamp carries a fetched timestamp column value. Fraction is in
// nanoseconds.
type Timestamp struct {
	Year     int
	Month    int
	Day      int
	Hour     int
	Minute   int
	Second   int
	Fraction uint32
}

// Date carries a fetched date column value.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Time carries a fetched time column value with second precision.
type Time struct {
	Hour   int
	Minute int
	Second int
}

// Time2 carries a fetched high-precision time column value. Fraction is in
// nanoseconds.
type Time2 struct {
	Hour     int
	Minute   int
	Second   int
	Fraction uint32
}
