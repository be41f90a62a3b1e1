package rowset

import (
	"fmt"
	"iter"

	"google.golang.org/protobuf/types/known/structpb"
)

// Converter builds iteration items of type T from decoded rows. Any type
// implementing the two operations can be used as the iteration item type;
// callers supply their own implementations for strongly-typed records.
//
// FromSchema is invoked once, before the first row, with the result set
// schema; a failure there aborts that iteration setup only. FromRow is
// invoked per decoded row inside the pull loop.
type Converter[T any] interface {
	FromSchema(schema Schema) error
	FromRow(row Row, schema Schema) (T, error)
}

// RowsConverter is the identity conversion: each row stays a plain ordered
// sequence of dynamic values.
type RowsConverter struct{}

func (RowsConverter) FromSchema(Schema) error { return nil }

func (RowsConverter) FromRow(row Row, _ Schema) (Row, error) { return row, nil }

// ValueConverter collapses each row to a single list-typed dynamic value
// wrapping the column values.
type ValueConverter struct{}

func (ValueConverter) FromSchema(Schema) error { return nil }

func (ValueConverter) FromRow(row Row, _ Schema) (*structpb.Value, error) {
	return structpb.NewListValue(&structpb.ListValue{Values: row}), nil
}

// Iter drives the result set as a pull-based sequence of converted items.
// Each pull fetches and decodes one row and passes it through the converter
// before yielding. The sequence ends at exhaustion or after the first error
// item; the caller still owns closing rows.
func Iter[T any](rows *Rows, conv Converter[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		if err := conv.FromSchema(rows.Schema()); err != nil {
			yield(zero, fmt.Errorf("%w: %w", ErrFromSchema, err))
			return
		}

		for rows.Next() {
			item, err := conv.FromRow(rows.Row(), rows.Schema())
			if err != nil {
				if !yield(zero, fmt.Errorf("%w: %w", ErrFromRow, err)) {
					return
				}
				continue
			}
			if !yield(item, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(zero, err)
		}
	}
}

// Collect drains the result set through the converter and returns all items.
// It stops at the first error.
func Collect[T any](rows *Rows, conv Converter[T]) ([]T, error) {
	var items []T
	for item, err := range Iter(rows, conv) {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Each applies fn to every converted item, stopping at the first error from
// the sequence or from fn.
func Each[T any](rows *Rows, conv Converter[T], fn func(T) error) error {
	for item, err := range Iter(rows, conv) {
		if err != nil {
			return err
		}
		if err := fn(item); err != nil {
			return err
		}
	}
	return nil
}
