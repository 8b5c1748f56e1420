package dataset

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// TypeID identifies an in-memory data representation an adapter can produce
// or consume.
type TypeID string

const (
	// TypeFrame is the native *dataset.Frame representation.
	TypeFrame TypeID = "dataset.Frame"

	// TypeRecords is the row-oriented []map[string]any representation.
	TypeRecords TypeID = "records"

	// TypeArrow is the Apache Arrow arrow.Record representation.
	TypeArrow TypeID = "arrow.Record"
)

// TypeOf maps a data value to its representation TypeID.
// Returns false for values that are not a known representation.
func TypeOf(v any) (TypeID, bool) {
	switch v.(type) {
	case *Frame:
		return TypeFrame, true
	case []map[string]any:
		return TypeRecords, true
	case arrow.Record:
		return TypeArrow, true
	default:
		return "", false
	}
}

// Shape describes the materialized data behind a load or save call.
// Columns and Dtypes always have equal length and consistent order.
type Shape struct {
	Rows    int
	Columns []string
	Dtypes  []string
}

// Describe derives the Shape of any known representation. Rows reflects the
// actual row count of the value at call time.
func Describe(v any) (Shape, error) {
	switch x := v.(type) {
	case *Frame:
		return Shape{Rows: x.NumRows(), Columns: x.Columns(), Dtypes: x.Dtypes()}, nil
	case []map[string]any:
		f := FromRecords(x)
		return Shape{Rows: f.NumRows(), Columns: f.Columns(), Dtypes: f.Dtypes()}, nil
	case arrow.Record:
		schema := x.Schema()
		cols := make([]string, schema.NumFields())
		dtypes := make([]string, schema.NumFields())
		for i, field := range schema.Fields() {
			cols[i] = field.Name
			dtypes[i] = arrowDtypeLabel(field.Type)
		}
		return Shape{Rows: int(x.NumRows()), Columns: cols, Dtypes: dtypes}, nil
	default:
		return Shape{}, fmt.Errorf("dataset: cannot describe %T", v)
	}
}

// AsFrame converts any known representation to the native Frame.
func AsFrame(v any) (*Frame, error) {
	switch x := v.(type) {
	case *Frame:
		return x, nil
	case []map[string]any:
		return FromRecords(x), nil
	case arrow.Record:
		return FromArrow(x)
	default:
		return nil, fmt.Errorf("dataset: cannot convert %T to a Frame", v)
	}
}

// Materialize converts a Frame into the requested representation.
func Materialize(f *Frame, target TypeID) (any, error) {
	switch target {
	case TypeFrame:
		return f, nil
	case TypeRecords:
		return f.Records(), nil
	case TypeArrow:
		return ToArrow(f)
	default:
		return nil, fmt.Errorf("dataset: unknown representation %q", target)
	}
}
