package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Frame is a fully materialized, ordered-column table. It is the native
// in-memory representation adapters produce and consume. A Frame is not safe
// for concurrent mutation; adapters treat it as read-only input.
type Frame struct {
	names []string
	cols  [][]any
}

// NewFrame builds a Frame from ordered column names and aligned column vectors.
// All columns must have the same length and names must be unique.
func NewFrame(names []string, cols [][]any) (*Frame, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("dataset: %d column names for %d columns", len(names), len(cols))
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			return nil, fmt.Errorf("dataset: empty column name")
		}
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("dataset: duplicate column name %q", n)
		}
		seen[n] = struct{}{}
	}
	rows := -1
	for i, c := range cols {
		if rows == -1 {
			rows = len(c)
		} else if len(c) != rows {
			return nil, fmt.Errorf("dataset: column %q has %d rows, expected %d", names[i], len(c), rows)
		}
	}
	return &Frame{names: append([]string(nil), names...), cols: cols}, nil
}

// MustNewFrame is NewFrame that panics on error. Intended for fixtures and tests.
func MustNewFrame(names []string, cols [][]any) *Frame {
	f, err := NewFrame(names, cols)
	if err != nil {
		panic(err)
	}
	return f
}

// FromRecords builds a Frame from row-oriented records. Column order follows
// the sorted union of keys across all records, since Go map iteration order is
// not deterministic. Missing keys become nil cells.
func FromRecords(records []map[string]any) *Frame {
	return FromRecordsOrdered(records, nil)
}

// FromRecordsOrdered builds a Frame from row-oriented records with an explicit
// column order, for readers that recover key order from the document itself.
// Keys not covered by order are appended in sorted order; order entries with
// no matching key are dropped.
func FromRecordsOrdered(records []map[string]any, order []string) *Frame {
	keys := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			keys[k] = struct{}{}
		}
	}

	names := make([]string, 0, len(keys))
	taken := make(map[string]struct{}, len(keys))
	for _, n := range order {
		if _, ok := keys[n]; !ok {
			continue
		}
		if _, dup := taken[n]; dup {
			continue
		}
		taken[n] = struct{}{}
		names = append(names, n)
	}
	rest := make([]string, 0, len(keys)-len(names))
	for k := range keys {
		if _, ok := taken[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)

	cols := make([][]any, len(names))
	for i, name := range names {
		col := make([]any, len(records))
		for r, rec := range records {
			col[r] = rec[name]
		}
		cols[i] = col
	}
	return &Frame{names: names, cols: cols}
}

// Concat stacks frames vertically. All frames must share the first frame's
// column order. Concat of zero frames returns an empty Frame.
func Concat(frames ...*Frame) (*Frame, error) {
	if len(frames) == 0 {
		return &Frame{}, nil
	}
	first := frames[0]
	cols := make([][]any, first.NumCols())
	for i := range cols {
		cols[i] = append([]any(nil), first.cols[i]...)
	}
	for _, f := range frames[1:] {
		if len(f.names) != len(first.names) {
			return nil, fmt.Errorf("dataset: cannot concat frames with %d and %d columns", len(first.names), len(f.names))
		}
		for i, n := range first.names {
			if f.names[i] != n {
				return nil, fmt.Errorf("dataset: cannot concat, column %d is %q vs %q", i, n, f.names[i])
			}
			cols[i] = append(cols[i], f.cols[i]...)
		}
	}
	return &Frame{names: first.Columns(), cols: cols}, nil
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0])
}

// NumCols returns the number of columns.
func (f *Frame) NumCols() int {
	return len(f.names)
}

// Columns returns the ordered column names.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.names...)
}

// Column returns a copy of the column vector for a name. Like Columns, the
// returned slice does not alias the Frame's storage.
func (f *Frame) Column(name string) ([]any, bool) {
	for i, n := range f.names {
		if n == name {
			return append([]any(nil), f.cols[i]...), true
		}
	}
	return nil, false
}

// At returns the cell value at (row, col) by positional index.
func (f *Frame) At(row, col int) any {
	return f.cols[col][row]
}

// Records converts the Frame to row-oriented records, preserving cell values.
func (f *Frame) Records() []map[string]any {
	records := make([]map[string]any, f.NumRows())
	for r := range records {
		rec := make(map[string]any, len(f.names))
		for c, name := range f.names {
			rec[name] = f.cols[c][r]
		}
		records[r] = rec
	}
	return records
}

// Dtypes returns the per-column data-type labels, aligned to Columns().
// Labels are "int64", "float64", "bool", "string", "timestamp" or "object"
// for mixed, empty or unrecognized columns.
func (f *Frame) Dtypes() []string {
	dtypes := make([]string, len(f.cols))
	for i, col := range f.cols {
		dtypes[i] = dtypeOf(col)
	}
	return dtypes
}

func dtypeOf(col []any) string {
	label := ""
	for _, v := range col {
		if v == nil {
			continue
		}
		var t string
		switch v.(type) {
		case int, int8, int16, int32, int64:
			t = "int64"
		case float32, float64:
			t = "float64"
		case bool:
			t = "bool"
		case string:
			t = "string"
		case time.Time:
			t = "timestamp"
		default:
			t = "object"
		}
		if label == "" {
			label = t
		} else if label != t {
			// int64 widens to float64, anything else degrades to object
			if (label == "int64" && t == "float64") || (label == "float64" && t == "int64") {
				label = "float64"
				continue
			}
			return "object"
		}
	}
	if label == "" {
		return "object"
	}
	return label
}

// Equal reports whether two frames have identical column order, cell types and
// cell values. Use it for lossless round-trip checks (parquet, feather, sql).
func (f *Frame) Equal(o *Frame) bool {
	if o == nil || f.NumRows() != o.NumRows() || len(f.names) != len(o.names) {
		return false
	}
	for i, n := range f.names {
		if o.names[i] != n {
			return false
		}
		for r := range f.cols[i] {
			if f.cols[i][r] != o.cols[i][r] {
				return false
			}
		}
	}
	return true
}

// EqualValues reports whether two frames carry the same values under their
// string rendering, ignoring cell types. Use it for text-format round trips
// (csv, json, yaml, xml) where type fidelity is not guaranteed.
func (f *Frame) EqualValues(o *Frame) bool {
	if o == nil || f.NumRows() != o.NumRows() || len(f.names) != len(o.names) {
		return false
	}
	for i, n := range f.names {
		if o.names[i] != n {
			return false
		}
		for r := range f.cols[i] {
			if FormatValue(f.cols[i][r]) != FormatValue(o.cols[i][r]) {
				return false
			}
		}
	}
	return true
}

// FormatValue renders a cell value the way text-format writers serialize it.
// nil renders as the empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// InferValue parses a textual cell into the narrowest matching Go value:
// int64, float64, bool, then string. Empty text becomes nil. Text-format
// readers use it so numeric columns come back numeric.
func InferValue(s string) any {
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if fv, err := strconv.ParseFloat(s, 64); err == nil {
		return fv
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	return s
}
