package dataset

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ToArrow converts a Frame to an Arrow record batch. Column dtypes map to
// Arrow types (int64, float64, bool, utf8, timestamp[us, UTC]); "object"
// columns are carried as utf8 using FormatValue. The caller owns the returned
// record and must Release it.
func ToArrow(f *Frame) (arrow.Record, error) {
	dtypes := f.Dtypes()
	fields := make([]arrow.Field, f.NumCols())
	for i, name := range f.Columns() {
		fields[i] = arrow.Field{Name: name, Type: arrowType(dtypes[i]), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	for c := 0; c < f.NumCols(); c++ {
		col, _ := f.Column(f.Columns()[c])
		if err := appendColumn(b.Field(c), col); err != nil {
			return nil, fmt.Errorf("column %q: %w", f.Columns()[c], err)
		}
	}
	return b.NewRecord(), nil
}

// FromArrow converts an Arrow record batch to a Frame. Integer widths
// normalize to int64, floats to float64; unsupported Arrow types are carried
// as their string rendering.
func FromArrow(rec arrow.Record) (*Frame, error) {
	schema := rec.Schema()
	names := make([]string, schema.NumFields())
	cols := make([][]any, schema.NumFields())
	for i, field := range schema.Fields() {
		names[i] = field.Name
		col := make([]any, rec.NumRows())
		arr := rec.Column(i)
		for r := 0; r < int(rec.NumRows()); r++ {
			col[r] = arrowValue(arr, r)
		}
		cols[i] = col
	}
	return NewFrame(names, cols)
}

func arrowType(dtype string) arrow.DataType {
	switch dtype {
	case "int64":
		return arrow.PrimitiveTypes.Int64
	case "float64":
		return arrow.PrimitiveTypes.Float64
	case "bool":
		return arrow.FixedWidthTypes.Boolean
	case "timestamp":
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}
	default:
		return arrow.BinaryTypes.String
	}
}

func arrowDtypeLabel(dt arrow.DataType) string {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return "int64"
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return "float64"
	case arrow.BOOL:
		return "bool"
	case arrow.STRING, arrow.LARGE_STRING, arrow.BINARY, arrow.LARGE_BINARY:
		return "string"
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return "timestamp"
	default:
		return "object"
	}
}

func appendColumn(b array.Builder, col []any) error {
	for _, v := range col {
		if v == nil {
			b.AppendNull()
			continue
		}
		switch bld := b.(type) {
		case *array.Int64Builder:
			i, err := toInt64(v)
			if err != nil {
				return err
			}
			bld.Append(i)
		case *array.Float64Builder:
			fv, err := toFloat64(v)
			if err != nil {
				return err
			}
			bld.Append(fv)
		case *array.BooleanBuilder:
			bv, ok := v.(bool)
			if !ok {
				return fmt.Errorf("expected bool, got %T", v)
			}
			bld.Append(bv)
		case *array.TimestampBuilder:
			t, ok := v.(time.Time)
			if !ok {
				return fmt.Errorf("expected time.Time, got %T", v)
			}
			bld.Append(arrow.Timestamp(t.UTC().UnixMicro()))
		case *array.StringBuilder:
			bld.Append(FormatValue(v))
		default:
			return fmt.Errorf("unsupported builder %T", b)
		}
	}
	return nil
}

func arrowValue(arr arrow.Array, pos int) any {
	if arr.IsNull(pos) {
		return nil
	}
	switch a := arr.(type) {
	case *array.Int8:
		return int64(a.Value(pos))
	case *array.Int16:
		return int64(a.Value(pos))
	case *array.Int32:
		return int64(a.Value(pos))
	case *array.Int64:
		return a.Value(pos)
	case *array.Uint8:
		return int64(a.Value(pos))
	case *array.Uint16:
		return int64(a.Value(pos))
	case *array.Uint32:
		return int64(a.Value(pos))
	case *array.Uint64:
		return int64(a.Value(pos))
	case *array.Float32:
		return float64(a.Value(pos))
	case *array.Float64:
		return a.Value(pos)
	case *array.Boolean:
		return a.Value(pos)
	case *array.String:
		return a.Value(pos)
	case *array.LargeString:
		return a.Value(pos)
	case *array.Binary:
		return string(a.Value(pos))
	case *array.Timestamp:
		unit := arr.DataType().(*arrow.TimestampType).Unit
		return a.Value(pos).ToTime(unit).UTC()
	case *array.Date32:
		return a.Value(pos).ToTime().UTC()
	case *array.Date64:
		return a.Value(pos).ToTime().UTC()
	default:
		if vs, ok := arr.(interface{ ValueStr(int) string }); ok {
			return vs.ValueStr(pos)
		}
		return fmt.Sprintf("%v", arr)
	}
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		return int64(x), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func toFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	default:
		if i, err := toInt64(v); err == nil {
			return float64(i), nil
		}
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}
