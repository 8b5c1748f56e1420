package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrame(t *testing.T) {
	t.Run("valid construction", func(t *testing.T) {
		f, err := NewFrame([]string{"a", "b"}, [][]any{{int64(1), int64(2)}, {"x", "y"}})
		require.NoError(t, err)
		assert.Equal(t, 2, f.NumRows())
		assert.Equal(t, 2, f.NumCols())
		assert.Equal(t, []string{"a", "b"}, f.Columns())
	})

	t.Run("ragged columns rejected", func(t *testing.T) {
		_, err := NewFrame([]string{"a", "b"}, [][]any{{int64(1)}, {"x", "y"}})
		assert.Error(t, err)
	})

	t.Run("duplicate names rejected", func(t *testing.T) {
		_, err := NewFrame([]string{"a", "a"}, [][]any{{int64(1)}, {int64(2)}})
		assert.Error(t, err)
	})

	t.Run("name count mismatch rejected", func(t *testing.T) {
		_, err := NewFrame([]string{"a"}, [][]any{{int64(1)}, {int64(2)}})
		assert.Error(t, err)
	})
}

func TestFromRecords(t *testing.T) {
	records := []map[string]any{
		{"col2": "x", "col1": int64(1)},
		{"col1": int64(2)},
	}
	f := FromRecords(records)

	// Column order is the sorted key union; missing cells become nil.
	assert.Equal(t, []string{"col1", "col2"}, f.Columns())
	assert.Equal(t, 2, f.NumRows())
	col2, ok := f.Column("col2")
	require.True(t, ok)
	assert.Equal(t, []any{"x", nil}, col2)
}

func TestFromRecordsOrdered(t *testing.T) {
	records := []map[string]any{
		{"zeta": int64(1), "alpha": "x"},
		{"zeta": int64(2), "alpha": "y", "extra": true},
	}

	t.Run("order followed, leftovers sorted after", func(t *testing.T) {
		f := FromRecordsOrdered(records, []string{"zeta", "alpha"})
		assert.Equal(t, []string{"zeta", "alpha", "extra"}, f.Columns())
		assert.Nil(t, f.At(0, 2))
	})

	t.Run("unknown order entries dropped", func(t *testing.T) {
		f := FromRecordsOrdered(records, []string{"ghost", "alpha"})
		assert.Equal(t, []string{"alpha", "extra", "zeta"}, f.Columns())
	})
}

func TestColumnDoesNotAliasStorage(t *testing.T) {
	f := MustNewFrame([]string{"a"}, [][]any{{int64(1), int64(2)}})
	col, ok := f.Column("a")
	require.True(t, ok)
	col[0] = int64(99)
	assert.Equal(t, int64(1), f.At(0, 0))
}

func TestRecordsRoundTrip(t *testing.T) {
	f := MustNewFrame([]string{"a", "b"}, [][]any{{int64(1), int64(2)}, {"x", "y"}})
	back := FromRecords(f.Records())
	assert.True(t, f.Equal(back))
}

func TestDtypes(t *testing.T) {
	now := time.Now()
	f := MustNewFrame(
		[]string{"i", "f", "s", "b", "t", "mixed", "widened", "empty"},
		[][]any{
			{int64(1), int64(2)},
			{1.5, 2.5},
			{"x", "y"},
			{true, false},
			{now, now},
			{"x", int64(1)},
			{int64(1), 2.5},
			{nil, nil},
		},
	)
	assert.Equal(t, []string{"int64", "float64", "string", "bool", "timestamp", "object", "float64", "object"}, f.Dtypes())
}

func TestEqualValues(t *testing.T) {
	typed := MustNewFrame([]string{"n"}, [][]any{{int64(1), int64(2)}})
	text := MustNewFrame([]string{"n"}, [][]any{{"1", "2"}})

	assert.False(t, typed.Equal(text))
	assert.True(t, typed.EqualValues(text))
}

func TestInferValue(t *testing.T) {
	assert.Equal(t, int64(42), InferValue("42"))
	assert.Equal(t, 1.5, InferValue("1.5"))
	assert.Equal(t, true, InferValue("true"))
	assert.Equal(t, "bar", InferValue("bar"))
	assert.Nil(t, InferValue(""))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "42", FormatValue(int64(42)))
	assert.Equal(t, "1.5", FormatValue(1.5))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "bar", FormatValue("bar"))
}

func TestTypeOf(t *testing.T) {
	f := MustNewFrame([]string{"a"}, [][]any{{int64(1)}})

	id, ok := TypeOf(f)
	assert.True(t, ok)
	assert.Equal(t, TypeFrame, id)

	id, ok = TypeOf([]map[string]any{{"a": 1}})
	assert.True(t, ok)
	assert.Equal(t, TypeRecords, id)

	_, ok = TypeOf("not a dataset")
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	f := MustNewFrame([]string{"foo"}, [][]any{{"bar"}})

	shape, err := Describe(f)
	require.NoError(t, err)
	assert.Equal(t, 1, shape.Rows)
	assert.Equal(t, []string{"foo"}, shape.Columns)
	assert.Equal(t, []string{"string"}, shape.Dtypes)
	assert.Len(t, shape.Dtypes, len(shape.Columns))

	_, err = Describe(42)
	assert.Error(t, err)
}
