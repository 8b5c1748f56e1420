package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrowRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 589000000, time.UTC)
	f := MustNewFrame(
		[]string{"i", "f", "s", "b", "t"},
		[][]any{
			{int64(1), int64(2), nil},
			{1.5, 2.5, 3.5},
			{"x", "y", "z"},
			{true, false, true},
			{ts, ts, ts},
		},
	)

	rec, err := ToArrow(f)
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, int64(3), rec.NumRows())
	assert.Equal(t, int64(5), rec.NumCols())

	back, err := FromArrow(rec)
	require.NoError(t, err)
	assert.True(t, f.Equal(back))
}

func TestArrowObjectColumnAsString(t *testing.T) {
	f := MustNewFrame([]string{"mixed"}, [][]any{{int64(1), "x"}})

	rec, err := ToArrow(f)
	require.NoError(t, err)
	defer rec.Release()

	back, err := FromArrow(rec)
	require.NoError(t, err)
	col, ok := back.Column("mixed")
	require.True(t, ok)
	assert.Equal(t, []any{"1", "x"}, col)
}

func TestDescribeArrow(t *testing.T) {
	f := MustNewFrame([]string{"foo"}, [][]any{{"bar"}})
	rec, err := ToArrow(f)
	require.NoError(t, err)
	defer rec.Release()

	shape, err := Describe(rec)
	require.NoError(t, err)
	assert.Equal(t, 1, shape.Rows)
	assert.Equal(t, []string{"foo"}, shape.Columns)
	assert.Equal(t, []string{"string"}, shape.Dtypes)
}

func TestMaterialize(t *testing.T) {
	f := MustNewFrame([]string{"a"}, [][]any{{int64(1)}})

	got, err := Materialize(f, TypeFrame)
	require.NoError(t, err)
	assert.Same(t, f, got)

	got, err = Materialize(f, TypeRecords)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"a": int64(1)}}, got)

	_, err = Materialize(f, TypeID("unknown"))
	assert.Error(t, err)
}
