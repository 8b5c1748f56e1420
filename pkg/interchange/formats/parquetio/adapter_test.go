package parquetio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/interchange/adapter"
)

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.parquet")

	stamp := time.Date(2025, 11, 3, 12, 30, 0, 0, time.UTC)
	frame := dataset.MustNewFrame(
		[]string{"id", "ratio", "name", "ok", "seen"},
		[][]any{
			{int64(1), int64(2), nil},
			{float64(0.5), nil, float64(2.25)},
			{"a", "b", "c"},
			{true, false, true},
			{stamp, stamp.Add(time.Hour), nil},
		},
	)

	w, err := NewWriter(adapter.Config{Path: path})
	require.NoError(t, err)
	meta, err := w.Save(ctx, frame)
	require.NoError(t, err)
	require.NotNil(t, meta.File)
	assert.Nil(t, meta.SQL)
	assert.Equal(t, 3, meta.Frame.Rows)
	assert.Equal(t, []string{"id", "ratio", "name", "ok", "seen"}, meta.Frame.ColumnNames)

	r, err := NewReader(adapter.Config{Path: path})
	require.NoError(t, err)
	got, meta, err := r.Load(ctx, dataset.TypeFrame)
	require.NoError(t, err)
	loaded, ok := got.(*dataset.Frame)
	require.True(t, ok)
	assert.True(t, frame.Equal(loaded), "parquet round-trip must be lossless")
	assert.Equal(t, 3, meta.Frame.Rows)
}

func TestSingleCellShape(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cell.parquet")

	w, err := NewWriter(adapter.Config{Path: path})
	require.NoError(t, err)
	meta, err := w.Save(ctx, dataset.MustNewFrame([]string{"foo"}, [][]any{{"bar"}}))
	require.NoError(t, err)
	assert.Equal(t, 1, meta.Frame.Rows)
	assert.Equal(t, []string{"foo"}, meta.Frame.ColumnNames)
	assert.Equal(t, []string{"string"}, meta.Frame.Datatypes)
}

func TestArrowRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.parquet")

	frame := dataset.MustNewFrame(
		[]string{"n"},
		[][]any{{int64(1), int64(2), int64(3)}},
	)
	rec, err := dataset.ToArrow(frame)
	require.NoError(t, err)
	defer rec.Release()

	w, err := NewWriter(adapter.Config{Path: path})
	require.NoError(t, err)
	_, err = w.Save(ctx, rec)
	require.NoError(t, err)

	r, err := NewReader(adapter.Config{Path: path})
	require.NoError(t, err)
	got, _, err := r.Load(ctx, dataset.TypeArrow)
	require.NoError(t, err)

	back, err := dataset.AsFrame(got)
	require.NoError(t, err)
	assert.True(t, frame.Equal(back))
}

func TestCompressionCodecs(t *testing.T) {
	ctx := context.Background()
	frame := dataset.MustNewFrame([]string{"v"}, [][]any{{int64(1), int64(2)}})

	for _, codec := range []string{"snappy", "gzip", "zstd", "none"} {
		t.Run(codec, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.parquet")
			w, err := NewWriter(adapter.Config{Path: path, Compression: codec})
			require.NoError(t, err)
			assert.Equal(t, codec, w.SavingOptions()["compression"])
			_, err = w.Save(ctx, frame)
			require.NoError(t, err)

			r, err := NewReader(adapter.Config{Path: path})
			require.NoError(t, err)
			got, _, err := r.Load(ctx, dataset.TypeFrame)
			require.NoError(t, err)
			assert.True(t, frame.Equal(got.(*dataset.Frame)))
		})
	}
}

func TestUnknownCompressionRejected(t *testing.T) {
	_, err := NewWriter(adapter.Config{Path: "x.parquet", Compression: "lz77"})
	assert.True(t, adapter.IsConfigurationError(err))
}

func TestTypeMismatchBeforeIO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never.parquet")

	w, err := NewWriter(adapter.Config{Path: path})
	require.NoError(t, err)
	_, err = w.Save(context.Background(), []map[string]any{{"a": int64(1)}})
	assert.True(t, adapter.IsTypeMismatch(err))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
