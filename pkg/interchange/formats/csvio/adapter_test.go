package csvio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/formatcapabilities"
	"github.com/tabio/tabio/pkg/interchange/adapter"
)

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.csv")

	frame := dataset.MustNewFrame(
		[]string{"name", "score", "active"},
		[][]any{
			{"ada", "grace"},
			{int64(10), int64(7)},
			{true, false},
		},
	)

	w, err := NewWriter(adapter.Config{Path: path})
	require.NoError(t, err)
	meta, err := w.Save(ctx, frame)
	require.NoError(t, err)
	assert.NotNil(t, meta.File)
	assert.Nil(t, meta.SQL)
	assert.Equal(t, 2, meta.Frame.Rows)
	assert.Equal(t, []string{"name", "score", "active"}, meta.Frame.ColumnNames)
	assert.Greater(t, meta.File.Size, int64(0))

	r, err := NewReader(adapter.Config{Path: path})
	require.NoError(t, err)
	got, meta, err := r.Load(ctx, dataset.TypeFrame)
	require.NoError(t, err)
	loaded, ok := got.(*dataset.Frame)
	require.True(t, ok)
	assert.True(t, frame.EqualValues(loaded))
	assert.Equal(t, 2, meta.Frame.Rows)
}

func TestDelimiterOption(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.csv")

	frame := dataset.MustNewFrame(
		[]string{"a", "b"},
		[][]any{{int64(1)}, {int64(2)}},
	)

	w, err := NewWriter(adapter.Config{Path: path, Delimiter: ";"})
	require.NoError(t, err)
	assert.Equal(t, ";", w.SavingOptions()["comma"])
	_, err = w.Save(ctx, frame)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a;b\n1;2\n", string(raw))

	r, err := NewReader(adapter.Config{Path: path, Delimiter: ";"})
	require.NoError(t, err)
	got, _, err := r.Load(ctx, dataset.TypeFrame)
	require.NoError(t, err)
	assert.True(t, frame.EqualValues(got.(*dataset.Frame)))
}

func TestHeaderlessLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,x\n2,y\n"), 0o644))

	r, err := NewReader(adapter.Config{Path: path, Header: adapter.GetBoolPtr(false)})
	require.NoError(t, err)
	got, _, err := r.Load(context.Background(), dataset.TypeFrame)
	require.NoError(t, err)

	frame := got.(*dataset.Frame)
	assert.Equal(t, []string{"column_0", "column_1"}, frame.Columns())
	assert.Equal(t, int64(1), frame.At(0, 0))
	assert.Equal(t, "y", frame.At(1, 1))
}

func TestConfigurationErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := NewReader(adapter.Config{})
		assert.True(t, adapter.IsConfigurationError(err))
	})

	t.Run("multi-rune delimiter", func(t *testing.T) {
		_, err := NewWriter(adapter.Config{Path: "x.csv", Delimiter: "ab"})
		assert.True(t, adapter.IsConfigurationError(err))
	})
}

func TestTypeMismatchBeforeIO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never.csv")

	w, err := NewWriter(adapter.Config{Path: path})
	require.NoError(t, err)
	_, err = w.Save(context.Background(), 42)
	assert.True(t, adapter.IsTypeMismatch(err))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRegistration(t *testing.T) {
	reg := Registration()
	assert.Equal(t, formatcapabilities.CSV, reg.Format)
	assert.Equal(t, ApplicableTypes(), reg.ReaderTypes)
	assert.Equal(t, ApplicableTypes(), reg.WriterTypes)
	assert.NotNil(t, reg.NewReader)
	assert.NotNil(t, reg.NewWriter)
}
