package jsonio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/interchange/adapter"
)

func TestRoundTripRecords(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")

	records := []map[string]any{
		{"name": "ada", "score": int64(10)},
		{"name": "grace", "score": int64(7)},
	}

	w, err := NewWriter(adapter.Config{Path: path})
	require.NoError(t, err)
	meta, err := w.Save(ctx, records)
	require.NoError(t, err)
	require.NotNil(t, meta.File)
	assert.Equal(t, 2, meta.Frame.Rows)
	assert.Equal(t, []string{"name", "score"}, meta.Frame.ColumnNames)

	r, err := NewReader(adapter.Config{Path: path})
	require.NoError(t, err)
	got, meta, err := r.Load(ctx, dataset.TypeRecords)
	require.NoError(t, err)
	loaded, ok := got.([]map[string]any)
	require.True(t, ok)
	require.Len(t, loaded, 2)
	assert.Equal(t, "ada", loaded[0]["name"])
	assert.Equal(t, 2, meta.Frame.Rows)
}

func TestRoundTripFrame(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")

	frame := dataset.MustNewFrame(
		[]string{"city", "pop"},
		[][]any{{"oslo", "turin"}, {float64(0.7), float64(0.9)}},
	)

	w, err := NewWriter(adapter.Config{Path: path})
	require.NoError(t, err)
	_, err = w.Save(ctx, frame)
	require.NoError(t, err)

	r, err := NewReader(adapter.Config{Path: path})
	require.NoError(t, err)
	got, _, err := r.Load(ctx, dataset.TypeFrame)
	require.NoError(t, err)
	assert.True(t, frame.EqualValues(got.(*dataset.Frame)))
}

func TestColumnOrderPreserved(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")

	frame := dataset.MustNewFrame(
		[]string{"zeta", "alpha"},
		[][]any{
			{int64(1), int64(2)},
			{"x", "y"},
		},
	)

	w, err := NewWriter(adapter.Config{Path: path})
	require.NoError(t, err)
	_, err = w.Save(ctx, frame)
	require.NoError(t, err)

	r, err := NewReader(adapter.Config{Path: path})
	require.NoError(t, err)
	got, meta, err := r.Load(ctx, dataset.TypeFrame)
	require.NoError(t, err)

	loaded := got.(*dataset.Frame)
	assert.Equal(t, []string{"zeta", "alpha"}, loaded.Columns())
	assert.Equal(t, []string{"zeta", "alpha"}, meta.Frame.ColumnNames)
	assert.True(t, frame.EqualValues(loaded))
}

func TestColumnOrderUnionAcrossRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	doc := `[{"b":1,"a":2},{"b":3,"a":4,"c":5}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	r, err := NewReader(adapter.Config{Path: path})
	require.NoError(t, err)
	got, _, err := r.Load(context.Background(), dataset.TypeFrame)
	require.NoError(t, err)

	frame := got.(*dataset.Frame)
	assert.Equal(t, []string{"b", "a", "c"}, frame.Columns())
	assert.Nil(t, frame.At(0, 2))
}

func TestIndentOption(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")

	w, err := NewWriter(adapter.Config{Path: path, Indent: 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"indent": 2}, w.SavingOptions())

	_, err = w.Save(ctx, []map[string]any{{"a": int64(1)}})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  ")
}

func TestNegativeIndentRejected(t *testing.T) {
	_, err := NewWriter(adapter.Config{Path: "x.json", Indent: -1})
	assert.True(t, adapter.IsConfigurationError(err))
}

func TestMalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	r, err := NewReader(adapter.Config{Path: path})
	require.NoError(t, err)
	_, _, err = r.Load(context.Background(), dataset.TypeFrame)
	assert.True(t, adapter.IsCodecError(err))
}
