package xmlio

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

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.xml")

	frame := dataset.MustNewFrame(
		[]string{"id", "label"},
		[][]any{
			{int64(1), int64(2)},
			{"first", "second"},
		},
	)

	w, err := NewWriter(adapter.Config{Path: path})
	require.NoError(t, err)
	meta, err := w.Save(ctx, frame)
	require.NoError(t, err)
	require.NotNil(t, meta.File)
	assert.Equal(t, 2, meta.Frame.Rows)

	r, err := NewReader(adapter.Config{Path: path})
	require.NoError(t, err)
	got, _, err := r.Load(ctx, dataset.TypeFrame)
	require.NoError(t, err)
	assert.True(t, frame.EqualValues(got.(*dataset.Frame)))
}

func TestElementNames(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.xml")

	w, err := NewWriter(adapter.Config{Path: path, RootName: "rows", RowName: "entry"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"root_name": "rows", "row_name": "entry"}, w.SavingOptions())

	frame := dataset.MustNewFrame([]string{"v"}, [][]any{{int64(1)}})
	_, err = w.Save(ctx, frame)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<rows>")
	assert.Contains(t, string(raw), "<entry>")

	// Decoding discovers the element names from the document.
	r, err := NewReader(adapter.Config{Path: path})
	require.NoError(t, err)
	got, _, err := r.Load(ctx, dataset.TypeFrame)
	require.NoError(t, err)
	assert.True(t, frame.EqualValues(got.(*dataset.Frame)))
}

func TestMalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xml")
	require.NoError(t, os.WriteFile(path, []byte("<data><row>"), 0o644))

	r, err := NewReader(adapter.Config{Path: path})
	require.NoError(t, err)
	_, _, err = r.Load(context.Background(), dataset.TypeFrame)
	assert.True(t, adapter.IsCodecError(err))
}

func TestFrameOnly(t *testing.T) {
	r, err := NewReader(adapter.Config{Path: "x.xml"})
	require.NoError(t, err)
	_, _, err = r.Load(context.Background(), dataset.TypeRecords)
	assert.True(t, adapter.IsTypeMismatch(err))
}
