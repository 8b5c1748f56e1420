package featherio

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/interchange/adapter"
)

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.feather")

	stamp := time.Date(2025, 11, 3, 12, 30, 0, 0, time.UTC)
	frame := dataset.MustNewFrame(
		[]string{"id", "name", "seen"},
		[][]any{
			{int64(1), int64(2)},
			{"a", nil},
			{stamp, stamp.Add(time.Minute)},
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
	assert.True(t, frame.Equal(got.(*dataset.Frame)), "feather round-trip must be lossless")
}

func TestArrowTarget(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.feather")

	frame := dataset.MustNewFrame(
		[]string{"x", "y"},
		[][]any{
			{float64(1.5), float64(2.5)},
			{true, false},
		},
	)

	w, err := NewWriter(adapter.Config{Path: path})
	require.NoError(t, err)
	_, err = w.Save(ctx, frame)
	require.NoError(t, err)

	r, err := NewReader(adapter.Config{Path: path})
	require.NoError(t, err)
	got, meta, err := r.Load(ctx, dataset.TypeArrow)
	require.NoError(t, err)

	rec, ok := got.(arrow.Record)
	require.True(t, ok)
	defer rec.Release()
	assert.Equal(t, int64(2), rec.NumRows())
	assert.Equal(t, 2, meta.Frame.Rows)
}

func TestMissingPath(t *testing.T) {
	_, err := NewReader(adapter.Config{})
	assert.True(t, adapter.IsConfigurationError(err))
	_, err = NewWriter(adapter.Config{})
	assert.True(t, adapter.IsConfigurationError(err))
}

func TestUnreadableFile(t *testing.T) {
	r, err := NewReader(adapter.Config{Path: filepath.Join(t.TempDir(), "absent.feather")})
	require.NoError(t, err)
	_, _, err = r.Load(context.Background(), dataset.TypeFrame)
	assert.True(t, adapter.IsCodecError(err))
}
