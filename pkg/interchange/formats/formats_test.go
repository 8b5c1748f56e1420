package formats

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/formatcapabilities"
	"github.com/tabio/tabio/pkg/interchange/adapter"
)

func TestRegisterDefaults(t *testing.T) {
	r := adapter.NewRegistry()
	require.NoError(t, RegisterDefaults(r))

	formats := r.RegisteredFormats()
	assert.ElementsMatch(t, []formatcapabilities.FormatID{
		formatcapabilities.CSV,
		formatcapabilities.JSON,
		formatcapabilities.YAML,
		formatcapabilities.XML,
		formatcapabilities.Parquet,
		formatcapabilities.Feather,
		formatcapabilities.SQL,
	}, formats)
}

func TestDefaultsResolve(t *testing.T) {
	r := adapter.NewRegistry()
	require.NoError(t, RegisterDefaults(r))

	cases := []struct {
		format formatcapabilities.FormatID
		typ    dataset.TypeID
	}{
		{formatcapabilities.CSV, dataset.TypeFrame},
		{formatcapabilities.JSON, dataset.TypeRecords},
		{formatcapabilities.YAML, dataset.TypeRecords},
		{formatcapabilities.XML, dataset.TypeFrame},
		{formatcapabilities.Parquet, dataset.TypeArrow},
		{formatcapabilities.Feather, dataset.TypeArrow},
		{formatcapabilities.SQL, dataset.TypeRecords},
	}
	for _, tc := range cases {
		t.Run(string(tc.format), func(t *testing.T) {
			_, err := r.ResolveReader(tc.format, tc.typ)
			assert.NoError(t, err)
			_, err = r.ResolveWriter(tc.format, tc.typ)
			assert.NoError(t, err)
		})
	}
}

func TestFileFormatsRoundTripLaw(t *testing.T) {
	// Lossless formats must return the exact frame back; text formats may
	// widen or stringify cells but must agree value for value. Column order
	// is part of the contract either way.
	r := adapter.NewRegistry()
	require.NoError(t, RegisterDefaults(r))

	frame, err := dataset.NewFrame(
		[]string{"total", "label", "active"},
		[][]any{
			{int64(10), int64(20), int64(30)},
			{"a", "b", "c"},
			{true, false, true},
		},
	)
	require.NoError(t, err)

	for _, id := range formatcapabilities.IDs() {
		if !formatcapabilities.IsFileBased(id) {
			continue
		}
		t.Run(string(id), func(t *testing.T) {
			c := formatcapabilities.MustGet(id)
			path := filepath.Join(t.TempDir(), "data."+c.Extensions[0])
			cfg := adapter.Config{Path: path}

			_, err := r.Save(context.Background(), id, frame, cfg)
			require.NoError(t, err)
			loaded, _, err := r.Load(context.Background(), id, dataset.TypeFrame, cfg)
			require.NoError(t, err)

			got := loaded.(*dataset.Frame)
			assert.Equal(t, frame.Columns(), got.Columns())
			if formatcapabilities.IsLossless(id) {
				assert.True(t, frame.Equal(got), "lossless round trip changed the frame")
			} else {
				assert.True(t, frame.EqualValues(got), "round trip changed the rendered values")
			}
		})
	}
}

func TestDefaultsAreDisjoint(t *testing.T) {
	// Registering the defaults twice must trip the ambiguity guard on
	// every key, proving the first registration held them all.
	r := adapter.NewRegistry()
	require.NoError(t, RegisterDefaults(r))
	for _, reg := range Registrations() {
		err := r.Register(reg)
		assert.Error(t, err, "format %s", reg.Format)
	}
}
