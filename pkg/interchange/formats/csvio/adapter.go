// Package csvio implements the CSV reader and writer adapters on top of
// encoding/csv.
package csvio

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/formatcapabilities"
	"github.com/tabio/tabio/pkg/interchange/adapter"
)

const formatID = formatcapabilities.CSV

// applicableTypes is a static property of the CSV adapter kind.
var applicableTypes = []dataset.TypeID{dataset.TypeFrame, dataset.TypeRecords}

// ApplicableTypes returns the representations the CSV adapters support,
// without requiring an instance.
func ApplicableTypes() []dataset.TypeID {
	return append([]dataset.TypeID(nil), applicableTypes...)
}

// Registration declares the CSV adapter pair for a registry.
func Registration() adapter.Registration {
	return adapter.Registration{
		Format:      formatID,
		ReaderTypes: ApplicableTypes(),
		WriterTypes: ApplicableTypes(),
		NewReader:   NewReader,
		NewWriter:   NewWriter,
	}
}

func delimiter(cfg adapter.Config) (rune, error) {
	if cfg.Delimiter == "" {
		return ',', nil
	}
	runes := []rune(cfg.Delimiter)
	if len(runes) != 1 {
		return 0, adapter.NewConfigurationError(formatID, "delimiter", fmt.Sprintf("must be a single character, got %q", cfg.Delimiter))
	}
	return runes[0], nil
}

// Reader loads a CSV file into a dataset. Cell values are inferred to the
// narrowest matching type; type fidelity across a round trip is not
// guaranteed for this format.
type Reader struct {
	path   string
	comma  rune
	header bool
}

// NewReader constructs a single-use CSV reader bound to cfg.
func NewReader(cfg adapter.Config) (adapter.Reader, error) {
	if cfg.Path == "" {
		return nil, adapter.NewConfigurationError(formatID, "path", "required")
	}
	comma, err := delimiter(cfg)
	if err != nil {
		return nil, err
	}
	return &Reader{
		path:   cfg.Path,
		comma:  comma,
		header: adapter.GetBool(cfg.Header, true),
	}, nil
}

// Format returns the format identifier.
func (r *Reader) Format() formatcapabilities.FormatID {
	return formatID
}

// ApplicableTypes returns the representations this reader can materialize.
func (r *Reader) ApplicableTypes() []dataset.TypeID {
	return ApplicableTypes()
}

// LoadingOptions returns the option map forwarded to the decode call.
func (r *Reader) LoadingOptions() map[string]any {
	return map[string]any{
		"comma":  string(r.comma),
		"header": r.header,
	}
}

// Load performs the single decode call and materializes the requested
// representation.
func (r *Reader) Load(ctx context.Context, target dataset.TypeID) (any, adapter.ResultMetadata, error) {
	if err := adapter.CheckTarget(formatID, target, applicableTypes); err != nil {
		return nil, adapter.ResultMetadata{}, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "load", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = r.comma
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "load", err)
	}

	frame, err := framify(rows, r.header)
	if err != nil {
		return nil, adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "load", err)
	}

	data, err := dataset.Materialize(frame, target)
	if err != nil {
		return nil, adapter.ResultMetadata{}, err
	}
	shape, err := dataset.Describe(data)
	if err != nil {
		return nil, adapter.ResultMetadata{}, err
	}
	fm, err := adapter.StatFile(r.path)
	if err != nil {
		return nil, adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "load", err)
	}
	return data, adapter.BuildFileResult(fm, shape), nil
}

func framify(rows [][]string, header bool) (*dataset.Frame, error) {
	if len(rows) == 0 {
		return dataset.NewFrame(nil, nil)
	}

	var names []string
	if header {
		names = rows[0]
		rows = rows[1:]
	} else {
		names = make([]string, len(rows[0]))
		for i := range names {
			names[i] = fmt.Sprintf("column_%d", i)
		}
	}

	cols := make([][]any, len(names))
	for i := range cols {
		col := make([]any, len(rows))
		for r, row := range rows {
			if i >= len(row) {
				return nil, fmt.Errorf("row %d has %d fields, expected %d", r, len(row), len(names))
			}
			col[r] = dataset.InferValue(row[i])
		}
		cols[i] = col
	}
	return dataset.NewFrame(names, cols)
}

// Writer saves a dataset as a CSV file.
type Writer struct {
	path   string
	comma  rune
	header bool
}

// NewWriter constructs a single-use CSV writer bound to cfg.
func NewWriter(cfg adapter.Config) (adapter.Writer, error) {
	if cfg.Path == "" {
		return nil, adapter.NewConfigurationError(formatID, "path", "required")
	}
	comma, err := delimiter(cfg)
	if err != nil {
		return nil, err
	}
	return &Writer{
		path:   cfg.Path,
		comma:  comma,
		header: adapter.GetBool(cfg.Header, true),
	}, nil
}

// Format returns the format identifier.
func (w *Writer) Format() formatcapabilities.FormatID {
	return formatID
}

// ApplicableTypes returns the representations this writer accepts.
func (w *Writer) ApplicableTypes() []dataset.TypeID {
	return ApplicableTypes()
}

// SavingOptions returns the option map forwarded to the encode call.
func (w *Writer) SavingOptions() map[string]any {
	return map[string]any{
		"comma":  string(w.comma),
		"header": w.header,
	}
}

// Save performs the single encode call: one file creation.
func (w *Writer) Save(ctx context.Context, data any) (adapter.ResultMetadata, error) {
	if _, err := adapter.CheckData(formatID, data, applicableTypes); err != nil {
		return adapter.ResultMetadata{}, err
	}
	frame, err := dataset.AsFrame(data)
	if err != nil {
		return adapter.ResultMetadata{}, err
	}

	f, err := os.Create(w.path)
	if err != nil {
		return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	cw.Comma = w.comma
	if w.header {
		if err := cw.Write(frame.Columns()); err != nil {
			return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
		}
	}
	row := make([]string, frame.NumCols())
	for r := 0; r < frame.NumRows(); r++ {
		for c := range row {
			row[c] = dataset.FormatValue(frame.At(r, c))
		}
		if err := cw.Write(row); err != nil {
			return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
	}
	if err := f.Close(); err != nil {
		return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
	}

	shape, err := dataset.Describe(data)
	if err != nil {
		return adapter.ResultMetadata{}, err
	}
	fm, err := adapter.StatFile(w.path)
	if err != nil {
		return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
	}
	return adapter.BuildFileResult(fm, shape), nil
}
