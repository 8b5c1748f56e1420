// Package parquetio implements the Parquet reader and writer adapters on top
// of apache/arrow-go's pqarrow bridge.
package parquetio

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/formatcapabilities"
	"github.com/tabio/tabio/pkg/interchange/adapter"
)

const formatID = formatcapabilities.Parquet

const defaultCompression = "snappy"

var applicableTypes = []dataset.TypeID{dataset.TypeFrame, dataset.TypeArrow}

// compressionCodecs is the exposed subset of parquet compression codecs.
var compressionCodecs = map[string]compress.Compression{
	"snappy": compress.Codecs.Snappy,
	"gzip":   compress.Codecs.Gzip,
	"zstd":   compress.Codecs.Zstd,
	"none":   compress.Codecs.Uncompressed,
}

// ApplicableTypes returns the representations the Parquet adapters support,
// without requiring an instance.
func ApplicableTypes() []dataset.TypeID {
	return append([]dataset.TypeID(nil), applicableTypes...)
}

// Registration declares the Parquet adapter pair for a registry.
func Registration() adapter.Registration {
	return adapter.Registration{
		Format:      formatID,
		ReaderTypes: ApplicableTypes(),
		WriterTypes: ApplicableTypes(),
		NewReader:   NewReader,
		NewWriter:   NewWriter,
	}
}

// Reader loads a Parquet file. Parquet is lossless for the supported dtypes.
type Reader struct {
	path string
}

// NewReader constructs a single-use Parquet reader bound to cfg.
func NewReader(cfg adapter.Config) (adapter.Reader, error) {
	if cfg.Path == "" {
		return nil, adapter.NewConfigurationError(formatID, "path", "required")
	}
	return &Reader{path: cfg.Path}, nil
}

func (r *Reader) Format() formatcapabilities.FormatID { return formatID }
func (r *Reader) ApplicableTypes() []dataset.TypeID   { return ApplicableTypes() }

// LoadingOptions returns the option map forwarded to the decode call.
// The whole file is read; no column or row-group selection is exposed.
func (r *Reader) LoadingOptions() map[string]any {
	return map[string]any{}
}

// Load performs the single decode call.
func (r *Reader) Load(ctx context.Context, target dataset.TypeID) (any, adapter.ResultMetadata, error) {
	if err := adapter.CheckTarget(formatID, target, applicableTypes); err != nil {
		return nil, adapter.ResultMetadata{}, err
	}

	frame, err := r.readFrame(ctx)
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

func (r *Reader) readFrame(ctx context.Context) (*dataset.Frame, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f)
	if err != nil {
		return nil, err
	}
	defer pf.Close()

	rdr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, err
	}
	table, err := rdr.ReadTable(ctx)
	if err != nil {
		return nil, err
	}
	defer table.Release()

	return tableToFrame(table)
}

func tableToFrame(table arrow.Table) (*dataset.Frame, error) {
	if table.NumRows() == 0 {
		names := make([]string, table.Schema().NumFields())
		cols := make([][]any, len(names))
		for i, field := range table.Schema().Fields() {
			names[i] = field.Name
			cols[i] = []any{}
		}
		return dataset.NewFrame(names, cols)
	}

	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()

	var frames []*dataset.Frame
	for tr.Next() {
		frame, err := dataset.FromArrow(tr.Record())
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	if err := tr.Err(); err != nil {
		return nil, err
	}
	return dataset.Concat(frames...)
}

// Writer saves a dataset as a Parquet file.
type Writer struct {
	path        string
	compression string
}

// NewWriter constructs a single-use Parquet writer bound to cfg.
// An unknown compression codec fails here, not at Save time.
func NewWriter(cfg adapter.Config) (adapter.Writer, error) {
	if cfg.Path == "" {
		return nil, adapter.NewConfigurationError(formatID, "path", "required")
	}
	compression := cfg.Compression
	if compression == "" {
		compression = defaultCompression
	}
	if _, ok := compressionCodecs[compression]; !ok {
		return nil, adapter.NewConfigurationError(formatID, "compression", fmt.Sprintf("unknown codec %q", compression))
	}
	return &Writer{path: cfg.Path, compression: compression}, nil
}

func (w *Writer) Format() formatcapabilities.FormatID { return formatID }
func (w *Writer) ApplicableTypes() []dataset.TypeID   { return ApplicableTypes() }

// SavingOptions returns the option map forwarded to the encode call.
func (w *Writer) SavingOptions() map[string]any {
	return map[string]any{
		"compression": w.compression,
	}
}

// Save performs the single encode call: one file creation.
func (w *Writer) Save(ctx context.Context, data any) (adapter.ResultMetadata, error) {
	typ, err := adapter.CheckData(formatID, data, applicableTypes)
	if err != nil {
		return adapter.ResultMetadata{}, err
	}

	var rec arrow.Record
	if typ == dataset.TypeArrow {
		rec = data.(arrow.Record)
	} else {
		frame, err := dataset.AsFrame(data)
		if err != nil {
			return adapter.ResultMetadata{}, err
		}
		rec, err = dataset.ToArrow(frame)
		if err != nil {
			return adapter.ResultMetadata{}, err
		}
		defer rec.Release()
	}

	f, err := os.Create(w.path)
	if err != nil {
		return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
	}
	defer f.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compressionCodecs[w.compression]))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	pw, err := pqarrow.NewFileWriter(rec.Schema(), f, props, arrowProps)
	if err != nil {
		return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
	}
	if err := pw.Write(rec); err != nil {
		pw.Close()
		return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
	}
	if err := pw.Close(); err != nil {
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
