// Package featherio implements the Feather (Arrow IPC file) reader and
// writer adapters.
package featherio

import (
	"context"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/formatcapabilities"
	"github.com/tabio/tabio/pkg/interchange/adapter"
)

const formatID = formatcapabilities.Feather

var applicableTypes = []dataset.TypeID{dataset.TypeFrame, dataset.TypeArrow}

// ApplicableTypes returns the representations the Feather adapters support,
// without requiring an instance.
func ApplicableTypes() []dataset.TypeID {
	return append([]dataset.TypeID(nil), applicableTypes...)
}

// Registration declares the Feather adapter pair for a registry.
func Registration() adapter.Registration {
	return adapter.Registration{
		Format:      formatID,
		ReaderTypes: ApplicableTypes(),
		WriterTypes: ApplicableTypes(),
		NewReader:   NewReader,
		NewWriter:   NewWriter,
	}
}

// Reader loads an Arrow IPC file.
type Reader struct {
	path string
}

// NewReader constructs a single-use Feather reader bound to cfg.
func NewReader(cfg adapter.Config) (adapter.Reader, error) {
	if cfg.Path == "" {
		return nil, adapter.NewConfigurationError(formatID, "path", "required")
	}
	return &Reader{path: cfg.Path}, nil
}

func (r *Reader) Format() formatcapabilities.FormatID { return formatID }
func (r *Reader) ApplicableTypes() []dataset.TypeID   { return ApplicableTypes() }

// LoadingOptions returns the option map forwarded to the decode call.
func (r *Reader) LoadingOptions() map[string]any {
	return map[string]any{}
}

// Load performs the single decode call.
func (r *Reader) Load(ctx context.Context, target dataset.TypeID) (any, adapter.ResultMetadata, error) {
	if err := adapter.CheckTarget(formatID, target, applicableTypes); err != nil {
		return nil, adapter.ResultMetadata{}, err
	}

	frame, err := r.readFrame()
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

func (r *Reader) readFrame() (*dataset.Frame, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fr, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	var frames []*dataset.Frame
	for i := 0; i < fr.NumRecords(); i++ {
		rec, err := fr.Record(i)
		if err != nil {
			return nil, err
		}
		frame, err := dataset.FromArrow(rec)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		names := make([]string, fr.Schema().NumFields())
		cols := make([][]any, len(names))
		for i, field := range fr.Schema().Fields() {
			names[i] = field.Name
			cols[i] = []any{}
		}
		return dataset.NewFrame(names, cols)
	}
	return dataset.Concat(frames...)
}

// Writer saves a dataset as an Arrow IPC file.
type Writer struct {
	path string
}

// NewWriter constructs a single-use Feather writer bound to cfg.
func NewWriter(cfg adapter.Config) (adapter.Writer, error) {
	if cfg.Path == "" {
		return nil, adapter.NewConfigurationError(formatID, "path", "required")
	}
	return &Writer{path: cfg.Path}, nil
}

func (w *Writer) Format() formatcapabilities.FormatID { return formatID }
func (w *Writer) ApplicableTypes() []dataset.TypeID   { return ApplicableTypes() }

// SavingOptions returns the option map forwarded to the encode call.
func (w *Writer) SavingOptions() map[string]any {
	return map[string]any{}
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

	fw, err := ipc.NewFileWriter(f, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
	}
	if err := fw.Close(); err != nil {
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
