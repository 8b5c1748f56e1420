// Package yamlio implements the YAML reader and writer adapters on top of
// gopkg.in/yaml.v3, using row-oriented records as the document shape.
package yamlio

import (
	"context"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/formatcapabilities"
	"github.com/tabio/tabio/pkg/interchange/adapter"
)

const formatID = formatcapabilities.YAML

var applicableTypes = []dataset.TypeID{dataset.TypeFrame, dataset.TypeRecords}

// ApplicableTypes returns the representations the YAML adapters support,
// without requiring an instance.
func ApplicableTypes() []dataset.TypeID {
	return append([]dataset.TypeID(nil), applicableTypes...)
}

// Registration declares the YAML adapter pair for a registry.
func Registration() adapter.Registration {
	return adapter.Registration{
		Format:      formatID,
		ReaderTypes: ApplicableTypes(),
		WriterTypes: ApplicableTypes(),
		NewReader:   NewReader,
		NewWriter:   NewWriter,
	}
}

// Reader loads a YAML document of row records.
type Reader struct {
	path string
}

// NewReader constructs a single-use YAML reader bound to cfg.
func NewReader(cfg adapter.Config) (adapter.Reader, error) {
	if cfg.Path == "" {
		return nil, adapter.NewConfigurationError(formatID, "path", "required")
	}
	return &Reader{path: cfg.Path}, nil
}

func (r *Reader) Format() formatcapabilities.FormatID { return formatID }
func (r *Reader) ApplicableTypes() []dataset.TypeID   { return ApplicableTypes() }

// LoadingOptions returns the option map forwarded to the decode call.
// The YAML decode call takes no options.
func (r *Reader) LoadingOptions() map[string]any {
	return map[string]any{}
}

// Load performs the single decode call.
func (r *Reader) Load(ctx context.Context, target dataset.TypeID) (any, adapter.ResultMetadata, error) {
	if err := adapter.CheckTarget(formatID, target, applicableTypes); err != nil {
		return nil, adapter.ResultMetadata{}, err
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "load", err)
	}
	var records []map[string]any
	if err := yaml.Unmarshal(raw, &records); err != nil {
		return nil, adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "load", err)
	}
	normalize(records)
	names, err := columnOrder(raw)
	if err != nil {
		return nil, adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "load", err)
	}
	frame := dataset.FromRecordsOrdered(records, names)

	var data any
	if target == dataset.TypeRecords {
		data = records
	} else {
		data = frame
	}
	shape, err := dataset.Describe(frame)
	if err != nil {
		return nil, adapter.ResultMetadata{}, err
	}
	fm, err := adapter.StatFile(r.path)
	if err != nil {
		return nil, adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "load", err)
	}
	return data, adapter.BuildFileResult(fm, shape), nil
}

// normalize widens yaml's int cells to int64 so dtype labels and downstream
// adapters see one integer width.
func normalize(records []map[string]any) {
	for _, rec := range records {
		for k, v := range rec {
			if i, ok := v.(int); ok {
				rec[k] = int64(i)
			}
		}
	}
}

// columnOrder recovers the document's key order, first-seen across records.
// Maps lose it; the node tree keeps mapping entries in document order.
func columnOrder(raw []byte) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, nil
	}

	var names []string
	seen := make(map[string]struct{})
	for _, item := range doc.Content[0].Content {
		if item.Kind != yaml.MappingNode {
			continue
		}
		for i := 0; i+1 < len(item.Content); i += 2 {
			k := item.Content[i].Value
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				names = append(names, k)
			}
		}
	}
	return names, nil
}

// encodeFrame marshals the frame through a node tree whose mapping entries
// follow the frame's column order. Marshaling row maps would sort the keys.
func encodeFrame(frame *dataset.Frame) ([]byte, error) {
	names := frame.Columns()
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for r := 0; r < frame.NumRows(); r++ {
		row := &yaml.Node{Kind: yaml.MappingNode}
		for c, name := range names {
			key := &yaml.Node{}
			if err := key.Encode(name); err != nil {
				return nil, err
			}
			val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
			if cell := frame.At(r, c); cell != nil {
				val = &yaml.Node{}
				if err := val.Encode(cell); err != nil {
					return nil, err
				}
			}
			row.Content = append(row.Content, key, val)
		}
		seq.Content = append(seq.Content, row)
	}
	return yaml.Marshal(seq)
}

// Writer saves a dataset as a YAML document of row records.
type Writer struct {
	path string
}

// NewWriter constructs a single-use YAML writer bound to cfg.
func NewWriter(cfg adapter.Config) (adapter.Writer, error) {
	if cfg.Path == "" {
		return nil, adapter.NewConfigurationError(formatID, "path", "required")
	}
	return &Writer{path: cfg.Path}, nil
}

func (w *Writer) Format() formatcapabilities.FormatID { return formatID }
func (w *Writer) ApplicableTypes() []dataset.TypeID   { return ApplicableTypes() }

// SavingOptions returns the option map forwarded to the encode call.
// The YAML encode call takes no options.
func (w *Writer) SavingOptions() map[string]any {
	return map[string]any{}
}

// Save performs the single encode call: one file creation.
func (w *Writer) Save(ctx context.Context, data any) (adapter.ResultMetadata, error) {
	typ, err := adapter.CheckData(formatID, data, applicableTypes)
	if err != nil {
		return adapter.ResultMetadata{}, err
	}

	// Frames serialize through a node tree so the document keeps their column
	// order; records are unordered and marshal with sorted keys.
	var raw []byte
	if typ == dataset.TypeFrame {
		raw, err = encodeFrame(data.(*dataset.Frame))
	} else {
		raw, err = yaml.Marshal(data.([]map[string]any))
	}
	if err != nil {
		return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
	}
	if err := os.WriteFile(w.path, raw, 0o644); err != nil {
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
