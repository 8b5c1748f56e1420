// Package xmlio implements the XML reader and writer adapters on top of
// encoding/xml token streaming. Documents have the shape
// <data><row><col>value</col>...</row>...</data>.
package xmlio

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/formatcapabilities"
	"github.com/tabio/tabio/pkg/interchange/adapter"
)

const formatID = formatcapabilities.XML

const (
	defaultRootName = "data"
	defaultRowName  = "row"
)

var applicableTypes = []dataset.TypeID{dataset.TypeFrame}

// ApplicableTypes returns the representations the XML adapters support,
// without requiring an instance.
func ApplicableTypes() []dataset.TypeID {
	return append([]dataset.TypeID(nil), applicableTypes...)
}

// Registration declares the XML adapter pair for a registry.
func Registration() adapter.Registration {
	return adapter.Registration{
		Format:      formatID,
		ReaderTypes: ApplicableTypes(),
		WriterTypes: ApplicableTypes(),
		NewReader:   NewReader,
		NewWriter:   NewWriter,
	}
}

// Reader loads an XML document of row elements. The element names of the
// first occurrence order the columns; cell text is inferred to the narrowest
// matching type.
type Reader struct {
	path string
}

// NewReader constructs a single-use XML reader bound to cfg.
func NewReader(cfg adapter.Config) (adapter.Reader, error) {
	if cfg.Path == "" {
		return nil, adapter.NewConfigurationError(formatID, "path", "required")
	}
	return &Reader{path: cfg.Path}, nil
}

func (r *Reader) Format() formatcapabilities.FormatID { return formatID }
func (r *Reader) ApplicableTypes() []dataset.TypeID   { return ApplicableTypes() }

// LoadingOptions returns the option map forwarded to the decode call.
// The XML decode call takes no options; root and row element names are
// discovered from the document.
func (r *Reader) LoadingOptions() map[string]any {
	return map[string]any{}
}

// Load performs the single decode call.
func (r *Reader) Load(ctx context.Context, target dataset.TypeID) (any, adapter.ResultMetadata, error) {
	if err := adapter.CheckTarget(formatID, target, applicableTypes); err != nil {
		return nil, adapter.ResultMetadata{}, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "load", err)
	}
	defer f.Close()

	frame, err := decode(f)
	if err != nil {
		return nil, adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "load", err)
	}

	shape, err := dataset.Describe(frame)
	if err != nil {
		return nil, adapter.ResultMetadata{}, err
	}
	fm, err := adapter.StatFile(r.path)
	if err != nil {
		return nil, adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "load", err)
	}
	return frame, adapter.BuildFileResult(fm, shape), nil
}

func decode(src io.Reader) (*dataset.Frame, error) {
	dec := xml.NewDecoder(src)

	var (
		names   []string
		seen    = make(map[string]struct{})
		records []map[string]any
		current map[string]any
		field   string
		text    strings.Builder
		depth   int
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 2:
				current = make(map[string]any)
			case 3:
				field = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if depth == 3 {
				text.Write(t)
			}
		case xml.EndElement:
			switch depth {
			case 3:
				if _, dup := seen[field]; !dup {
					seen[field] = struct{}{}
					names = append(names, field)
				}
				current[field] = dataset.InferValue(strings.TrimSpace(text.String()))
			case 2:
				records = append(records, current)
			}
			depth--
		}
	}

	cols := make([][]any, len(names))
	for i, name := range names {
		col := make([]any, len(records))
		for r, rec := range records {
			col[r] = rec[name]
		}
		cols[i] = col
	}
	return dataset.NewFrame(names, cols)
}

// Writer saves a dataset as an XML document of row elements.
type Writer struct {
	path string
	root string
	row  string
}

// NewWriter constructs a single-use XML writer bound to cfg.
func NewWriter(cfg adapter.Config) (adapter.Writer, error) {
	if cfg.Path == "" {
		return nil, adapter.NewConfigurationError(formatID, "path", "required")
	}
	root := cfg.RootName
	if root == "" {
		root = defaultRootName
	}
	row := cfg.RowName
	if row == "" {
		row = defaultRowName
	}
	return &Writer{path: cfg.Path, root: root, row: row}, nil
}

func (w *Writer) Format() formatcapabilities.FormatID { return formatID }
func (w *Writer) ApplicableTypes() []dataset.TypeID   { return ApplicableTypes() }

// SavingOptions returns the option map forwarded to the encode call.
func (w *Writer) SavingOptions() map[string]any {
	return map[string]any{
		"root_name": w.root,
		"row_name":  w.row,
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

	if err := w.encode(f, frame); err != nil {
		return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
	}
	if err := f.Close(); err != nil {
		return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
	}

	shape, err := dataset.Describe(frame)
	if err != nil {
		return adapter.ResultMetadata{}, err
	}
	fm, err := adapter.StatFile(w.path)
	if err != nil {
		return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
	}
	return adapter.BuildFileResult(fm, shape), nil
}

func (w *Writer) encode(dst io.Writer, frame *dataset.Frame) error {
	enc := xml.NewEncoder(dst)
	enc.Indent("", "  ")

	names := frame.Columns()
	root := xml.StartElement{Name: xml.Name{Local: w.root}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	for r := 0; r < frame.NumRows(); r++ {
		row := xml.StartElement{Name: xml.Name{Local: w.row}}
		if err := enc.EncodeToken(row); err != nil {
			return err
		}
		for c, name := range names {
			cell := xml.StartElement{Name: xml.Name{Local: name}}
			if err := enc.EncodeToken(cell); err != nil {
				return err
			}
			if err := enc.EncodeToken(xml.CharData(dataset.FormatValue(frame.At(r, c)))); err != nil {
				return err
			}
			if err := enc.EncodeToken(cell.End()); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(row.End()); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	return enc.Flush()
}
