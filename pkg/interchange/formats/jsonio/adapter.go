// Package jsonio implements the JSON reader and writer adapters on top of
// goccy/go-json, using row-oriented records as the document shape.
package jsonio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/formatcapabilities"
	"github.com/tabio/tabio/pkg/interchange/adapter"
)

const formatID = formatcapabilities.JSON

var applicableTypes = []dataset.TypeID{dataset.TypeFrame, dataset.TypeRecords}

// ApplicableTypes returns the representations the JSON adapters support,
// without requiring an instance.
func ApplicableTypes() []dataset.TypeID {
	return append([]dataset.TypeID(nil), applicableTypes...)
}

// Registration declares the JSON adapter pair for a registry.
func Registration() adapter.Registration {
	return adapter.Registration{
		Format:      formatID,
		ReaderTypes: ApplicableTypes(),
		WriterTypes: ApplicableTypes(),
		NewReader:   NewReader,
		NewWriter:   NewWriter,
	}
}

// Reader loads a JSON document of row records. JSON numbers decode to
// float64, so integer fidelity across a round trip is not guaranteed.
type Reader struct {
	path string
}

// NewReader constructs a single-use JSON reader bound to cfg.
func NewReader(cfg adapter.Config) (adapter.Reader, error) {
	if cfg.Path == "" {
		return nil, adapter.NewConfigurationError(formatID, "path", "required")
	}
	return &Reader{path: cfg.Path}, nil
}

func (r *Reader) Format() formatcapabilities.FormatID { return formatID }
func (r *Reader) ApplicableTypes() []dataset.TypeID   { return ApplicableTypes() }

// LoadingOptions returns the option map forwarded to the decode call.
// The JSON decode call takes no options.
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
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "load", err)
	}
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

// columnOrder recovers the document's key order, first-seen across records.
// Decoding into maps loses it, and JSON key order is part of the value-level
// round trip.
func columnOrder(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	var (
		names []string
		seen  = make(map[string]struct{})
		stack []json.Delim
		isKey []bool // meaningful where stack holds '{'
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
		case json.Delim:
			switch t {
			case '{', '[':
				stack = append(stack, t)
				isKey = append(isKey, t == '{')
			case '}', ']':
				stack = stack[:len(stack)-1]
				isKey = isKey[:len(isKey)-1]
				if n := len(stack); n > 0 && stack[n-1] == '{' {
					isKey[n-1] = true
				}
			}
		case string:
			n := len(stack)
			if n > 0 && stack[n-1] == '{' && isKey[n-1] {
				// record keys live two levels down: [ { key
				if n == 2 {
					if _, dup := seen[t]; !dup {
						seen[t] = struct{}{}
						names = append(names, t)
					}
				}
				isKey[n-1] = false
			} else if n > 0 && stack[n-1] == '{' {
				isKey[n-1] = true
			}
		default:
			if n := len(stack); n > 0 && stack[n-1] == '{' {
				isKey[n-1] = true
			}
		}
	}
	return names, nil
}

// encodeFrame writes the frame as an array of objects whose keys follow the
// frame's column order. Marshaling row maps would sort the keys instead.
func encodeFrame(frame *dataset.Frame) ([]byte, error) {
	names := frame.Columns()
	var buf bytes.Buffer
	buf.WriteByte('[')
	for r := 0; r < frame.NumRows(); r++ {
		if r > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for c, name := range names {
			if c > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(name)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			val, err := json.Marshal(frame.At(r, c))
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Writer saves a dataset as a JSON document of row records.
type Writer struct {
	path   string
	indent int
}

// NewWriter constructs a single-use JSON writer bound to cfg.
func NewWriter(cfg adapter.Config) (adapter.Writer, error) {
	if cfg.Path == "" {
		return nil, adapter.NewConfigurationError(formatID, "path", "required")
	}
	if cfg.Indent < 0 {
		return nil, adapter.NewConfigurationError(formatID, "indent", "must not be negative")
	}
	return &Writer{path: cfg.Path, indent: cfg.Indent}, nil
}

func (w *Writer) Format() formatcapabilities.FormatID { return formatID }
func (w *Writer) ApplicableTypes() []dataset.TypeID   { return ApplicableTypes() }

// SavingOptions returns the option map forwarded to the encode call.
func (w *Writer) SavingOptions() map[string]any {
	return map[string]any{
		"indent": w.indent,
	}
}

// Save performs the single encode call: one file creation.
func (w *Writer) Save(ctx context.Context, data any) (adapter.ResultMetadata, error) {
	typ, err := adapter.CheckData(formatID, data, applicableTypes)
	if err != nil {
		return adapter.ResultMetadata{}, err
	}

	// Frames serialize column by column so the document keeps their order;
	// records are unordered and marshal with sorted keys.
	var raw []byte
	if typ == dataset.TypeFrame {
		raw, err = encodeFrame(data.(*dataset.Frame))
	} else {
		raw, err = json.Marshal(data.([]map[string]any))
	}
	if err != nil {
		return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
	}
	if w.indent > 0 {
		var out bytes.Buffer
		if err := json.Indent(&out, raw, "", strings.Repeat(" ", w.indent)); err != nil {
			return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
		}
		raw = out.Bytes()
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
