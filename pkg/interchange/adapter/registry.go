package adapter

import (
	"context"
	"sync"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/formatcapabilities"
)

type registryKey struct {
	format formatcapabilities.FormatID
	role   Role
	typ    dataset.TypeID
}

// Registry manages the registration and resolution of format adapters.
// Registration happens once at start-up; after that the table is read-only
// and resolution is a direct O(1) lookup by (format, role, type).
type Registry struct {
	entries map[registryKey]Registration
	mu      sync.RWMutex
}

// NewRegistry creates a new adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[registryKey]Registration),
	}
}

// Register adds a format's adapter pair under every type it declares.
// A second adapter claiming a (format, role, type) key fails with an
// AmbiguousAdapterError and registers nothing.
func (r *Registry) Register(reg Registration) error {
	if _, ok := formatcapabilities.Get(reg.Format); !ok {
		return NewConfigurationError(reg.Format, "format", "unknown format identifier")
	}
	if reg.NewReader == nil && reg.NewWriter == nil {
		return NewConfigurationError(reg.Format, "", "registration declares neither a reader nor a writer")
	}
	if (reg.NewReader != nil) != (len(reg.ReaderTypes) > 0) {
		return NewConfigurationError(reg.Format, "readerTypes", "reader factory and applicable types must be declared together and non-empty")
	}
	if (reg.NewWriter != nil) != (len(reg.WriterTypes) > 0) {
		return NewConfigurationError(reg.Format, "writerTypes", "writer factory and applicable types must be declared together and non-empty")
	}

	keys := make([]registryKey, 0, len(reg.ReaderTypes)+len(reg.WriterTypes))
	for _, t := range reg.ReaderTypes {
		keys = append(keys, registryKey{reg.Format, RoleRead, t})
	}
	for _, t := range reg.WriterTypes {
		keys = append(keys, registryKey{reg.Format, RoleWrite, t})
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// All-or-nothing: check every key before inserting any.
	for _, k := range keys {
		if _, exists := r.entries[k]; exists {
			return NewAmbiguousAdapterError(k.format, k.role, k.typ)
		}
	}
	for _, k := range keys {
		r.entries[k] = reg
	}
	return nil
}

// MustRegister registers an adapter pair and panics on failure. Intended for
// start-up wiring where a registration error is a programming mistake.
func (r *Registry) MustRegister(reg Registration) {
	if err := r.Register(reg); err != nil {
		panic(err)
	}
}

// ResolveReader returns the unique registration whose reader produces the
// target representation for the format.
func (r *Registry) ResolveReader(format formatcapabilities.FormatID, target dataset.TypeID) (Registration, error) {
	return r.resolve(registryKey{format, RoleRead, target})
}

// ResolveWriter returns the unique registration whose writer accepts the
// representation for the format.
func (r *Registry) ResolveWriter(format formatcapabilities.FormatID, typ dataset.TypeID) (Registration, error) {
	return r.resolve(registryKey{format, RoleWrite, typ})
}

func (r *Registry) resolve(k registryKey) (Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[k]
	if !ok {
		return Registration{}, NewNoAdapterFoundError(k.format, k.role, k.typ)
	}
	return reg, nil
}

// IsRegistered checks whether any adapter serves the (format, role, type) key.
func (r *Registry) IsRegistered(format formatcapabilities.FormatID, role Role, typ dataset.TypeID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[registryKey{format, role, typ}]
	return ok
}

// RegisteredFormats returns the distinct formats with at least one adapter.
func (r *Registry) RegisteredFormats() []formatcapabilities.FormatID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[formatcapabilities.FormatID]struct{})
	formats := make([]formatcapabilities.FormatID, 0, len(r.entries))
	for k := range r.entries {
		if _, dup := seen[k.format]; dup {
			continue
		}
		seen[k.format] = struct{}{}
		formats = append(formats, k.format)
	}
	return formats
}

// Load resolves the reader for (format, target), constructs it from cfg and
// runs the single decode call. Errors propagate unchanged: configuration
// failures from construction, type mismatches before I/O, codec failures
// tagged with the format. There is no retry and no fallback to another
// adapter.
func (r *Registry) Load(ctx context.Context, format formatcapabilities.FormatID, target dataset.TypeID, cfg Config) (any, ResultMetadata, error) {
	reg, err := r.ResolveReader(format, target)
	if err != nil {
		return nil, ResultMetadata{}, err
	}

	reader, err := reg.NewReader(cfg)
	if err != nil {
		return nil, ResultMetadata{}, err
	}

	return reader.Load(ctx, target)
}

// Save derives the data's representation, resolves the writer for it,
// constructs the writer from cfg and runs the single encode call.
func (r *Registry) Save(ctx context.Context, format formatcapabilities.FormatID, data any, cfg Config) (ResultMetadata, error) {
	typ, ok := dataset.TypeOf(data)
	if !ok {
		return ResultMetadata{}, NewTypeMismatchError(format, unknownTypeID(data), nil)
	}

	reg, err := r.ResolveWriter(format, typ)
	if err != nil {
		return ResultMetadata{}, err
	}

	writer, err := reg.NewWriter(cfg)
	if err != nil {
		return ResultMetadata{}, err
	}

	return writer.Save(ctx, data)
}

// globalRegistry is the default process-wide adapter registry.
var globalRegistry = NewRegistry()

// Register registers an adapter pair in the global registry.
func Register(reg Registration) error {
	return globalRegistry.Register(reg)
}

// MustRegister registers an adapter pair in the global registry and panics on failure.
func MustRegister(reg Registration) {
	globalRegistry.MustRegister(reg)
}

// ResolveReader resolves a reader registration from the global registry.
func ResolveReader(format formatcapabilities.FormatID, target dataset.TypeID) (Registration, error) {
	return globalRegistry.ResolveReader(format, target)
}

// ResolveWriter resolves a writer registration from the global registry.
func ResolveWriter(format formatcapabilities.FormatID, typ dataset.TypeID) (Registration, error) {
	return globalRegistry.ResolveWriter(format, typ)
}

// Load runs a load through the global registry.
func Load(ctx context.Context, format formatcapabilities.FormatID, target dataset.TypeID, cfg Config) (any, ResultMetadata, error) {
	return globalRegistry.Load(ctx, format, target, cfg)
}

// Save runs a save through the global registry.
func Save(ctx context.Context, format formatcapabilities.FormatID, data any, cfg Config) (ResultMetadata, error) {
	return globalRegistry.Save(ctx, format, data, cfg)
}

// GlobalRegistry returns the global adapter registry.
func GlobalRegistry() *Registry {
	return globalRegistry
}
