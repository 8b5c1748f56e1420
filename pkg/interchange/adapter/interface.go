package adapter

import (
	"context"
	"fmt"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/formatcapabilities"
)

// Role distinguishes the two adapter variants a format can register.
type Role string

const (
	RoleRead  Role = "read"
	RoleWrite Role = "write"
)

// Reader is a construct-once, use-once adapter that performs exactly one
// decode operation for one format. Configuration is fixed at construction;
// a Reader holds no mutable cross-call state.
type Reader interface {
	// Format returns the canonical format identifier this adapter serves.
	Format() formatcapabilities.FormatID

	// ApplicableTypes returns the in-memory representations this adapter can
	// materialize. The set is a fixed property of the adapter kind, never of
	// an instance, and is always non-empty.
	ApplicableTypes() []dataset.TypeID

	// LoadingOptions returns exactly the option map forwarded to the external
	// decode call. Bookkeeping fields never appear here. Pure; performs no I/O.
	LoadingOptions() map[string]any

	// Load delegates to exactly one external decode call and materializes the
	// result as the requested representation. A target outside
	// ApplicableTypes fails with a TypeMismatchError before any I/O.
	Load(ctx context.Context, target dataset.TypeID) (any, ResultMetadata, error)
}

// Writer is a construct-once, use-once adapter that performs exactly one
// encode operation for one format.
type Writer interface {
	// Format returns the canonical format identifier this adapter serves.
	Format() formatcapabilities.FormatID

	// ApplicableTypes returns the in-memory representations this adapter
	// accepts as input. Always non-empty and fixed per adapter kind.
	ApplicableTypes() []dataset.TypeID

	// SavingOptions returns exactly the option map forwarded to the external
	// encode call. Pure; performs no I/O.
	SavingOptions() map[string]any

	// Save delegates to exactly one external encode call (one file creation
	// or one table mutation). Data whose representation is outside
	// ApplicableTypes fails with a TypeMismatchError before any I/O.
	Save(ctx context.Context, data any) (ResultMetadata, error)
}

// Registration declares a format's adapter pair to a Registry. The type sets
// are static properties of the adapter kinds; the factories bind a Config to
// a single-use adapter instance.
type Registration struct {
	// Format is the canonical format identifier (see formatcapabilities).
	Format formatcapabilities.FormatID

	// ReaderTypes are the representations the reader can produce.
	// Required and non-empty when NewReader is set.
	ReaderTypes []dataset.TypeID

	// WriterTypes are the representations the writer accepts.
	// Required and non-empty when NewWriter is set.
	WriterTypes []dataset.TypeID

	// NewReader constructs a single-use reader bound to cfg.
	// Invalid cfg fields fail here with a ConfigurationError, not at Load time.
	NewReader func(cfg Config) (Reader, error)

	// NewWriter constructs a single-use writer bound to cfg.
	NewWriter func(cfg Config) (Writer, error)
}

// CheckTarget guards a Load call: the requested representation must be one of
// the adapter's applicable types. Returns a TypeMismatchError otherwise.
func CheckTarget(format formatcapabilities.FormatID, target dataset.TypeID, supported []dataset.TypeID) error {
	for _, t := range supported {
		if t == target {
			return nil
		}
	}
	return NewTypeMismatchError(format, target, supported)
}

// CheckData guards a Save call: the value's representation must be known and
// one of the adapter's applicable types. Returns the representation's TypeID.
func CheckData(format formatcapabilities.FormatID, data any, supported []dataset.TypeID) (dataset.TypeID, error) {
	typ, ok := dataset.TypeOf(data)
	if !ok {
		return "", NewTypeMismatchError(format, unknownTypeID(data), supported)
	}
	if err := CheckTarget(format, typ, supported); err != nil {
		return "", err
	}
	return typ, nil
}

// unknownTypeID labels a value that is not a known representation, so the
// mismatch error still names what the caller passed.
func unknownTypeID(v any) dataset.TypeID {
	return dataset.TypeID(fmt.Sprintf("%T", v))
}
