package adapter

import (
	"errors"
	"fmt"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/formatcapabilities"
)

// Standard adapter errors
var (
	// ErrInvalidConfiguration is returned when adapter construction fields are invalid
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrTypeMismatch is returned when a representation is not in an adapter's applicable types
	ErrTypeMismatch = errors.New("representation not supported by this adapter")

	// ErrNoAdapterFound is returned when no adapter is registered for a (format, type) pair
	ErrNoAdapterFound = errors.New("no adapter found")

	// ErrAmbiguousAdapter is returned when two adapters claim the same (format, type) pair
	ErrAmbiguousAdapter = errors.New("ambiguous adapter registration")

	// ErrCodec is returned when the external encode or decode call fails
	ErrCodec = errors.New("codec failure")
)

// ConfigurationError is returned when an adapter is constructed with invalid
// or missing fields. It is detected eagerly, before any I/O.
type ConfigurationError struct {
	Format formatcapabilities.FormatID
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid configuration for %s: field '%s': %s", e.Format, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid configuration for %s: %s", e.Format, e.Reason)
}

// Is checks if the error is ErrInvalidConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return errors.Is(target, ErrInvalidConfiguration)
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(format formatcapabilities.FormatID, field, reason string) *ConfigurationError {
	return &ConfigurationError{
		Format: format,
		Field:  field,
		Reason: reason,
	}
}

// TypeMismatchError is returned when the requested or supplied in-memory
// representation is not in an adapter's applicable types. It is detected
// before any I/O is attempted.
type TypeMismatchError struct {
	Format    formatcapabilities.FormatID
	Requested dataset.TypeID
	Supported []dataset.TypeID
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	if len(e.Supported) > 0 {
		return fmt.Sprintf("%s adapter does not support representation %q (supported: %v)", e.Format, e.Requested, e.Supported)
	}
	return fmt.Sprintf("%s adapter does not support representation %q", e.Format, e.Requested)
}

// Is checks if the error is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return errors.Is(target, ErrTypeMismatch)
}

// NewTypeMismatchError creates a new TypeMismatchError.
func NewTypeMismatchError(format formatcapabilities.FormatID, requested dataset.TypeID, supported []dataset.TypeID) *TypeMismatchError {
	return &TypeMismatchError{
		Format:    format,
		Requested: requested,
		Supported: supported,
	}
}

// NoAdapterFoundError is returned when resolution finds no adapter for a
// (format, type) pair. This is a setup error, not a runtime data error.
type NoAdapterFoundError struct {
	Format formatcapabilities.FormatID
	Role   Role
	Type   dataset.TypeID
}

// Error implements the error interface.
func (e *NoAdapterFoundError) Error() string {
	return fmt.Sprintf("no %s adapter registered for format %q and representation %q", e.Role, e.Format, e.Type)
}

// Is checks if the error is ErrNoAdapterFound.
func (e *NoAdapterFoundError) Is(target error) bool {
	return errors.Is(target, ErrNoAdapterFound)
}

// NewNoAdapterFoundError creates a new NoAdapterFoundError.
func NewNoAdapterFoundError(format formatcapabilities.FormatID, role Role, typ dataset.TypeID) *NoAdapterFoundError {
	return &NoAdapterFoundError{
		Format: format,
		Role:   role,
		Type:   typ,
	}
}

// AmbiguousAdapterError is returned at registration time when a second adapter
// claims a (format, type) pair already held by another adapter. It must never
// surface at resolve time.
type AmbiguousAdapterError struct {
	Format formatcapabilities.FormatID
	Role   Role
	Type   dataset.TypeID
}

// Error implements the error interface.
func (e *AmbiguousAdapterError) Error() string {
	return fmt.Sprintf("a %s adapter for format %q and representation %q is already registered", e.Role, e.Format, e.Type)
}

// Is checks if the error is ErrAmbiguousAdapter.
func (e *AmbiguousAdapterError) Is(target error) bool {
	return errors.Is(target, ErrAmbiguousAdapter)
}

// NewAmbiguousAdapterError creates a new AmbiguousAdapterError.
func NewAmbiguousAdapterError(format formatcapabilities.FormatID, role Role, typ dataset.TypeID) *AmbiguousAdapterError {
	return &AmbiguousAdapterError{
		Format: format,
		Role:   role,
		Type:   typ,
	}
}

// CodecError wraps a failure from the external encode or decode call with the
// originating adapter's format identifier and operation kind. The cause
// propagates unchanged; the orchestrator never retries.
type CodecError struct {
	Format    formatcapabilities.FormatID
	Operation string
	Cause     error
}

// Error implements the error interface.
func (e *CodecError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Format, e.Operation, e.Cause)
}

// Unwrap returns the underlying error.
func (e *CodecError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error.
func (e *CodecError) Is(target error) bool {
	if errors.Is(target, ErrCodec) {
		return true
	}
	return errors.Is(e.Cause, target)
}

// NewCodecError creates a new CodecError.
func NewCodecError(format formatcapabilities.FormatID, operation string, cause error) *CodecError {
	return &CodecError{
		Format:    format,
		Operation: operation,
		Cause:     cause,
	}
}

// WrapCodec wraps an error with format and operation context.
// If the error is already a CodecError, it returns it as-is.
func WrapCodec(format formatcapabilities.FormatID, operation string, err error) error {
	if err == nil {
		return nil
	}

	// Don't double-wrap
	var codecErr *CodecError
	if errors.As(err, &codecErr) {
		return err
	}

	return NewCodecError(format, operation, err)
}

// IsConfigurationError checks if an error is a configuration error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// IsTypeMismatch checks if an error indicates an unsupported representation.
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

// IsCodecError checks if an error originated in an external codec call.
func IsCodecError(err error) bool {
	return errors.Is(err, ErrCodec)
}
