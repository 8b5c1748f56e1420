// Package adapter provides the unified contract for all format adapters.
//
// This package defines the contracts that format-specific implementations must
// follow, enabling a consistent way to move fully materialized datasets in and
// out of any supported serialization format while keeping format semantics out
// of the core.
//
// # Architecture
//
//   - Reader / Writer: construct-once, use-once adapters performing exactly one
//     decode or encode call against an external codec
//   - Registration: a format's static declaration of the representations its
//     adapters produce and accept, plus factories binding a Config to a use
//   - Registry: registration-time uniqueness enforcement and O(1) dispatch by
//     (format, type)
//   - ResultMetadata: the uniform envelope every load and save returns
//
// # Usage
//
// Wire the default adapters once at start-up:
//
//	import (
//	    "github.com/tabio/tabio/pkg/interchange/adapter"
//	    "github.com/tabio/tabio/pkg/interchange/formats"
//	)
//
//	func init() {
//	    formats.MustRegisterDefaults()
//	}
//
// Then run operations through the orchestrator:
//
//	frame := dataset.MustNewFrame([]string{"foo"}, [][]any{{"bar"}})
//
//	md, err := adapter.Save(ctx, formatcapabilities.Parquet, frame, adapter.Config{
//	    Path: "out/frame.parquet",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data, md, err := adapter.Load(ctx, formatcapabilities.Parquet, dataset.TypeFrame, adapter.Config{
//	    Path: "out/frame.parquet",
//	})
//
// Database-backed adapters receive an externally owned *sql.DB; the core never
// opens or closes it:
//
//	md, err := adapter.Save(ctx, formatcapabilities.SQL, frame, adapter.Config{
//	    DB:    db,
//	    Table: "bar",
//	})
//
// # Error taxonomy
//
// All failures propagate unchanged to the caller; there is no local recovery
// and no fallback to another adapter:
//
//   - ConfigurationError: invalid construction fields, detected eagerly
//   - TypeMismatchError: representation outside ApplicableTypes, before any I/O
//   - NoAdapterFoundError / AmbiguousAdapterError: registry setup failures
//   - CodecError: external encode/decode failure, tagged with format and
//     operation
//
// Use errors.Is with the package sentinels (ErrInvalidConfiguration,
// ErrTypeMismatch, ErrNoAdapterFound, ErrAmbiguousAdapter, ErrCodec) or the
// IsX predicates to classify failures.
package adapter
