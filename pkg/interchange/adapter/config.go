package adapter

import "database/sql"

// Config contains the construction parameters for a format adapter.
// This is a unified configuration that works across all formats; each adapter
// reads the fields meaningful to its codec and validates them eagerly.
// Fields that are bookkeeping (the database handle, dialect) never appear in
// the option projections forwarded to codec calls.
type Config struct {
	// File transports
	Path string `json:"path,omitempty"`

	// Database transports. DB is externally owned: adapters never open or
	// close it, and its lifetime and thread-safety are the caller's concern.
	DB       *sql.DB `json:"-"`
	Table    string  `json:"table,omitempty"`
	Query    string  `json:"query,omitempty"`
	Dialect  string  `json:"dialect,omitempty"`  // "sqlite" (default), "postgres", "mysql"
	IfExists string  `json:"ifExists,omitempty"` // "fail" (default), "replace", "append"

	// Text format options
	Delimiter string `json:"delimiter,omitempty"` // csv field separator, default ","
	Header    *bool  `json:"header,omitempty"`    // csv header row, default true
	Indent    int    `json:"indent,omitempty"`    // json indentation width, default compact
	RootName  string `json:"rootName,omitempty"`  // xml document element, default "data"
	RowName   string `json:"rowName,omitempty"`   // xml row element, default "row"

	// Columnar binary options
	Compression string `json:"compression,omitempty"` // parquet codec: "snappy" (default), "gzip", "zstd", "none"

	// Format-specific escape hatch (use sparingly)
	Options map[string]any `json:"options,omitempty"`
}

// GetBoolPtr returns a pointer to a bool value.
// Helper function for optional bool fields.
func GetBoolPtr(b bool) *bool {
	return &b
}

// GetBool returns the bool value from a pointer, or the fallback if nil.
// Helper function for optional defaulted bool fields.
func GetBool(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
