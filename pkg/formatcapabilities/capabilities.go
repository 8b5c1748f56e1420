package formatcapabilities

import (
	"path/filepath"
	"strings"
)

// FormatID is the canonical identifier for a serialization format supported by tabio.
// Use these constants to look up capability information.
type FormatID string

const (
	// Tabular text
	CSV  FormatID = "csv"
	JSON FormatID = "json"
	YAML FormatID = "yaml"
	XML  FormatID = "xml"

	// Columnar binary
	Parquet FormatID = "parquet"
	Feather FormatID = "feather"

	// Databases
	SQL FormatID = "sql"
)

// Transport enumerates how a format moves data in and out of the process.
type Transport string

const (
	TransportFile     Transport = "file"     // path-based, produces file_metadata
	TransportDatabase Transport = "database" // connection-based, produces sql_metadata
)

// Capability describes what a serialization format supports in a way the
// dispatch core and callers can consume uniformly.
type Capability struct {
	// Human-friendly format name, e.g., "Apache Parquet".
	Name string `json:"name"`

	// Canonical ID used across the codebase (see FormatID constants), e.g., "parquet".
	ID FormatID `json:"id"`

	// How the format is transported (file vs. database connection).
	Transport Transport `json:"transport"`

	// Whether a write-then-read round trip preserves value types exactly.
	// Text formats carry values as strings and are only value-lossless.
	Lossless bool `json:"lossless"`

	// File extensions that map to this format, without the leading dot.
	Extensions []string `json:"extensions,omitempty"`

	// Common aliases (library names, env labels) that map to this format.
	Aliases []string `json:"aliases,omitempty"`
}

// All is a registry of capabilities keyed by the canonical format ID.
var All = map[FormatID]Capability{
	CSV: {
		Name:       "CSV",
		ID:         CSV,
		Transport:  TransportFile,
		Lossless:   false,
		Extensions: []string{"csv", "tsv"},
		Aliases:    []string{"comma-separated-values"},
	},
	JSON: {
		Name:       "JSON",
		ID:         JSON,
		Transport:  TransportFile,
		Lossless:   false,
		Extensions: []string{"json"},
	},
	YAML: {
		Name:       "YAML",
		ID:         YAML,
		Transport:  TransportFile,
		Lossless:   false,
		Extensions: []string{"yaml", "yml"},
	},
	XML: {
		Name:       "XML",
		ID:         XML,
		Transport:  TransportFile,
		Lossless:   false,
		Extensions: []string{"xml"},
	},
	Parquet: {
		Name:       "Apache Parquet",
		ID:         Parquet,
		Transport:  TransportFile,
		Lossless:   true,
		Extensions: []string{"parquet"},
		Aliases:    []string{"pq"},
	},
	Feather: {
		Name:       "Apache Arrow IPC",
		ID:         Feather,
		Transport:  TransportFile,
		Lossless:   true,
		Extensions: []string{"feather", "arrow"},
		Aliases:    []string{"ipc", "arrow-ipc"},
	},
	SQL: {
		Name:      "SQL",
		ID:        SQL,
		Transport: TransportDatabase,
		Lossless:  true,
		Aliases:   []string{"database", "db"},
	},
}

// nameToID is a normalized lookup index from any known name/alias to the canonical FormatID.
var nameToID map[string]FormatID

// extToID maps file extensions (without the leading dot) to the canonical FormatID.
var extToID map[string]FormatID

func init() {
	nameToID = make(map[string]FormatID, len(All)*2)
	extToID = make(map[string]FormatID, len(All)*2)
	for id, cap := range All {
		nameToID[strings.ToLower(string(id))] = id
		if cap.Name != "" {
			nameToID[strings.ToLower(cap.Name)] = id
		}
		for _, a := range cap.Aliases {
			if a == "" {
				continue
			}
			nameToID[strings.ToLower(a)] = id
		}
		for _, e := range cap.Extensions {
			extToID[strings.ToLower(e)] = id
		}
	}
}

// Get returns the Capability for a canonical format ID.
func Get(id FormatID) (Capability, bool) {
	cap, ok := All[id]
	return cap, ok
}

// MustGet returns the Capability for a canonical format ID or panics if unknown.
func MustGet(id FormatID) Capability {
	cap, ok := Get(id)
	if !ok {
		panic("formatcapabilities: unknown format id: " + string(id))
	}
	return cap
}

// ParseID attempts to resolve an arbitrary format name (canonical id, alias, or
// product name) to a canonical FormatID. Returns false if unknown.
func ParseID(name string) (FormatID, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "", false
	}
	id, ok := nameToID[n]
	return id, ok
}

// GetByName returns the Capability by looking up using a free-form name (id or alias).
func GetByName(name string) (Capability, bool) {
	if id, ok := ParseID(name); ok {
		return Get(id)
	}
	return Capability{}, false
}

// FromPath infers the format from a file path's extension.
// Compression suffixes (.gz, .gzip, .zst, .snappy) are skipped, so
// "frame.parquet.gzip" resolves to Parquet.
func FromPath(path string) (FormatID, bool) {
	for base := path; base != ""; {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
		if ext == "" {
			return "", false
		}
		switch ext {
		case "gz", "gzip", "zst", "snappy", "bz2":
			base = strings.TrimSuffix(base, filepath.Ext(base))
			continue
		}
		id, ok := extToID[ext]
		return id, ok
	}
	return "", false
}

// IsFileBased reports whether the format reads and writes through a filesystem path.
func IsFileBased(id FormatID) bool {
	cap, ok := Get(id)
	return ok && cap.Transport == TransportFile
}

// IsLossless reports whether a write-then-read round trip preserves value types.
func IsLossless(id FormatID) bool {
	cap, ok := Get(id)
	return ok && cap.Lossless
}

// IDs returns all canonical format IDs in the registry.
func IDs() []FormatID {
	ids := make([]FormatID, 0, len(All))
	for id := range All {
		ids = append(ids, id)
	}
	return ids
}
