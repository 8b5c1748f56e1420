// Package formats ties the built-in format adapter packages to a registry.
package formats

import (
	"github.com/tabio/tabio/pkg/interchange/adapter"
	"github.com/tabio/tabio/pkg/interchange/formats/csvio"
	"github.com/tabio/tabio/pkg/interchange/formats/featherio"
	"github.com/tabio/tabio/pkg/interchange/formats/jsonio"
	"github.com/tabio/tabio/pkg/interchange/formats/parquetio"
	"github.com/tabio/tabio/pkg/interchange/formats/sqlio"
	"github.com/tabio/tabio/pkg/interchange/formats/xmlio"
	"github.com/tabio/tabio/pkg/interchange/formats/yamlio"
)

// Registrations returns the adapter declarations for every built-in format.
func Registrations() []adapter.Registration {
	return []adapter.Registration{
		csvio.Registration(),
		jsonio.Registration(),
		yamlio.Registration(),
		xmlio.Registration(),
		parquetio.Registration(),
		featherio.Registration(),
		sqlio.Registration(),
	}
}

// RegisterDefaults registers every built-in format adapter pair with r.
func RegisterDefaults(r *adapter.Registry) error {
	for _, reg := range Registrations() {
		if err := r.Register(reg); err != nil {
			return err
		}
	}
	return nil
}

// MustRegisterDefaults registers every built-in format adapter pair with the
// global registry and panics on conflict. Intended for program start-up.
func MustRegisterDefaults() {
	if err := RegisterDefaults(adapter.GlobalRegistry()); err != nil {
		panic(err)
	}
}
