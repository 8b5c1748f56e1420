// Package formatcapabilities provides a shared registry describing the
// serialization formats supported by tabio. The dispatch core and CLIs import
// this package to make decisions based on uniform metadata (transport kind,
// lossless contract, file extensions) without knowing format semantics.
//
// Minimal usage example:
//
//	import "github.com/tabio/tabio/pkg/formatcapabilities"
//
//	func producesFileMetadata(format string) bool {
//	    id, ok := formatcapabilities.ParseID(format)
//	    return ok && formatcapabilities.IsFileBased(id)
//	}
//
// Example: inferring the format from a target path:
//
//	if id, ok := formatcapabilities.FromPath("out/frame.parquet.gzip"); ok {
//	    // id == formatcapabilities.Parquet
//	}
package formatcapabilities
