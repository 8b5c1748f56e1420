package adapter

import (
	"os"
	"path/filepath"

	"github.com/tabio/tabio/pkg/dataset"
)

// FileMetadata describes the file transport of a completed operation.
type FileMetadata struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// SQLMetadata describes the database transport of a completed operation.
type SQLMetadata struct {
	Rows int64 `json:"rows"`
}

// FrameMetadata describes the shape of the materialized data.
// ColumnNames and Datatypes always have equal length and consistent order.
type FrameMetadata struct {
	Rows        int      `json:"rows"`
	ColumnNames []string `json:"column_names"`
	Datatypes   []string `json:"datatypes"`
}

// ResultMetadata is the uniform envelope returned alongside data by every
// load and save call. Exactly one transport partition is present, determined
// by the adapter's transport kind; the dataframe partition is always present.
type ResultMetadata struct {
	File  *FileMetadata `json:"file_metadata,omitempty"`
	SQL   *SQLMetadata  `json:"sql_metadata,omitempty"`
	Frame FrameMetadata `json:"dataframe_metadata"`
}

// BuildFileResult assembles the envelope for a file-transport operation.
// Pure function of its inputs; it performs no I/O.
func BuildFileResult(file FileMetadata, shape dataset.Shape) ResultMetadata {
	return ResultMetadata{
		File:  &file,
		Frame: frameMetadata(shape),
	}
}

// BuildSQLResult assembles the envelope for a database-transport operation.
// Pure function of its inputs; it performs no I/O.
func BuildSQLResult(rows int64, shape dataset.Shape) ResultMetadata {
	return ResultMetadata{
		SQL:   &SQLMetadata{Rows: rows},
		Frame: frameMetadata(shape),
	}
}

// StatFile resolves a path and reads its byte size. File adapters call it
// after their codec call to collect transport facts for the envelope; it is
// the only metadata helper that touches the filesystem.
func StatFile(path string) (FileMetadata, error) {
	resolved, err := filepath.Abs(path)
	if err != nil {
		return FileMetadata{}, err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return FileMetadata{}, err
	}
	return FileMetadata{Path: resolved, Size: info.Size()}, nil
}

func frameMetadata(shape dataset.Shape) FrameMetadata {
	return FrameMetadata{
		Rows:        shape.Rows,
		ColumnNames: shape.Columns,
		Datatypes:   shape.Dtypes,
	}
}
