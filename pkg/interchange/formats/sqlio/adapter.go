// Package sqlio implements the SQL table reader and writer adapters on top
// of database/sql. The *sql.DB handle is externally owned: the adapters
// never open or close it.
package sqlio

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/formatcapabilities"
	"github.com/tabio/tabio/pkg/interchange/adapter"
)

const formatID = formatcapabilities.SQL

const (
	// IfExistsFail aborts the save when the table already exists.
	IfExistsFail = "fail"
	// IfExistsReplace drops and recreates the table.
	IfExistsReplace = "replace"
	// IfExistsAppend inserts into the existing table.
	IfExistsAppend = "append"
)

var applicableTypes = []dataset.TypeID{dataset.TypeFrame, dataset.TypeRecords}

var dialects = map[string]bool{
	"sqlite":   true,
	"postgres": true,
	"mysql":    true,
}

// ApplicableTypes returns the representations the SQL adapters support,
// without requiring an instance.
func ApplicableTypes() []dataset.TypeID {
	return append([]dataset.TypeID(nil), applicableTypes...)
}

// Registration declares the SQL adapter pair for a registry.
func Registration() adapter.Registration {
	return adapter.Registration{
		Format:      formatID,
		ReaderTypes: ApplicableTypes(),
		WriterTypes: ApplicableTypes(),
		NewReader:   NewReader,
		NewWriter:   NewWriter,
	}
}

func normalizeDialect(dialect string) (string, error) {
	if dialect == "" {
		return "sqlite", nil
	}
	if !dialects[dialect] {
		return "", adapter.NewConfigurationError(formatID, "dialect", fmt.Sprintf("unknown dialect %q", dialect))
	}
	return dialect, nil
}

// Reader loads the result of a query, or of a full-table select when only a
// table name is configured.
type Reader struct {
	db    *sql.DB
	query string
	table string
}

// NewReader constructs a single-use SQL reader bound to cfg. Exactly one of
// Table or Query must be set.
func NewReader(cfg adapter.Config) (adapter.Reader, error) {
	if cfg.DB == nil {
		return nil, adapter.NewConfigurationError(formatID, "db", "required")
	}
	if cfg.Table == "" && cfg.Query == "" {
		return nil, adapter.NewConfigurationError(formatID, "table", "either table or query is required")
	}
	if cfg.Table != "" && cfg.Query != "" {
		return nil, adapter.NewConfigurationError(formatID, "table", "table and query are mutually exclusive")
	}
	query := cfg.Query
	if query == "" {
		query = fmt.Sprintf("SELECT * FROM %s", quoteIdent(cfg.Table))
	}
	return &Reader{db: cfg.DB, query: query, table: cfg.Table}, nil
}

func (r *Reader) Format() formatcapabilities.FormatID { return formatID }
func (r *Reader) ApplicableTypes() []dataset.TypeID   { return ApplicableTypes() }

// LoadingOptions returns the option map forwarded to the query call.
func (r *Reader) LoadingOptions() map[string]any {
	return map[string]any{
		"query": r.query,
	}
}

// Load performs the single query call.
func (r *Reader) Load(ctx context.Context, target dataset.TypeID) (any, adapter.ResultMetadata, error) {
	if err := adapter.CheckTarget(formatID, target, applicableTypes); err != nil {
		return nil, adapter.ResultMetadata{}, err
	}

	frame, err := r.queryFrame(ctx)
	if err != nil {
		return nil, adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "load", err)
	}

	data, err := dataset.Materialize(frame, target)
	if err != nil {
		return nil, adapter.ResultMetadata{}, err
	}
	shape, err := dataset.Describe(data)
	if err != nil {
		return nil, adapter.ResultMetadata{}, err
	}
	return data, adapter.BuildSQLResult(int64(shape.Rows), shape), nil
}

func (r *Reader) queryFrame(ctx context.Context) (*dataset.Frame, error) {
	rows, err := r.db.QueryContext(ctx, r.query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	cols := make([][]any, len(names))
	for i := range cols {
		cols[i] = []any{}
	}
	scan := make([]any, len(names))
	for rows.Next() {
		for i := range scan {
			scan[i] = new(any)
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, err
		}
		for i := range scan {
			cols[i] = append(cols[i], normalizeValue(*(scan[i].(*any))))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dataset.NewFrame(names, cols)
}

// normalizeValue maps driver-specific scan results onto the supported value
// set. Drivers disagree on byte-slice vs string for text columns.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(t)
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	case time.Time:
		return t
	default:
		return v
	}
}

// Writer saves a dataset into a table, creating it when needed.
type Writer struct {
	db       *sql.DB
	table    string
	dialect  string
	ifExists string
}

// NewWriter constructs a single-use SQL writer bound to cfg. Unknown
// dialect or if-exists policies fail here, not at Save time.
func NewWriter(cfg adapter.Config) (adapter.Writer, error) {
	if cfg.DB == nil {
		return nil, adapter.NewConfigurationError(formatID, "db", "required")
	}
	if cfg.Table == "" {
		return nil, adapter.NewConfigurationError(formatID, "table", "required")
	}
	dialect, err := normalizeDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	ifExists := cfg.IfExists
	if ifExists == "" {
		ifExists = IfExistsFail
	}
	switch ifExists {
	case IfExistsFail, IfExistsReplace, IfExistsAppend:
	default:
		return nil, adapter.NewConfigurationError(formatID, "ifExists", fmt.Sprintf("unknown policy %q", ifExists))
	}
	return &Writer{db: cfg.DB, table: cfg.Table, dialect: dialect, ifExists: ifExists}, nil
}

func (w *Writer) Format() formatcapabilities.FormatID { return formatID }
func (w *Writer) ApplicableTypes() []dataset.TypeID   { return ApplicableTypes() }

// SavingOptions returns the option map forwarded to the insert call.
func (w *Writer) SavingOptions() map[string]any {
	return map[string]any{
		"table":     w.table,
		"if_exists": w.ifExists,
	}
}

// Save performs the table write inside a single transaction.
func (w *Writer) Save(ctx context.Context, data any) (adapter.ResultMetadata, error) {
	if _, err := adapter.CheckData(formatID, data, applicableTypes); err != nil {
		return adapter.ResultMetadata{}, err
	}

	frame, err := dataset.AsFrame(data)
	if err != nil {
		return adapter.ResultMetadata{}, err
	}

	if err := w.writeFrame(ctx, frame); err != nil {
		return adapter.ResultMetadata{}, adapter.WrapCodec(formatID, "save", err)
	}

	shape, err := dataset.Describe(data)
	if err != nil {
		return adapter.ResultMetadata{}, err
	}
	return adapter.BuildSQLResult(int64(frame.NumRows()), shape), nil
}

func (w *Writer) writeFrame(ctx context.Context, frame *dataset.Frame) error {
	exists, err := w.tableExists(ctx)
	if err != nil {
		return err
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if exists {
		switch w.ifExists {
		case IfExistsFail:
			return adapter.WrapCodec(formatID, "save", fmt.Errorf("table %q already exists", w.table))
		case IfExistsReplace:
			if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s", quoteIdent(w.table))); err != nil {
				return err
			}
			exists = false
		}
	}
	if !exists {
		if _, err := tx.ExecContext(ctx, w.createStmt(frame)); err != nil {
			return err
		}
	}
	if err := w.insertRows(ctx, tx, frame); err != nil {
		return err
	}
	return tx.Commit()
}

func (w *Writer) tableExists(ctx context.Context) (bool, error) {
	var stmt string
	switch w.dialect {
	case "sqlite":
		stmt = "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?"
	case "postgres":
		stmt = "SELECT COUNT(*) FROM information_schema.tables WHERE table_name = $1"
	case "mysql":
		stmt = "SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?"
	}
	var n int
	if err := w.db.QueryRowContext(ctx, stmt, w.table).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (w *Writer) createStmt(frame *dataset.Frame) string {
	dtypes := frame.Dtypes()
	defs := make([]string, frame.NumCols())
	for i, name := range frame.Columns() {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(name), columnType(dtypes[i]))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(w.table), strings.Join(defs, ", "))
}

// columnType maps a dataset dtype onto a portable SQL column type.
func columnType(dtype string) string {
	switch dtype {
	case "int64":
		return "BIGINT"
	case "float64":
		return "DOUBLE PRECISION"
	case "bool":
		return "BOOLEAN"
	case "timestamp":
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func (w *Writer) insertRows(ctx context.Context, tx *sql.Tx, frame *dataset.Frame) error {
	names := frame.Columns()
	quoted := make([]string, len(names))
	holders := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quoteIdent(name)
		holders[i] = w.placeholder(i)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(w.table), strings.Join(quoted, ", "), strings.Join(holders, ", "))

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return err
	}
	defer prepared.Close()

	args := make([]any, len(names))
	for row := 0; row < frame.NumRows(); row++ {
		for col := range names {
			args[col] = frame.At(row, col)
		}
		if _, err := prepared.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) placeholder(i int) string {
	if w.dialect == "postgres" {
		return fmt.Sprintf("$%d", i+1)
	}
	return "?"
}

// quoteIdent double-quotes an identifier, which sqlite, postgres and mysql
// in ANSI mode all accept.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
