package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/formatcapabilities"
	"github.com/tabio/tabio/pkg/interchange/adapter"
)

var (
	fromFormat  string
	toFormat    string
	delimiter   string
	indent      int
	compression string
	srcDriver   string
	srcTable    string
	srcQuery    string
	dstDriver   string
	dstTable    string
	ifExists    string
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert [source] [destination]",
	Short: "Convert a dataset between formats",
	Long: "Load a dataset from the source endpoint and save it to the destination endpoint. " +
		"File formats are inferred from the path extension unless overridden with --from/--to. " +
		"For SQL endpoints the positional argument is the driver DSN and --src-table, --src-query " +
		"or --dst-table select the data.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd.Context(), args[0], args[1])
	},
}

func init() {
	convertCmd.Flags().StringVar(&fromFormat, "from", "", "Source format (inferred from extension when empty)")
	convertCmd.Flags().StringVar(&toFormat, "to", "", "Destination format (inferred from extension when empty)")
	convertCmd.Flags().StringVar(&delimiter, "delimiter", "", "CSV field delimiter")
	convertCmd.Flags().IntVar(&indent, "indent", 0, "JSON indentation width")
	convertCmd.Flags().StringVar(&compression, "compression", "", "Parquet compression codec (snappy, gzip, zstd, none)")
	convertCmd.Flags().StringVar(&srcDriver, "src-driver", "sqlite", "Source SQL driver (sqlite, postgres)")
	convertCmd.Flags().StringVar(&srcTable, "src-table", "", "Source table name (SQL source)")
	convertCmd.Flags().StringVar(&srcQuery, "src-query", "", "Source query (SQL source)")
	convertCmd.Flags().StringVar(&dstDriver, "dst-driver", "sqlite", "Destination SQL driver (sqlite, postgres)")
	convertCmd.Flags().StringVar(&dstTable, "dst-table", "", "Destination table name (SQL destination)")
	convertCmd.Flags().StringVar(&ifExists, "if-exists", "", "Destination table policy (fail, replace, append)")
}

func runConvert(ctx context.Context, src, dst string) error {
	runID := uuid.New().String()
	log.WithFields(map[string]string{"run": runID}).Info("starting conversion")

	srcFormat, err := resolveFormat(fromFormat, src)
	if err != nil {
		return err
	}
	dstFormat, err := resolveFormat(toFormat, dst)
	if err != nil {
		return err
	}

	srcCfg, srcClose, err := endpointConfig(srcFormat, src, true)
	if err != nil {
		return err
	}
	defer srcClose()
	dstCfg, dstClose, err := endpointConfig(dstFormat, dst, false)
	if err != nil {
		return err
	}
	defer dstClose()

	data, loadMeta, err := adapter.Load(ctx, srcFormat, dataset.TypeFrame, srcCfg)
	if err != nil {
		return err
	}
	log.Debugf("loaded %d rows from %s", loadMeta.Frame.Rows, srcFormat)

	saveMeta, err := adapter.Save(ctx, dstFormat, data, dstCfg)
	if err != nil {
		return err
	}
	log.Debugf("saved %d rows to %s", saveMeta.Frame.Rows, dstFormat)

	return printEnvelope(map[string]any{
		"run_id": runID,
		"load":   loadMeta,
		"save":   saveMeta,
	})
}

// resolveFormat applies an explicit format override, falling back to
// extension inference.
func resolveFormat(override, path string) (formatcapabilities.FormatID, error) {
	if override != "" {
		c, ok := formatcapabilities.GetByName(override)
		if !ok {
			return "", fmt.Errorf("unknown format %q", override)
		}
		return c.ID, nil
	}
	id, ok := formatcapabilities.FromPath(path)
	if !ok {
		return "", fmt.Errorf("cannot infer format from %q, use --from/--to", path)
	}
	return id, nil
}

// endpointConfig assembles the adapter configuration for one side of the
// conversion. For SQL endpoints it opens the database handle and returns a
// closer for it.
func endpointConfig(format formatcapabilities.FormatID, arg string, source bool) (adapter.Config, func(), error) {
	noop := func() {}
	if format != formatcapabilities.SQL {
		return adapter.Config{
			Path:        arg,
			Delimiter:   delimiter,
			Indent:      indent,
			Compression: compression,
		}, noop, nil
	}

	driver := dstDriver
	if source {
		driver = srcDriver
	}
	db, err := openDatabase(driver, arg)
	if err != nil {
		return adapter.Config{}, noop, err
	}
	cfg := adapter.Config{DB: db, Dialect: driver}
	if source {
		cfg.Table = srcTable
		cfg.Query = srcQuery
	} else {
		cfg.Table = dstTable
		cfg.IfExists = ifExists
	}
	return cfg, func() { db.Close() }, nil
}

func openDatabase(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "sqlite":
		return sql.Open("sqlite", dsn)
	case "postgres":
		return sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unknown SQL driver %q", driver)
	}
}

func printEnvelope(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(raw))
	return nil
}
