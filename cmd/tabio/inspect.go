package main

import (
	"github.com/spf13/cobra"

	"github.com/tabio/tabio/pkg/dataset"
	"github.com/tabio/tabio/pkg/interchange/adapter"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [path]",
	Short: "Show the shape and metadata of a dataset file",
	Long: "Load a dataset file and print its result metadata envelope: transport facts plus row count, " +
		"column names and datatypes.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveFormat(fromFormat, args[0])
		if err != nil {
			return err
		}

		_, meta, err := adapter.Load(cmd.Context(), format, dataset.TypeFrame, adapter.Config{
			Path:      args[0],
			Delimiter: delimiter,
		})
		if err != nil {
			return err
		}
		return printEnvelope(meta)
	},
}

func init() {
	inspectCmd.Flags().StringVar(&fromFormat, "from", "", "File format (inferred from extension when empty)")
	inspectCmd.Flags().StringVar(&delimiter, "delimiter", "", "CSV field delimiter")
}
