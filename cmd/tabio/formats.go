package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tabio/tabio/pkg/formatcapabilities"
	"github.com/tabio/tabio/pkg/interchange/adapter"
)

// formatsCmd represents the formats command
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported formats",
	Long:  `Display the known formats with their transport, losslessness, file extensions and registration state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registered := make(map[formatcapabilities.FormatID]bool)
		for _, id := range adapter.GlobalRegistry().RegisteredFormats() {
			registered[id] = true
		}

		ids := formatcapabilities.IDs()
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FORMAT\tNAME\tTRANSPORT\tLOSSLESS\tEXTENSIONS\tREGISTERED")
		for _, id := range ids {
			c := formatcapabilities.MustGet(id)
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%t\n",
				c.ID, c.Name, c.Transport, c.Lossless, strings.Join(c.Extensions, ", "), registered[id])
		}
		return w.Flush()
	},
}
