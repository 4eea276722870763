package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roboco-io/larkdocx/internal/block"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the block type catalog",
	Run:   runTypes,
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

func runTypes(cmd *cobra.Command, args []string) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "TYPE\tKEY\tTEXTUAL")
	fmt.Fprintln(w, "----\t---\t-------")

	for _, t := range block.Types() {
		textual := ""
		if t.IsTextual() {
			textual = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", t.Discriminant(), t.Key(), textual)
	}
}
