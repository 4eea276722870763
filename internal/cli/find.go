package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roboco-io/larkdocx/internal/block"
	"github.com/roboco-io/larkdocx/internal/locate"
)

var (
	findDoc  string
	findText string
	findType string
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find the first block of a type containing text",
	Long: `Search the document in order and print the id of the first block of the
given type whose text contains --text. Exits non-zero when nothing matches.

The type is a catalog key (see "larkdocx types") or its number.

Examples:
  larkdocx find --doc doxcnXXXX --text 每日推荐 --type heading1
  larkdocx find --doc doxcnXXXX --text 每日推荐 --type 3`,
	RunE: runFind,
}

func init() {
	findCmd.Flags().StringVar(&findDoc, "doc", "", "document id")
	findCmd.Flags().StringVar(&findText, "text", "", "text to search for (case-sensitive)")
	findCmd.Flags().StringVar(&findType, "type", "text", "block type key or number")
	_ = findCmd.MarkFlagRequired("doc")
	_ = findCmd.MarkFlagRequired("text")

	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	t, ok := block.ParseType(findType)
	if !ok {
		return fmt.Errorf("unknown block type: %s", findType)
	}

	ctx := commandContext(cmd)
	rt, err := newAppEnv(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	client, err := rt.client("", "")
	if err != nil {
		return err
	}

	id, found, err := locate.New(client, rt.log).Find(ctx, findDoc, findText, t)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no %s block contains %q", t.Key(), findText)
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}
