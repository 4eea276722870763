package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roboco-io/larkdocx/internal/block"
)

var (
	editDoc   string
	editBlock string
	editText  string
	editBold  bool
	editAlign int
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Replace the text of a block",
	Long: `Replace the text elements of a textual block (text, heading, bullet, ...)
with a single run.

Example:
  larkdocx edit --doc doxcnXXXX --block doxcnYYYY --text "每日推荐" --bold --align 2`,
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editDoc, "doc", "", "document id")
	editCmd.Flags().StringVar(&editBlock, "block", "", "block id")
	editCmd.Flags().StringVar(&editText, "text", "", "new text")
	editCmd.Flags().BoolVar(&editBold, "bold", false, "make the text bold")
	editCmd.Flags().IntVar(&editAlign, "align", 0, "alignment: 1 left, 2 center, 3 right (0 keeps it)")
	_ = editCmd.MarkFlagRequired("doc")
	_ = editCmd.MarkFlagRequired("block")
	_ = editCmd.MarkFlagRequired("text")

	rootCmd.AddCommand(editCmd)
}

// editRequests builds the batch that rewrites one block.
func editRequests(blockID, text string, bold bool, align int) ([]block.UpdateRequest, error) {
	if align < 0 || align > block.AlignRight {
		return nil, fmt.Errorf("invalid alignment: %d", align)
	}
	run := block.Run(text)
	if bold {
		run = block.BoldRun(text)
	}
	var style *block.TextStyle
	if align != 0 {
		style = &block.TextStyle{Align: align}
	}
	return block.NewBatchBuilder().UpdateText(blockID, []block.TextRun{run}, style).Build(), nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	reqs, err := editRequests(editBlock, editText, editBold, editAlign)
	if err != nil {
		return err
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

	current, err := client.GetBlock(ctx, editDoc, editBlock)
	if err != nil {
		return err
	}
	if !current.BlockType.IsTextual() {
		return fmt.Errorf("%w: %s is a %s block", block.ErrNotTextual, editBlock, current.BlockType)
	}

	updated, err := client.BatchUpdate(ctx, editDoc, reqs)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "updated %d block(s)\n", len(updated))
	return nil
}
