package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/roboco-io/larkdocx/internal/block"
	"github.com/roboco-io/larkdocx/internal/locate"
)

var (
	treeDoc   string
	treeWidth int
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print a document's block tree",
	Long: `Print every block of the document as an indented tree with its type,
id and the start of its text.

Example:
  larkdocx tree --doc doxcnXXXX`,
	RunE: runTree,
}

func init() {
	treeCmd.Flags().StringVar(&treeDoc, "doc", "", "document id")
	treeCmd.Flags().IntVar(&treeWidth, "width", 40, "maximum characters of text shown per block")
	_ = treeCmd.MarkFlagRequired("doc")

	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
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

	m, roots, err := locate.New(client, rt.log).Tree(ctx, treeDoc)
	if err != nil {
		return err
	}
	printTree(cmd.OutOrStdout(), roots, m, treeWidth)
	return nil
}

// printTree writes one line per block: indent, type key, id, text excerpt.
func printTree(w io.Writer, roots []block.Block, m block.BlockMap, width int) {
	block.Walk(roots, m, func(b block.Block, depth int) bool {
		line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", depth), b.BlockType, b.BlockID)
		if t := b.Text(); t != nil {
			if s := excerpt(t.PlainText(), width); s != "" {
				line += "  " + s
			}
		}
		fmt.Fprintln(w, line)
		return true
	})
}

func excerpt(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width]) + "…"
}
