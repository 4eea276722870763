package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roboco-io/larkdocx/internal/placement"
)

var (
	placeDoc     string
	placeAnchor  string
	placeHeading string
	placeFile    string
	placeFormat  string
	placeMax     int
)

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Insert digest callouts after an anchor block",
	Long: `Parse a digest and insert one callout per item right after the anchor block,
followed by a centered heading placed above them.

The digest is read from --file, or from stdin when --file is "-" or omitted.

Examples:
  larkdocx place --doc doxcnXXXX --anchor doxcnYYYY --heading 2026-10-16 --file digest.md
  cat items.json | larkdocx place --doc doxcnXXXX --anchor doxcnYYYY --heading 今日 --format json`,
	RunE: runPlace,
}

func init() {
	placeCmd.Flags().StringVar(&placeDoc, "doc", "", "document id")
	placeCmd.Flags().StringVar(&placeAnchor, "anchor", "", "anchor block id")
	placeCmd.Flags().StringVar(&placeHeading, "heading", "", "heading text (usually a date)")
	placeCmd.Flags().StringVarP(&placeFile, "file", "f", "-", "digest file (- for stdin)")
	placeCmd.Flags().StringVar(&placeFormat, "format", "markdown", "digest format: markdown or json")
	placeCmd.Flags().IntVar(&placeMax, "max-items", 0, "maximum items to place (default from config)")
	_ = placeCmd.MarkFlagRequired("doc")
	_ = placeCmd.MarkFlagRequired("anchor")

	rootCmd.AddCommand(placeCmd)
}

func runPlace(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	rt, err := newAppEnv(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	text, err := readInput(cmd.InOrStdin(), placeFile)
	if err != nil {
		return err
	}
	items, err := digestRegistry(rt.cfg).Parse(placeFormat, text)
	if err != nil {
		return fmt.Errorf("failed to parse digest: %w", err)
	}

	client, err := rt.client("", "")
	if err != nil {
		return err
	}

	opts := rt.placementOptions()
	if placeMax > 0 {
		opts.MaxItems = placeMax
	}

	ok := placement.New(client, rt.log, opts).Place(ctx, placement.Request{
		DocumentID:    placeDoc,
		AnchorBlockID: placeAnchor,
		Heading:       placeHeading,
		Items:         items,
	})
	if !ok {
		return fmt.Errorf("placement failed (see log for details)")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "placed %d of %d items\n", min(len(items), opts.MaxItems), len(items))
	return nil
}
