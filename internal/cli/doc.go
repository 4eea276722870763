package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	docID     string
	docTitle  string
	docFolder string
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Inspect or create documents",
	Long: `Inspect or create Feishu docx documents.

Subcommands:
  info    show document metadata
  raw     print the document's plain text
  create  create an empty document`,
}

var docInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show document metadata",
	Long: `Show the id, title and latest revision of a document.

Example:
  larkdocx doc info --doc doxcnXXXX`,
	RunE: runDocInfo,
}

var docRawCmd = &cobra.Command{
	Use:   "raw",
	Short: "Print the document's plain text",
	Long: `Print the plain text content of a document.

Example:
  larkdocx doc raw --doc doxcnXXXX > digest.txt`,
	RunE: runDocRaw,
}

var docCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an empty document",
	Long: `Create an empty document and print its id.

Without --folder the document is created in the app's root folder.

Example:
  larkdocx doc create --title 每日推荐 --folder fldcnXXXX`,
	RunE: runDocCreate,
}

func init() {
	docInfoCmd.Flags().StringVar(&docID, "doc", "", "document id")
	_ = docInfoCmd.MarkFlagRequired("doc")

	docRawCmd.Flags().StringVar(&docID, "doc", "", "document id")
	_ = docRawCmd.MarkFlagRequired("doc")

	docCreateCmd.Flags().StringVar(&docTitle, "title", "", "document title")
	docCreateCmd.Flags().StringVar(&docFolder, "folder", "", "folder token")

	docCmd.AddCommand(docInfoCmd)
	docCmd.AddCommand(docRawCmd)
	docCmd.AddCommand(docCreateCmd)

	rootCmd.AddCommand(docCmd)
}

func runDocInfo(cmd *cobra.Command, args []string) error {
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

	doc, err := client.GetDocument(ctx, docID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%s\n", doc.DocumentID)
	fmt.Fprintf(w, "TITLE\t%s\n", doc.Title)
	fmt.Fprintf(w, "REVISION\t%d\n", doc.RevisionID)
	return w.Flush()
}

func runDocRaw(cmd *cobra.Command, args []string) error {
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

	content, err := client.GetRawContent(ctx, docID)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), content)
	if !strings.HasSuffix(content, "\n") {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func runDocCreate(cmd *cobra.Command, args []string) error {
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

	doc, err := client.CreateDocument(ctx, docTitle, docFolder)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), doc.DocumentID)
	return nil
}
