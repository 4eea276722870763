// Package cli implements the larkdocx command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	logMode    string
)

var rootCmd = &cobra.Command{
	Use:   "larkdocx",
	Short: "Build and place Feishu docx block trees",
	Long: `larkdocx builds Feishu/Lark docx blocks and places them in remote documents.

It turns digest text into callout blocks, inserts them after an anchor block
together with a dated heading, and searches a document's block tree.

Configuration: ~/.larkdocx/config.yaml (see "larkdocx config").

Environment variables:
  LARKDOCX_APP_ID       Feishu app id
  LARKDOCX_APP_SECRET   Feishu app secret
  LARKDOCX_API_KEY      API key for "larkdocx serve"
  LARKDOCX_LOG_MODE     dev or prod`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("larkdocx %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.larkdocx/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", "", "log mode: dev or prod (overrides config)")

	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by "larkdocx version".
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// commandContext returns the command's context, or a background context when
// the command was run without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
