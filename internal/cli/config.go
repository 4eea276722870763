package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roboco-io/larkdocx/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage larkdocx configuration.

Config file: ~/.larkdocx/config.yaml

Subcommands:
  show    show the current configuration
  init    create a default config file
  set     change a value
  path    print the config file path`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Long: `Show the configuration as stored, with ${VAR} references unexpanded.

Defaults are shown when no config file exists.`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long: `Create a default config file at ~/.larkdocx/config.yaml.

Fails if the file already exists; use --force to overwrite it.`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a configuration value",
	Long: `Change a configuration value.

Supported keys:
  placement.max_items      callouts per request (>= 1)
  placement.item_delay     pause between items (e.g. 500ms, 1s)
  placement.heading_align  1 left, 2 center, 3 right
  server.addr              listen address for "larkdocx serve"
  token_cache.backend      memory or redis
  log.mode                 dev or prod
  feishu.base_url          open platform host

Examples:
  larkdocx config set placement.max_items 5
  larkdocx config set token_cache.backend redis`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		loader, err := newLoader()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
	},
}

var configForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}

	cfg, err := loader.LoadRaw()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()
	if loader.Exists() {
		fmt.Fprintf(out, "Config file: %s\n\n", loader.ConfigPath())
	} else {
		fmt.Fprintf(out, "Config file: (defaults)\n\n")
	}

	shown := *cfg
	shown.Feishu.AppSecret = maskUnlessPlaceholder(cfg.Feishu.AppSecret)
	shown.Server.APIKey = maskUnlessPlaceholder(cfg.Server.APIKey)
	shown.TokenCache.RedisPassword = maskUnlessPlaceholder(cfg.TokenCache.RedisPassword)

	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	fmt.Fprintln(out, string(data))

	fmt.Fprintln(out, "Environment:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	envVars := []struct {
		key   string
		desc  string
		value string
	}{
		{"LARKDOCX_APP_ID", "Feishu app id", os.Getenv("LARKDOCX_APP_ID")},
		{"LARKDOCX_APP_SECRET", "Feishu app secret", maskSecret(os.Getenv("LARKDOCX_APP_SECRET"))},
		{"LARKDOCX_API_KEY", "HTTP API key", maskSecret(os.Getenv("LARKDOCX_API_KEY"))},
		{"LARKDOCX_LOG_MODE", "log mode", os.Getenv("LARKDOCX_LOG_MODE")},
	}

	for _, ev := range envVars {
		status := "(unset)"
		if ev.value != "" {
			status = ev.value
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", ev.key, ev.desc, status)
	}
	w.Flush()

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}

	if loader.Exists() && !configForce {
		return fmt.Errorf("config file already exists: %s\nuse --force to overwrite it", loader.ConfigPath())
	}

	if err := loader.Save(config.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config file created: %s\n", loader.ConfigPath())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	loader, err := newLoader()
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}

	cfg, err := loader.LoadRaw()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := setConfigValue(cfg, key, value); err != nil {
		return err
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config updated: %s = %s\n", key, value)
	return nil
}

var settableKeys = []string{
	"placement.max_items",
	"placement.item_delay",
	"placement.heading_align",
	"server.addr",
	"token_cache.backend",
	"log.mode",
	"feishu.base_url",
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "placement.max_items":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid max items: %s", value)
		}
		cfg.Placement.MaxItems = n

	case "placement.item_delay":
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid item delay: %s", value)
		}
		cfg.Placement.ItemDelay = d

	case "placement.heading_align":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 3 {
			return fmt.Errorf("heading align must be 1, 2 or 3: %s", value)
		}
		cfg.Placement.HeadingAlign = n

	case "server.addr":
		cfg.Server.Addr = value

	case "token_cache.backend":
		valid := []string{"memory", "redis"}
		if !contains(valid, value) {
			return fmt.Errorf("invalid token cache backend: %s (supported: %s)", value, strings.Join(valid, ", "))
		}
		cfg.TokenCache.Backend = value

	case "log.mode":
		valid := []string{"dev", "prod"}
		if !contains(valid, value) {
			return fmt.Errorf("invalid log mode: %s (supported: %s)", value, strings.Join(valid, ", "))
		}
		cfg.Log.Mode = value

	case "feishu.base_url":
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("base url must start with http:// or https://: %s", value)
		}
		cfg.Feishu.BaseURL = value

	default:
		return fmt.Errorf("unknown config key: %s\nsupported keys: %s", key, strings.Join(settableKeys, ", "))
	}
	return nil
}

// maskUnlessPlaceholder keeps ${VAR} references readable and masks literals.
func maskUnlessPlaceholder(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return s
	}
	return maskSecret(s)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
