package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roboco-io/larkdocx/internal/placement"
	"github.com/roboco-io/larkdocx/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve placement and search over HTTP.

Endpoints:
  GET  /healthz
  POST /update_feishu_xiaobao
  POST /find_block

Requests from other hosts need "Authorization: Bearer <api key>"
(server.api_key or LARKDOCX_API_KEY); loopback clients are exempt.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := newAppEnv(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	addr := rt.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	if rt.cfg.Server.APIKey == "" {
		rt.log.Warn("No API key configured; only loopback clients will be served")
	}

	clients := func(appID, appSecret string) (placement.DocumentClient, error) {
		c, err := rt.client(appID, appSecret)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	srv := server.New(server.RouterConfig{
		Log:          rt.log,
		APIKey:       rt.cfg.Server.APIKey,
		AllowOrigins: rt.cfg.Server.AllowOrigins,
		DocHandler:   server.NewDocHandler(rt.log, clients, digestRegistry(rt.cfg), rt.placementOptions()),
	})
	return srv.Run(ctx, addr)
}
