package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SHivit700/InteLect/internal/server"
	"github.com/SHivit700/InteLect/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		rt, err := newRuntime(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		if host, _ := cmd.Flags().GetString("host"); host != "" {
			rt.cfg.Server.Host = host
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			rt.cfg.Server.Port = port
		}

		svc := service.New(rt.provider, rt.cfg, rt.log)
		return server.New(svc, rt.cfg.Server, version, rt.log).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("host", "", "Listen host (overrides config)")
	serveCmd.Flags().IntP("port", "p", 0, "Listen port (overrides config)")
}
