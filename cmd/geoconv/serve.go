package main

import (
	"os/signal"
	"syscall"

	"github.com/kass/geoconv/pkg/gzd"
	"github.com/kass/geoconv/pkg/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the detection and conversion HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = serveAddr
		}
		return server.New(cfg.Server, converter(), gzd.Default()).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}
