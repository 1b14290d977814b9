package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/solowindow/internal/logging"
	"github.com/1broseidon/solowindow/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol integration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: "Start the MCP server on stdio. Designed to be invoked by MCP clients.\n\n" +
			"The server forwards every tool call to the running daemon over its IPC socket.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol; log to stderr only.
			logger, err := logging.New("warning", "")
			if err != nil {
				return err
			}
			defer logger.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return mcp.NewServer(nil, logger.Named("mcp")).Run(ctx)
		},
	})
	return cmd
}
