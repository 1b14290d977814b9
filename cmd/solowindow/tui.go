package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/solowindow/internal/ipc"
	"github.com/1broseidon/solowindow/internal/tui"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		Long:  "Live view of the daemon's status and pinned windows, with a settings editor that saves the config file and reloads the daemon.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			return tui.Run(path, ipc.NewClient())
		},
	}
}
