package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "solowindow",
		Short: "Keep only the windows you are working with visible",
		Long: "solowindow minimizes windows covered by the one you are using and restores them " +
			"when it moves away or closes. Run 'solowindow daemon' inside your X session and " +
			"control it with the other commands.",
		SilenceUsage: true,
	}
	root.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	root.PersistentFlags().String("config", "", "Config file path (default: ~/.config/solowindow/config.yaml)")
	root.PersistentFlags().String("format", "auto", "Output format: auto, table, json (auto: table on a terminal, json when piped)")

	root.AddCommand(
		newDaemonCmd(),
		newStatusCmd(),
		newPinCmd(),
		newPinsCmd(),
		newMenuCmd(),
		newSweepCmd(),
		newReloadCmd(),
		newPaletteCmd(),
		newTUICmd(),
		newConfigCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format == formatJSON {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"version":    Version,
					"commit":     Commit,
					"build_date": BuildDate,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "solowindow %s (commit: %s, built: %s)\n", Version, Commit, BuildDate)
			return nil
		},
	}
}
