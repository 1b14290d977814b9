package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/1broseidon/solowindow/internal/ipc"
)

// newClient is replaced in tests.
var newClient = func() daemonClient { return ipc.NewClient() }

type daemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	ListPins() (*ipc.PinsData, error)
	TogglePin(windowID uint32) (*ipc.TogglePinData, error)
	GetMenu(windowID uint32) (*ipc.MenuData, error)
	Sweep() (*ipc.SweepData, error)
	Reload() error
}

// parseWindowID accepts decimal or 0x-prefixed hex, as printed by xprop
// and wmctrl.
func parseWindowID(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q: %w", s, err)
	}
	return uint32(id), nil
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			status, err := newClient().GetStatus()
			if err != nil {
				return err
			}
			if format == formatJSON {
				return printJSON(cmd.OutOrStdout(), status)
			}
			return printStatusTable(cmd.OutOrStdout(), status)
		},
	}
}

func newPinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Toggle the pin on a window (default: the active window)",
		Long:  "Pinned windows are never auto-minimized. Running pin again on the same window unpins it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			raw, _ := cmd.Flags().GetString("window")
			id, err := parseWindowID(raw)
			if err != nil {
				return err
			}
			res, err := newClient().TogglePin(id)
			if err != nil {
				return err
			}
			if format == formatJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			state := "unpinned"
			if res.Pinned {
				state = "pinned"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s 0x%08x %q\n", state, res.WindowID, res.Caption)
			return nil
		},
	}
	cmd.Flags().String("window", "", "Window id (decimal or 0x hex)")
	return cmd
}

func newPinsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pins",
		Short: "List pinned windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			pins, err := newClient().ListPins()
			if err != nil {
				return err
			}
			if format == formatJSON {
				return printJSON(cmd.OutOrStdout(), pins)
			}
			return printPinsTable(cmd.OutOrStdout(), pins)
		},
	}
}

func newMenuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Show the window menu entries for a window (default: the active window)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			raw, _ := cmd.Flags().GetString("window")
			id, err := parseWindowID(raw)
			if err != nil {
				return err
			}
			menu, err := newClient().GetMenu(id)
			if err != nil {
				return err
			}
			if format == formatJSON {
				return printJSON(cmd.OutOrStdout(), menu)
			}
			return printMenuTable(cmd.OutOrStdout(), menu)
		},
	}
	cmd.Flags().String("window", "", "Window id (decimal or 0x hex)")
	return cmd
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Re-evaluate every window now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			res, err := newClient().Sweep()
			if err != nil {
				return err
			}
			if format == formatJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			return printSweepTable(cmd.OutOrStdout(), res)
		},
	}
}

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Make the daemon re-read its configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().Reload(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config reloaded")
			return nil
		},
	}
}
