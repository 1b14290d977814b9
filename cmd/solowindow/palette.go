package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1broseidon/solowindow/internal/ipc"
	"github.com/1broseidon/solowindow/internal/palette"
)

const (
	actionToggle = "toggle:"
	actionSweep  = "sweep"
)

// newPaletteBackend is replaced in tests.
var newPaletteBackend = palette.NewBackend

func newPaletteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Open the window menu for the active window in rofi or dmenu",
		Long: "Shows the active window's menu entries, a sweep action and the pinned windows. " +
			"Bind it to a key in your window manager for a pointer-free window menu.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("backend")
			backend, err := newPaletteBackend(name)
			if err != nil {
				return err
			}
			return runPalette(cmd, newClient(), backend)
		},
	}
	cmd.Flags().String("backend", "auto", "Palette backend: auto, rofi, dmenu")
	return cmd
}

func runPalette(cmd *cobra.Command, client daemonClient, backend palette.Backend) error {
	menu, err := client.GetMenu(0)
	if err != nil {
		return err
	}
	pins, err := client.ListPins()
	if err != nil {
		return err
	}

	items := paletteItems(menu, pins)
	message := fmt.Sprintf("active window 0x%08x", menu.WindowID)
	selected, err := backend.Show("solowindow", items, message)
	if errors.Is(err, palette.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}
	return runPaletteAction(cmd, client, selected.Action)
}

func paletteItems(menu *ipc.MenuData, pins *ipc.PinsData) []palette.Item {
	var items []palette.Item
	for _, e := range menu.Entries {
		label := e.Text
		if e.Checkable && e.Checked {
			label = "✓ " + label
		}
		items = append(items, palette.Item{
			Label:    label,
			Action:   actionToggle + strconv.FormatUint(uint64(menu.WindowID), 10),
			Icon:     "window-pin",
			IsActive: e.Checked,
		})
	}
	items = append(items, palette.Item{Label: "Sweep now", Action: actionSweep, Icon: "view-refresh"})

	if len(pins.Pins) > 0 {
		items = append(items,
			palette.Item{Label: "────────", IsDivider: true},
			palette.Item{Label: "Pinned windows", IsHeader: true},
		)
		for _, p := range pins.Pins {
			items = append(items, palette.Item{
				Label:  "Unpin " + p.Caption,
				Action: actionToggle + strconv.FormatUint(uint64(p.WindowID), 10),
				Meta:   fmt.Sprintf("0x%x", p.WindowID),
			})
		}
	}
	return items
}

func runPaletteAction(cmd *cobra.Command, client daemonClient, action string) error {
	switch {
	case action == actionSweep:
		res, err := client.Sweep()
		if err != nil {
			return err
		}
		return printSweepTable(cmd.OutOrStdout(), res)
	case strings.HasPrefix(action, actionToggle):
		id, err := parseWindowID(strings.TrimPrefix(action, actionToggle))
		if err != nil {
			return err
		}
		res, err := client.TogglePin(id)
		if err != nil {
			return err
		}
		state := "unpinned"
		if res.Pinned {
			state = "pinned"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s 0x%08x %q\n", state, res.WindowID, res.Caption)
		return nil
	default:
		return fmt.Errorf("unknown palette action %q", action)
	}
}
