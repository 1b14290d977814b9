package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/solowindow/internal/config"
	"github.com/1broseidon/solowindow/internal/ipc"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// isTerminal is replaced in tests.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// outputFormat resolves --format; "auto" picks a table on a terminal and
// JSON when piped.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	switch strings.ToLower(format) {
	case "", "auto":
		if isTerminal(cmd.OutOrStdout()) {
			return formatTable, nil
		}
		return formatJSON, nil
	case formatTable:
		return formatTable, nil
	case formatJSON:
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use auto, table or json)", format)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printStatusTable(w io.Writer, st *ipc.StatusData) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []struct {
		key   string
		value any
	}{
		{"daemon_running", st.DaemonRunning},
		{"version", st.Version},
		{"policy", st.Policy},
		{"uptime_seconds", st.UptimeSeconds},
		{"sweeps", st.Sweeps},
		{"tracked", st.Tracked},
		{"pinned", st.Pinned},
		{"manual", st.Manual},
		{"pending_intents", st.PendingIntents},
		{"causers", st.Causers},
		{"victims", st.Victims},
		{"respect_monitors", st.RespectMonitors},
		{"respect_virtual_desktops", st.RespectVirtualDesktops},
		{"respect_overlap", st.RespectOverlap},
		{"pinned_windows_dont_minimize", st.PinnedWindowsDontMinimize},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s:\t%v\n", r.key, r.value)
	}
	if st.MaxSweeps > 0 {
		fmt.Fprintf(tw, "max_sweeps:\t%d (limited: %v)\n", st.MaxSweeps, st.SweepLimited)
	}
	return tw.Flush()
}

func printPinsTable(w io.Writer, pins *ipc.PinsData) error {
	if len(pins.Pins) == 0 {
		fmt.Fprintln(w, "no pinned windows")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WINDOW\tCAPTION")
	for _, p := range pins.Pins {
		fmt.Fprintf(tw, "0x%08x\t%s\n", p.WindowID, p.Caption)
	}
	return tw.Flush()
}

func printMenuTable(w io.Writer, menu *ipc.MenuData) error {
	if len(menu.Entries) == 0 {
		fmt.Fprintf(w, "window 0x%08x has no menu entries\n", menu.WindowID)
		return nil
	}
	for _, e := range menu.Entries {
		box := ""
		if e.Checkable {
			box = "[ ] "
			if e.Checked {
				box = "[x] "
			}
		}
		fmt.Fprintf(w, "%s%s\n", box, e.Text)
	}
	return nil
}

func printSweepTable(w io.Writer, res *ipc.SweepData) error {
	if res.Skipped {
		fmt.Fprintln(w, "sweep skipped (max_sweeps reached)")
		return nil
	}
	fmt.Fprintf(w, "minimized: %s\n", formatIDs(res.Minimized))
	fmt.Fprintf(w, "restored:  %s\n", formatIDs(res.Restored))
	return nil
}

func formatIDs(ids []uint32) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("0x%08x", id)
	}
	return strings.Join(parts, " ")
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
