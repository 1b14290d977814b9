package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/solowindow/internal/ipc"
)

// Tab identifies a TUI tab.
type Tab int

const (
	TabStatus Tab = iota
	TabPins
	TabSettings
	tabCount // sentinel for iteration
)

func (t Tab) String() string {
	switch t {
	case TabStatus:
		return "Status"
	case TabPins:
		return "Pins"
	case TabSettings:
		return "Settings"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(30)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Padding(0, 1)
)

// renderTabBar renders the tab bar with the given active tab and width.
func renderTabBar(active Tab, width int) string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d:%s", int(i)+1, i)
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// renderStatusBar renders the daemon connection status bar.
func renderStatusBar(status *ipc.StatusData, width int) string {
	var text string
	if status != nil && status.DaemonRunning {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{dot + " daemon connected", "policy:" + status.Policy}
		if status.Version != "" {
			parts = append(parts, "version:"+status.Version)
		}
		if status.SweepLimited {
			parts = append(parts, "sweeps exhausted")
		}
		text = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		text = dot + " daemon not running"
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(text)
}

func renderHelpBar(tab Tab, width int) string {
	help := "tab/shift-tab: switch tabs  1-3: jump  s: sweep  r: reload  q/ctrl-c: quit"
	switch tab {
	case TabPins:
		help = "enter/u: unpin selected  p: toggle active window  " + help
	case TabSettings:
		help = "e: edit settings  " + help
	}
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}

func renderStatusTab(status *ipc.StatusData, lastErr string, width, height int) string {
	if status == nil {
		msg := "waiting for daemon..."
		if lastErr != "" {
			msg = lastErr
		}
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render(msg)
	}

	rows := []struct {
		label string
		value any
	}{
		{"Uptime", fmt.Sprintf("%ds", status.UptimeSeconds)},
		{"Sweeps", status.Sweeps},
		{"Tracked windows", status.Tracked},
		{"Pinned windows", status.Pinned},
		{"Minimized by user", status.Manual},
		{"Pending intents", status.PendingIntents},
		{"Windows minimizing others", status.Causers},
		{"Windows minimized by us", status.Victims},
		{"Respect monitors", status.RespectMonitors},
		{"Respect virtual desktops", status.RespectVirtualDesktops},
		{"Respect overlap", status.RespectOverlap},
		{"Pinned windows don't minimize", status.PinnedWindowsDontMinimize},
	}
	if status.MaxSweeps > 0 {
		rows = append(rows, struct {
			label string
			value any
		}{"Max sweeps", status.MaxSweeps})
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, labelStyle.Render(r.label)+fmt.Sprint(r.value))
	}
	return lipgloss.NewStyle().Width(width).Height(height).Padding(0, 1).Render(strings.Join(lines, "\n"))
}
