// Package tui implements the interactive dashboard for a running daemon.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/solowindow/internal/config"
	"github.com/1broseidon/solowindow/internal/ipc"
)

// Client is the subset of the daemon IPC client the dashboard uses.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
	ListPins() (*ipc.PinsData, error)
	TogglePin(windowID uint32) (*ipc.TogglePinData, error)
	Sweep() (*ipc.SweepData, error)
	Reload() error
}

// Run starts the dashboard. configPath may be empty for the default path.
func Run(configPath string, client Client) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if configPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		configPath = p
	}
	if client == nil {
		client = ipc.NewClient()
	}

	_, err := tea.NewProgram(newModel(configPath, client), tea.WithAltScreen()).Run()
	return err
}
