package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/solowindow/internal/ipc"
)

const (
	refreshInterval = time.Second
	messageTimeout  = 3 * time.Second
)

// snapshotMsg carries one poll of the daemon.
type snapshotMsg struct {
	status *ipc.StatusData
	pins   *ipc.PinsData
	err    error
}

type tickMsg struct{}

// statusMsg is shown in the message line after an action completes.
type statusMsg struct {
	text string
}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

func fetchCmd(client Client) tea.Cmd {
	return func() tea.Msg {
		status, err := client.GetStatus()
		if err != nil {
			return snapshotMsg{err: err}
		}
		pins, err := client.ListPins()
		if err != nil {
			return snapshotMsg{err: err}
		}
		return snapshotMsg{status: status, pins: pins}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func togglePinCmd(client Client, windowID uint32) tea.Cmd {
	return func() tea.Msg {
		res, err := client.TogglePin(windowID)
		if err != nil {
			return statusMsg{text: "error: " + err.Error()}
		}
		state := "unpinned"
		if res.Pinned {
			state = "pinned"
		}
		return statusMsg{text: fmt.Sprintf("%s 0x%08x %s", state, res.WindowID, res.Caption)}
	}
}

func sweepCmd(client Client) tea.Cmd {
	return func() tea.Msg {
		res, err := client.Sweep()
		if err != nil {
			return statusMsg{text: "error: " + err.Error()}
		}
		if res.Skipped {
			return statusMsg{text: "sweep skipped (max_sweeps reached)"}
		}
		return statusMsg{text: fmt.Sprintf("sweep: %d minimized, %d restored", len(res.Minimized), len(res.Restored))}
	}
}

func reloadCmd(client Client, prefix string) tea.Cmd {
	return func() tea.Msg {
		text := "config reloaded"
		if prefix != "" {
			text = prefix + "; daemon reloaded"
		}
		if err := client.Reload(); err != nil {
			text = "reload failed: " + err.Error()
			if prefix != "" {
				text = prefix + "; " + text
			}
		}
		return statusMsg{text: text}
	}
}

// model is the root bubbletea model for the TUI.
type model struct {
	client Client

	activeTab   Tab
	pinsTab     PinsTab
	settingsTab SettingsTab

	status  *ipc.StatusData
	lastErr string
	message string

	width  int
	height int
}

func newModel(configPath string, client Client) model {
	return model{
		client:      client,
		activeTab:   TabStatus,
		pinsTab:     NewPinsTab(client),
		settingsTab: NewSettingsTab(client, configPath),
	}
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + message (1) + help bar (1)
	h := m.height - 5
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(fetchCmd(m.client), tickCmd())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		if msg.err != nil {
			m.status = nil
			m.lastErr = msg.err.Error()
			m.pinsTab.SetPins(nil)
			return m, nil
		}
		m.status = msg.status
		m.lastErr = ""
		m.pinsTab.SetPins(msg.pins.Pins)
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchCmd(m.client), tickCmd())

	case statusMsg:
		m.message = msg.text
		return m, tea.Batch(
			fetchCmd(m.client),
			tea.Tick(messageTimeout, func(time.Time) tea.Msg { return clearStatusMsg{} }),
		)

	case clearStatusMsg:
		m.message = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		m.pinsTab, _ = m.pinsTab.Update(subMsg)
		m.settingsTab, _ = m.settingsTab.Update(subMsg)
		return m, nil
	}

	// The settings form consumes keys while editing; only ctrl+c escapes.
	if m.activeTab == TabSettings && m.settingsTab.editing {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.settingsTab, cmd = m.settingsTab.Update(msg)
		return m, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabStatus
			return m, nil
		case "2":
			m.activeTab = TabPins
			return m, nil
		case "3":
			m.activeTab = TabSettings
			return m, nil
		case "s":
			return m, sweepCmd(m.client)
		case "r":
			m.settingsTab.load()
			return m, reloadCmd(m.client, "")
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case TabPins:
		m.pinsTab, cmd = m.pinsTab.Update(msg)
	case TabSettings:
		m.settingsTab, cmd = m.settingsTab.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	message := messageStyle.Width(m.width).Render(m.message)
	helpBar := renderHelpBar(m.activeTab, m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(message) + lipgloss.Height(helpBar)
	contentHeight := m.height - usedHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch m.activeTab {
	case TabPins:
		content = m.pinsTab.View()
	case TabSettings:
		content = m.settingsTab.View()
	default:
		content = renderStatusTab(m.status, m.lastErr, m.width, contentHeight)
	}
	content = lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		message,
		helpBar,
	)
}
