package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/solowindow/internal/ipc"
)

// pinItem implements list.Item for the pinned window list.
type pinItem struct {
	id      uint32
	caption string
}

func (i pinItem) Title() string {
	return fmt.Sprintf("0x%08x  %s", i.id, i.caption)
}

func (i pinItem) Description() string { return "" }
func (i pinItem) FilterValue() string { return i.caption }

// PinsTab lists pinned windows.
type PinsTab struct {
	list   list.Model
	client Client
}

// NewPinsTab creates a new PinsTab sub-model.
func NewPinsTab(client Client) PinsTab {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Pinned windows"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return PinsTab{list: l, client: client}
}

// SetPins replaces the list contents, keeping the selection in range.
func (pt *PinsTab) SetPins(pins []ipc.PinInfo) {
	items := make([]list.Item, 0, len(pins))
	for _, p := range pins {
		items = append(items, pinItem{id: p.WindowID, caption: p.Caption})
	}
	idx := pt.list.Index()
	pt.list.SetItems(items)
	if idx >= len(items) && len(items) > 0 {
		pt.list.Select(len(items) - 1)
	}
}

// Update implements the sub-model update.
func (pt PinsTab) Update(msg tea.Msg) (PinsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pt.list.SetSize(msg.Width, msg.Height)
		return pt, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "u":
			item, ok := pt.list.SelectedItem().(pinItem)
			if !ok {
				return pt, nil
			}
			return pt, togglePinCmd(pt.client, item.id)
		case "p":
			return pt, togglePinCmd(pt.client, 0)
		}
	}

	var cmd tea.Cmd
	pt.list, cmd = pt.list.Update(msg)
	return pt, cmd
}

func (pt PinsTab) View() string {
	if len(pt.list.Items()) == 0 {
		return "  no pinned windows (press p to pin the active window)"
	}
	return pt.list.View()
}
