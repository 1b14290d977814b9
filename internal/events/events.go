// Package events carries window-system notifications from the host watcher
// to the arbitration engine and serializes every engine entry point.
package events

import (
	"fmt"

	"github.com/1broseidon/solowindow/internal/platform"
)

// Kind identifies a host notification.
type Kind int

const (
	WindowAdded Kind = iota
	WindowRemoved
	WindowActivated
	MinimizedChanged
	MoveResizeFinished
	OutputChanged
	DesktopsChanged
	CurrentDesktopChanged
)

var kindNames = map[Kind]string{
	WindowAdded:           "window-added",
	WindowRemoved:         "window-removed",
	WindowActivated:       "window-activated",
	MinimizedChanged:      "minimized-changed",
	MoveResizeFinished:    "move-resize-finished",
	OutputChanged:         "output-changed",
	DesktopsChanged:       "desktops-changed",
	CurrentDesktopChanged: "current-desktop-changed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is a single host notification. Window is zero for events that are
// not about a particular window (CurrentDesktopChanged). Minimized carries
// the observed state for MinimizedChanged and is the value after the change.
type Event struct {
	Kind      Kind
	Window    platform.WindowID
	Minimized bool
	Desktop   int
}

// Handler receives events of the kind it was subscribed to.
type Handler func(Event)

// Dispatcher registers handlers for event kinds.
type Dispatcher interface {
	Subscribe(kind Kind, handler Handler)
}
