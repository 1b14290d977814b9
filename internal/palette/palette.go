// Package palette shows a one-shot selection list through an external
// dmenu-style launcher.
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// Item is a single selectable entry in a palette menu.
type Item struct {
	Label     string // Display text
	Action    string // Action identifier returned on selection
	Icon      string
	Meta      string // Hidden search keywords (rofi meta field)
	IsHeader  bool   // Non-selectable section header (bold)
	IsDivider bool   // Non-selectable divider line (dim)
	IsActive  bool   // Highlighted as current/active (rofi active row)
}

// Selectable reports whether the user can act on the item.
func (i Item) Selectable() bool {
	return !i.IsHeader && !i.IsDivider
}

// Backend shows a palette to the user and returns the selected item.
type Backend interface {
	// Show displays items and returns the one the user picked, or
	// ErrCancelled.
	Show(prompt string, items []Item, message string) (Item, error)
	Name() string
}

// backendOrder is the auto-detection priority.
var backendOrder = []string{"rofi", "dmenu"}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// NewBackend creates a backend by name. Supported names: auto, rofi, dmenu.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "auto":
		for _, candidate := range backendOrder {
			if _, err := lookPath(candidate); err == nil {
				return newBackend(candidate), nil
			}
		}
		return nil, fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(backendOrder, ", "))
	case "rofi", "dmenu":
		if _, err := lookPath(name); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", name)
		}
		return newBackend(name), nil
	default:
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(backendOrder, ", "))
	}
}

func newBackend(name string) Backend {
	if name == "rofi" {
		return NewRofiBackend()
	}
	return NewDmenuBackend()
}
