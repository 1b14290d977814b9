package mcp

import "github.com/1broseidon/solowindow/internal/ipc"

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// WindowInput names a window for toggle_pin and get_menu.
type WindowInput struct {
	WindowID uint32 `json:"window_id,omitempty" jsonschema:"X11 window id; 0 or omitted means the active window"`
}

// StatusOutput is the output for the get_status tool.
type StatusOutput = ipc.StatusData

// ListPinsOutput is the output for the list_pins tool.
type ListPinsOutput = ipc.PinsData

// TogglePinOutput is the output for the toggle_pin tool.
type TogglePinOutput = ipc.TogglePinData

// MenuOutput is the output for the get_menu tool.
type MenuOutput = ipc.MenuData

// SweepOutput is the output for the sweep tool.
type SweepOutput = ipc.SweepData

// ReloadOutput is the output for the reload_config tool.
type ReloadOutput struct {
	Reloaded bool `json:"reloaded"`
}
