package arbiter

import (
	"go.uber.org/zap"

	"github.com/1broseidon/solowindow/internal/platform"
)

// PinMenuText is the label of the pin toggle entry.
const PinMenuText = "Pin Window (Solo Window)"

// MenuEntry is a checkable pin toggle for one window.
type MenuEntry struct {
	Text      string            `json:"text"`
	Checkable bool              `json:"checkable"`
	Checked   bool              `json:"checked"`
	WindowID  platform.WindowID `json:"window_id"`
	Triggered func()            `json:"-"`
}

// MenuEntry returns the pin toggle for w, or nil when w is not a normal
// window. Triggering the entry toggles the pin and sweeps.
func (e *Engine) MenuEntry(w platform.Window) *MenuEntry {
	if !w.Normal {
		return nil
	}
	id := w.ID
	return &MenuEntry{
		Text:      PinMenuText,
		Checkable: true,
		Checked:   e.pins.Has(id),
		WindowID:  id,
		Triggered: func() {
			if _, _, err := e.TogglePin(id); err != nil {
				e.logger.Warn("pin toggle failed", zap.Uint32("window_id", uint32(id)), zap.Error(err))
			}
		},
	}
}

// MenuEntryFor looks id up (zero meaning the active window) and returns its
// menu entry.
func (e *Engine) MenuEntryFor(id platform.WindowID) (*MenuEntry, error) {
	if id == 0 {
		active, err := e.host.ActiveWindow()
		if err != nil {
			return nil, err
		}
		id = active
	}
	snap, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	w, ok := snap.Lookup(id)
	if !ok {
		return nil, ErrNoWindow
	}
	return e.MenuEntry(w), nil
}
