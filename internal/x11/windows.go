package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// GetClientsStacking returns the managed clients bottom-to-top. Window
// managers that do not publish _NET_CLIENT_LIST_STACKING fall back to
// _NET_CLIENT_LIST, which is in mapping order.
func (c *Connection) GetClientsStacking() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListStackingGet(c.XUtil)
	if err == nil {
		return clients, nil
	}
	clients, err = ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	return clients, nil
}

// GetClients returns _NET_CLIENT_LIST.
func (c *Connection) GetClients() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	return clients, nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION",
			"_NET_WM_WINDOW_TYPE_TOOLBAR",
			"_NET_WM_WINDOW_TYPE_MENU",
			"_NET_WM_WINDOW_TYPE_UTILITY":
			return false
		}
	}

	return len(types) == 0
}

// IsMinimizable reports whether the window manager allows minimizing the
// window. Windows without _NET_WM_ALLOWED_ACTIONS are assumed minimizable.
func (c *Connection) IsMinimizable(windowID xproto.Window) bool {
	actions, err := ewmh.WmAllowedActionsGet(c.XUtil, windowID)
	if err != nil || len(actions) == 0 {
		return true
	}
	for _, a := range actions {
		if a == "_NET_WM_ACTION_MINIMIZE" {
			return true
		}
	}
	return false
}

// IsMinimized reports whether the window is hidden (_NET_WM_STATE_HIDDEN)
// or iconic (ICCCM WM_STATE).
func (c *Connection) IsMinimized(windowID xproto.Window) bool {
	if states, err := ewmh.WmStateGet(c.XUtil, windowID); err == nil {
		for _, s := range states {
			if s == "_NET_WM_STATE_HIDDEN" {
				return true
			}
		}
	}
	if st, err := icccm.WmStateGet(c.XUtil, windowID); err == nil && st.State == icccm.StateIconic {
		return true
	}
	return false
}

// GetTransientFor returns the owner from WM_TRANSIENT_FOR, or 0.
func (c *Connection) GetTransientFor(windowID xproto.Window) xproto.Window {
	owner, err := icccm.WmTransientForGet(c.XUtil, windowID)
	if err != nil || owner == c.Root {
		return 0
	}
	return owner
}

// GetWindowGeometry returns the window's position in root coordinates and
// its size.
func (c *Connection) GetWindowGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate coordinates: %w", err)
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// GetWindowTitle returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) GetWindowTitle(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// Iconify asks the window manager to minimize a window via WM_CHANGE_STATE.
func (c *Connection) Iconify(windowID xproto.Window) error {
	return c.sendRootMessage(windowID, "WM_CHANGE_STATE", icccm.StateIconic)
}

// Deiconify maps an iconic window, which the window manager turns into a
// restore without changing focus.
func (c *Connection) Deiconify(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// Listen selects property and structure notifications on a client.
func (c *Connection) Listen(windowID xproto.Window) error {
	return xwindow.New(c.XUtil, windowID).Listen(
		xproto.EventMaskPropertyChange,
		xproto.EventMaskStructureNotify,
	)
}
