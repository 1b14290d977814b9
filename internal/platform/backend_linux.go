//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/1broseidon/solowindow/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Connection returns the underlying X11 connection.
func (b *LinuxBackend) Connection() *x11.Connection {
	if b == nil {
		return nil
	}
	return b.conn
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:     m.ID,
			Name:   m.Name,
			Bounds: RectFromGeometry(m.X, m.Y, m.Width, m.Height),
		})
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(wid), nil
}

// CurrentDesktop returns the current virtual desktop.
func (b *LinuxBackend) CurrentDesktop() (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	return conn.GetCurrentDesktop()
}

// StackingOrder returns every managed client, front-most first. Clients that
// disappear while the snapshot is taken are skipped.
func (b *LinuxBackend) StackingOrder() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := conn.GetClientsStacking()
	if err != nil {
		return nil, err
	}

	displays, err := b.Displays()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for i := len(clients) - 1; i >= 0; i-- {
		w, ok := b.window(clients[i], displays)
		if !ok {
			continue
		}
		windows = append(windows, w)
	}

	return windows, nil
}

// Window returns a single client.
func (b *LinuxBackend) Window(windowID WindowID) (Window, error) {
	displays, err := b.Displays()
	if err != nil {
		return Window{}, err
	}
	w, ok := b.window(xproto.Window(windowID), displays)
	if !ok {
		return Window{}, fmt.Errorf("window 0x%x is gone", uint32(windowID))
	}
	return w, nil
}

func (b *LinuxBackend) window(windowID xproto.Window, displays []Display) (Window, bool) {
	conn := b.conn

	x, y, width, height, err := conn.GetWindowGeometry(windowID)
	if err != nil {
		return Window{}, false
	}
	bounds := RectFromGeometry(x, y, width, height)

	w := Window{
		ID:           WindowID(windowID),
		Caption:      conn.GetWindowTitle(windowID),
		Normal:       conn.IsNormalWindow(windowID),
		Minimizable:  conn.IsMinimizable(windowID),
		Minimized:    conn.IsMinimized(windowID),
		TransientFor: WindowID(conn.GetTransientFor(windowID)),
		Monitor:      MonitorFor(displays, bounds),
		Bounds:       bounds,
	}

	desktop, err := conn.GetWindowDesktop(windowID)
	switch {
	case err != nil, desktop < 0:
		// Without _NET_WM_DESKTOP the window manager shows the client everywhere.
		w.OnAllDesktops = true
	default:
		w.Desktops = []int{desktop}
	}

	return w, true
}

// SetMinimized iconifies or restores a window.
func (b *LinuxBackend) SetMinimized(windowID WindowID, minimized bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if minimized {
		return conn.Iconify(xproto.Window(windowID))
	}
	return conn.Deiconify(xproto.Window(windowID))
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}
