package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect is an axis-aligned rectangle in screen coordinates. Right and Bottom
// are the far edges (Left+Width, Top+Height), so windows placed side by side
// share an edge value.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// RectFromGeometry converts an X/Y/width/height geometry into edge form.
func RectFromGeometry(x, y, width, height int) Rect {
	return Rect{
		Left:   x,
		Top:    y,
		Right:  x + width,
		Bottom: y + height,
	}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Center returns the center point of r.
func (r Rect) Center() (int, int) {
	return r.Left + r.Width()/2, r.Top + r.Height()/2
}

// Contains reports whether the point lies inside r. The far edges are
// exclusive so that adjacent displays never both claim a point.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Display describes a physical output.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
}

// Window is a point-in-time view of a top-level window. A slice of Windows
// returned by StackingOrder is ordered front-to-back; the index of a window
// in that slice is its stacking index and is only meaningful within that
// snapshot.
type Window struct {
	ID            WindowID
	Caption       string
	Normal        bool
	Minimizable   bool
	Minimized     bool
	TransientFor  WindowID // 0 when the window has no owner
	Desktops      []int
	OnAllDesktops bool
	Monitor       int // display ID, -1 when unknown
	Bounds        Rect
}

// IsTransient reports whether w is owned by another window.
func (w Window) IsTransient() bool {
	return w.TransientFor != 0 && w.TransientFor != w.ID
}

// OnDesktop reports whether w is visible on the given desktop.
func (w Window) OnDesktop(desktop int) bool {
	if w.OnAllDesktops {
		return true
	}
	for _, d := range w.Desktops {
		if d == desktop {
			return true
		}
	}
	return false
}

// Backend abstracts the window-system operations the daemon needs.
type Backend interface {
	Displays() ([]Display, error)
	ActiveWindow() (WindowID, error)
	CurrentDesktop() (int, error)
	StackingOrder() ([]Window, error)
	SetMinimized(windowID WindowID, minimized bool) error
}

// MonitorFor returns the ID of the display containing the center of bounds,
// or -1 when no display does.
func MonitorFor(displays []Display, bounds Rect) int {
	cx, cy := bounds.Center()
	for _, d := range displays {
		if d.Bounds.Contains(cx, cy) {
			return d.ID
		}
	}
	return -1
}
