package arbiter

import "github.com/1broseidon/solowindow/internal/platform"

// ShareDesktop reports whether a and b are visible on a common virtual
// desktop. A window on all desktops shares every desktop.
func ShareDesktop(a, b platform.Window) bool {
	if a.OnAllDesktops || b.OnAllDesktops {
		return true
	}
	for _, da := range a.Desktops {
		for _, db := range b.Desktops {
			if da == db {
				return true
			}
		}
	}
	return false
}
