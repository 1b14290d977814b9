package arbiter

import "github.com/1broseidon/solowindow/internal/platform"

// Overlaps reports whether two rectangles overlap. Rectangles that only
// touch along an edge count as overlapping.
func Overlaps(a, b platform.Rect) bool {
	if a.Right < b.Left || a.Left > b.Right {
		return false
	}
	if a.Bottom < b.Top || a.Top > b.Bottom {
		return false
	}
	return true
}
