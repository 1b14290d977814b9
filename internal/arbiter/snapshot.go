package arbiter

import "github.com/1broseidon/solowindow/internal/platform"

// Snapshot is the window list and current desktop captured at the start of
// a sweep. Decisions are computed from it alone.
type Snapshot struct {
	Windows []platform.Window // front-to-back
	Desktop int

	index map[platform.WindowID]int
}

// NewSnapshot indexes windows, which must be ordered front-to-back.
func NewSnapshot(windows []platform.Window, desktop int) *Snapshot {
	index := make(map[platform.WindowID]int, len(windows))
	for i, w := range windows {
		if _, dup := index[w.ID]; !dup {
			index[w.ID] = i
		}
	}
	return &Snapshot{Windows: windows, Desktop: desktop, index: index}
}

// Lookup returns the window with the given id.
func (s *Snapshot) Lookup(id platform.WindowID) (platform.Window, bool) {
	i, ok := s.index[id]
	if !ok {
		return platform.Window{}, false
	}
	return s.Windows[i], true
}

// StackIndex returns the position of id in the snapshot, 0 being the
// front-most window, or -1 when id is absent.
func (s *Snapshot) StackIndex(id platform.WindowID) int {
	if i, ok := s.index[id]; ok {
		return i
	}
	return -1
}

// Has reports whether id is present.
func (s *Snapshot) Has(id platform.WindowID) bool {
	_, ok := s.index[id]
	return ok
}

func managed(w platform.Window) bool {
	return w.Normal && w.Minimizable
}
