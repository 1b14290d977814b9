package arbiter

import "github.com/1broseidon/solowindow/internal/platform"

// Ancestors returns the transient-owner chain of w, nearest owner first.
// The walk stops at an owner missing from the snapshot. ok is false when the
// chain loops back on itself; the returned chain is then nil.
func (s *Snapshot) Ancestors(w platform.Window) (chain []platform.Window, ok bool) {
	visited := map[platform.WindowID]struct{}{w.ID: {}}
	cur := w
	for cur.IsTransient() {
		owner, found := s.Lookup(cur.TransientFor)
		if !found {
			break
		}
		if _, seen := visited[owner.ID]; seen {
			return nil, false
		}
		visited[owner.ID] = struct{}{}
		chain = append(chain, owner)
		cur = owner
	}
	return chain, true
}

// RootOwner follows the transient-owner chain of w to the window that owns
// it without itself being owned. A window without an owner is its own root.
// Cyclic ownership is inconsistent host data; w itself is returned.
func (s *Snapshot) RootOwner(w platform.Window) platform.Window {
	chain, ok := s.Ancestors(w)
	if !ok || len(chain) == 0 {
		return w
	}
	return chain[len(chain)-1]
}

// IsTransientRelated reports whether one of a and b is a transient ancestor
// of the other.
func (s *Snapshot) IsTransientRelated(a, b platform.Window) bool {
	return s.isAncestor(a, b) || s.isAncestor(b, a)
}

// isAncestor reports whether anc appears on the owner chain of w.
func (s *Snapshot) isAncestor(anc, w platform.Window) bool {
	chain, _ := s.Ancestors(w)
	for _, c := range chain {
		if c.ID == anc.ID {
			return true
		}
	}
	return false
}
