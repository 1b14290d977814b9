package arbiter

import (
	"sort"

	"github.com/1broseidon/solowindow/internal/platform"
)

type windowSet map[platform.WindowID]struct{}

func (s windowSet) has(id platform.WindowID) bool {
	_, ok := s[id]
	return ok
}

func (s windowSet) sorted() []platform.WindowID {
	ids := make([]platform.WindowID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// retain drops ids for which keep returns false and returns how many were
// dropped.
func (s windowSet) retain(keep func(platform.WindowID) bool) int {
	dropped := 0
	for id := range s {
		if !keep(id) {
			delete(s, id)
			dropped++
		}
	}
	return dropped
}

// PinRegistry holds the windows the user exempted from auto-minimize.
type PinRegistry struct {
	ids windowSet
}

func NewPinRegistry() *PinRegistry {
	return &PinRegistry{ids: make(windowSet)}
}

func (p *PinRegistry) Has(id platform.WindowID) bool { return p.ids.has(id) }

func (p *PinRegistry) Remove(id platform.WindowID) { delete(p.ids, id) }

// Toggle flips the pin on id and returns the new state.
func (p *PinRegistry) Toggle(id platform.WindowID) bool {
	if p.ids.has(id) {
		delete(p.ids, id)
		return false
	}
	p.ids[id] = struct{}{}
	return true
}

// IDs returns the pinned ids in ascending order.
func (p *PinRegistry) IDs() []platform.WindowID { return p.ids.sorted() }

func (p *PinRegistry) Len() int { return len(p.ids) }

func (p *PinRegistry) Retain(keep func(platform.WindowID) bool) int { return p.ids.retain(keep) }

func (p *PinRegistry) Reset() { p.ids = make(windowSet) }

// ManualTracker holds the windows the user minimized directly. A window
// leaves the set when it is restored by anyone other than the engine.
type ManualTracker struct {
	ids windowSet
}

func NewManualTracker() *ManualTracker {
	return &ManualTracker{ids: make(windowSet)}
}

func (m *ManualTracker) Has(id platform.WindowID) bool { return m.ids.has(id) }

func (m *ManualTracker) Add(id platform.WindowID) { m.ids[id] = struct{}{} }

func (m *ManualTracker) Remove(id platform.WindowID) { delete(m.ids, id) }

func (m *ManualTracker) IDs() []platform.WindowID { return m.ids.sorted() }

func (m *ManualTracker) Len() int { return len(m.ids) }

func (m *ManualTracker) Retain(keep func(platform.WindowID) bool) int { return m.ids.retain(keep) }

func (m *ManualTracker) Reset() { m.ids = make(windowSet) }
