package arbiter

import (
	"sort"

	"github.com/1broseidon/solowindow/internal/platform"
)

// CauserLedger maps a causer window to the windows that were minimized
// because of it. A victim may be listed under several causers.
type CauserLedger struct {
	victims map[platform.WindowID]windowSet
}

func NewCauserLedger() *CauserLedger {
	return &CauserLedger{victims: make(map[platform.WindowID]windowSet)}
}

// Record links victim to causer. Self links and zero ids are ignored.
func (l *CauserLedger) Record(causer, victim platform.WindowID) {
	if causer == 0 || victim == 0 || causer == victim {
		return
	}
	set, ok := l.victims[causer]
	if !ok {
		set = make(windowSet)
		l.victims[causer] = set
	}
	set[victim] = struct{}{}
}

// Victims returns the victims of causer in ascending order.
func (l *CauserLedger) Victims(causer platform.WindowID) []platform.WindowID {
	set, ok := l.victims[causer]
	if !ok {
		return nil
	}
	return set.sorted()
}

// IsCauser reports whether causer has at least one victim.
func (l *CauserLedger) IsCauser(causer platform.WindowID) bool {
	_, ok := l.victims[causer]
	return ok
}

// Release deletes the entry of causer and returns its victims.
func (l *CauserLedger) Release(causer platform.WindowID) []platform.WindowID {
	victims := l.Victims(causer)
	delete(l.victims, causer)
	return victims
}

// Unlink removes a single causer/victim pair. It reports whether the pair
// existed.
func (l *CauserLedger) Unlink(causer, victim platform.WindowID) bool {
	set, ok := l.victims[causer]
	if !ok || !set.has(victim) {
		return false
	}
	delete(set, victim)
	if len(set) == 0 {
		delete(l.victims, causer)
	}
	return true
}

// RemoveVictim removes victim from every causer's set.
func (l *CauserLedger) RemoveVictim(victim platform.WindowID) {
	for causer, set := range l.victims {
		delete(set, victim)
		if len(set) == 0 {
			delete(l.victims, causer)
		}
	}
}

// Causers returns every causer with victims, in ascending order.
func (l *CauserLedger) Causers() []platform.WindowID {
	ids := make([]platform.WindowID, 0, len(l.victims))
	for id := range l.victims {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// VictimCount returns the number of distinct victims.
func (l *CauserLedger) VictimCount() int {
	seen := make(windowSet)
	for _, set := range l.victims {
		for id := range set {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}

func (l *CauserLedger) Len() int { return len(l.victims) }

func (l *CauserLedger) Reset() { l.victims = make(map[platform.WindowID]windowSet) }
