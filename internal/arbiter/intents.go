package arbiter

import (
	"sort"
	"time"

	"github.com/1broseidon/solowindow/internal/platform"
)

type intent struct {
	minimized bool
	at        time.Time
}

// IntentLedger records the minimized state the engine requested for a
// window until the host confirms it.
type IntentLedger struct {
	entries map[platform.WindowID]intent
	now     func() time.Time
}

// NewIntentLedger creates an empty ledger. now defaults to time.Now.
func NewIntentLedger(now func() time.Time) *IntentLedger {
	if now == nil {
		now = time.Now
	}
	return &IntentLedger{entries: make(map[platform.WindowID]intent), now: now}
}

// Record stores the requested state for id, replacing any earlier request.
func (l *IntentLedger) Record(id platform.WindowID, minimized bool) {
	l.entries[id] = intent{minimized: minimized, at: l.now()}
}

// Lookup returns the pending request for id.
func (l *IntentLedger) Lookup(id platform.WindowID) (minimized bool, ok bool) {
	in, ok := l.entries[id]
	return in.minimized, ok
}

// Drop forgets the request for id.
func (l *IntentLedger) Drop(id platform.WindowID) { delete(l.entries, id) }

// Expire drops requests older than maxAge and returns their ids in
// ascending order.
func (l *IntentLedger) Expire(maxAge time.Duration) []platform.WindowID {
	cutoff := l.now().Add(-maxAge)
	var expired []platform.WindowID
	for id, in := range l.entries {
		if in.at.Before(cutoff) {
			delete(l.entries, id)
			expired = append(expired, id)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i] < expired[j] })
	return expired
}

func (l *IntentLedger) Len() int { return len(l.entries) }

func (l *IntentLedger) Reset() { l.entries = make(map[platform.WindowID]intent) }
