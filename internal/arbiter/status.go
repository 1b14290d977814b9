package arbiter

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/solowindow/internal/platform"
)

// Status summarizes the engine's registries.
type Status struct {
	Policy         string        `json:"policy"`
	Uptime         time.Duration `json:"uptime"`
	Sweeps         int           `json:"sweeps"` // since the last Configure
	SweepLimited   bool          `json:"sweep_limited"`
	Tracked        int           `json:"tracked"`
	Pinned         int           `json:"pinned"`
	Manual         int           `json:"manual"`
	PendingIntents int           `json:"pending_intents"`
	Causers        int           `json:"causers"`
	Victims        int           `json:"victims"`
	Options        Options       `json:"options"`
}

func (e *Engine) Status() Status {
	return Status{
		Policy:         e.policy.Name(),
		Uptime:         e.now().Sub(e.started),
		Sweeps:         e.sweeps,
		SweepLimited:   e.sweepLimited,
		Tracked:        len(e.tracked),
		Pinned:         e.pins.Len(),
		Manual:         e.manual.Len(),
		PendingIntents: e.intents.Len(),
		Causers:        e.causers.Len(),
		Victims:        e.causers.VictimCount(),
		Options:        e.options,
	}
}

// PinnedWindow is a pinned id with the caption last seen for it.
type PinnedWindow struct {
	ID      platform.WindowID `json:"id"`
	Caption string            `json:"caption"`
}

func (e *Engine) PinnedWindows() []PinnedWindow {
	ids := e.pins.IDs()
	out := make([]PinnedWindow, 0, len(ids))
	for _, id := range ids {
		out = append(out, PinnedWindow{ID: id, Caption: e.tracked[id]})
	}
	return out
}

// ReconcileReport counts what a reconcile pass repaired.
type ReconcileReport struct {
	ExpiredIntents  int `json:"expired_intents"`
	PrunedPins      int `json:"pruned_pins"`
	PrunedManual    int `json:"pruned_manual"`
	ReleasedCausers int `json:"released_causers"`
	DroppedVictims  int `json:"dropped_victims"`
}

// Empty reports whether the pass changed nothing.
func (r ReconcileReport) Empty() bool {
	return r == ReconcileReport{}
}

// Reconcile repairs bookkeeping that missed notifications left behind:
// intents older than intentTimeout, registry entries for windows that no
// longer exist, and victims that are no longer minimized. Causers that
// vanished without a close notification release their victims through a
// sweep.
func (e *Engine) Reconcile(intentTimeout time.Duration) (ReconcileReport, error) {
	var report ReconcileReport

	snap, err := e.snapshot()
	if err != nil {
		return report, err
	}

	if intentTimeout > 0 {
		expired := e.intents.Expire(intentTimeout)
		report.ExpiredIntents = len(expired)
		for _, id := range expired {
			e.logger.Warn("intent expired without confirmation", zap.Uint32("window_id", uint32(id)))
		}
	}

	report.PrunedPins = e.pins.Retain(snap.Has)
	report.PrunedManual = e.manual.Retain(snap.Has)
	for id := range e.tracked {
		if !snap.Has(id) {
			delete(e.tracked, id)
		}
	}

	var release []platform.WindowID
	for _, causer := range e.causers.Causers() {
		if snap.Has(causer) {
			continue
		}
		release = append(release, e.causers.Release(causer)...)
		report.ReleasedCausers++
	}

	dropped := make(windowSet)
	for _, causer := range e.causers.Causers() {
		for _, vid := range e.causers.Victims(causer) {
			w, ok := snap.Lookup(vid)
			if ok && w.Minimized {
				continue
			}
			if _, pending := e.intents.Lookup(vid); pending {
				continue
			}
			e.causers.Unlink(causer, vid)
			dropped[vid] = struct{}{}
		}
	}
	report.DroppedVictims = len(dropped)

	if len(release) > 0 {
		sort.Slice(release, func(i, j int) bool { return release[i] < release[j] })
		e.logSweep("causer vanished", e.sweep(snap, 0, release))
	}

	return report, nil
}
