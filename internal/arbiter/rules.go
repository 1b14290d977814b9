package arbiter

import "github.com/1broseidon/solowindow/internal/platform"

// Options are the rule toggles read from configuration.
type Options struct {
	RespectMonitors           bool `json:"respect_monitors"`
	RespectVirtualDesktops    bool `json:"respect_virtual_desktops"`
	RespectOverlap            bool `json:"respect_overlap"`
	PinnedWindowsDontMinimize bool `json:"pinned_windows_dont_minimize"`

	// MaxSweeps stops sweeping after this many sweeps. Zero means no limit.
	MaxSweeps int `json:"max_sweeps"`
}

// DefaultOptions returns every respect toggle enabled.
func DefaultOptions() Options {
	return Options{
		RespectMonitors:           true,
		RespectVirtualDesktops:    true,
		RespectOverlap:            true,
		PinnedWindowsDontMinimize: true,
	}
}

// eligible reports whether w may be auto-minimized at all.
func (ev *Evaluation) eligible(w platform.Window) bool {
	return managed(w) &&
		w.OnDesktop(ev.Snap.Desktop) &&
		!ev.Pins.Has(w.ID) &&
		!ev.Manual.Has(w.ID)
}

// inScope applies the monitor and desktop toggles to a causer/victim pair.
func (ev *Evaluation) inScope(causer, victim platform.Window) bool {
	if ev.Options.RespectMonitors && causer.Monitor != victim.Monitor {
		return false
	}
	if ev.Options.RespectVirtualDesktops && !ShareDesktop(causer, victim) {
		return false
	}
	return true
}

// pinShielded reports whether a pinned causer is prevented from minimizing
// other windows.
func (ev *Evaluation) pinShielded(causer platform.Window) bool {
	return ev.Options.PinnedWindowsDontMinimize && ev.Pins.Has(causer.ID)
}

// covers applies the overlap toggle.
func (ev *Evaluation) covers(causer, victim platform.Window) bool {
	return !ev.Options.RespectOverlap || Overlaps(causer.Bounds, victim.Bounds)
}

// related reports whether the two windows are the same or transient kin.
func (ev *Evaluation) related(a, b platform.Window) bool {
	return a.ID == b.ID || ev.Snap.IsTransientRelated(a, b)
}
