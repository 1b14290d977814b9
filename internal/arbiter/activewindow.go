package arbiter

import "github.com/1broseidon/solowindow/internal/platform"

// activeWindowPolicy keeps one designated window visible per monitor (or one
// in total when monitors are not respected) and minimizes what it covers.
type activeWindowPolicy struct{}

func (activeWindowPolicy) Name() string { return PolicyActiveWindow }

func (p activeWindowPolicy) Decide(ev *Evaluation) Decisions {
	designated := p.designate(ev)
	decisions := make(Decisions)

	for _, d := range designated {
		if managed(d) {
			decisions[d.ID] = Decision{}
		}
	}

	for _, w := range ev.Snap.Windows {
		if !ev.eligible(w) {
			continue
		}
		d, ok := designated[p.scope(ev, w)]
		if !ok || ev.related(w, d) {
			continue
		}
		if ev.pinShielded(d) {
			continue
		}
		if ev.Options.RespectVirtualDesktops && !ShareDesktop(d, w) {
			continue
		}
		if !ev.covers(d, w) {
			continue
		}
		decisions[w.ID] = Decision{Minimize: true, Causer: d.ID}
	}

	return decisions
}

// designate picks the window to protect in every scope. The trigger window
// wins its own scope; every other scope gets its front-most visible normal
// window on the current desktop.
func (p activeWindowPolicy) designate(ev *Evaluation) map[int]platform.Window {
	designated := make(map[int]platform.Window)

	if trigger, ok := ev.Snap.Lookup(ev.Trigger); ok && p.candidate(ev, trigger) {
		designated[p.scope(ev, trigger)] = trigger
	}
	for _, w := range ev.Snap.Windows {
		if !p.candidate(ev, w) || w.Minimized {
			continue
		}
		key := p.scope(ev, w)
		if _, taken := designated[key]; !taken {
			designated[key] = w
		}
	}

	return designated
}

func (activeWindowPolicy) candidate(ev *Evaluation, w platform.Window) bool {
	return w.Normal && w.OnDesktop(ev.Snap.Desktop) && !ev.Manual.Has(w.ID)
}

func (activeWindowPolicy) scope(ev *Evaluation, w platform.Window) int {
	if ev.Options.RespectMonitors {
		return w.Monitor
	}
	return 0
}
