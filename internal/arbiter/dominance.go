package arbiter

// dominancePolicy minimizes every eligible window that has a qualifying
// window above it in the stacking order.
type dominancePolicy struct{}

func (dominancePolicy) Name() string { return PolicyDominance }

func (dominancePolicy) Decide(ev *Evaluation) Decisions {
	decisions := make(Decisions)

	for i, a := range ev.Snap.Windows {
		if !managed(a) {
			continue
		}
		if !ev.eligible(a) {
			decisions[a.ID] = Decision{}
			continue
		}

		d := Decision{}
		// Only windows strictly above a can dominate it.
		for _, b := range ev.Snap.Windows[:i] {
			if !b.Normal || ev.Manual.Has(b.ID) {
				continue
			}
			if !ev.inScope(b, a) || ev.related(a, b) {
				continue
			}
			if ev.pinShielded(b) || !ev.covers(b, a) {
				continue
			}
			d = Decision{Minimize: true, Causer: b.ID}
			break
		}
		decisions[a.ID] = d
	}

	return decisions
}
