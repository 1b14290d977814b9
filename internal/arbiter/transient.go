package arbiter

// keepOwnersVisible forces every transient owner of a visible window to stay
// visible. A window is visible when its decision says so, or when it has no
// decision and is not minimized in the snapshot. Manually minimized owners
// are left alone.
func keepOwnersVisible(snap *Snapshot, decisions Decisions, manual *ManualTracker) {
	for _, w := range snap.Windows {
		if !w.IsTransient() {
			continue
		}
		visible := !w.Minimized
		if d, ok := decisions[w.ID]; ok {
			visible = !d.Minimize
		}
		if !visible {
			continue
		}

		chain, ok := snap.Ancestors(w)
		if !ok {
			continue
		}
		for _, owner := range chain {
			if manual.Has(owner.ID) {
				continue
			}
			decisions[owner.ID] = Decision{}
		}
	}
}
