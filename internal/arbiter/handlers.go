package arbiter

import (
	"go.uber.org/zap"

	"github.com/1broseidon/solowindow/internal/events"
	"github.com/1broseidon/solowindow/internal/platform"
)

// Register subscribes the engine to every host notification it reacts to.
func (e *Engine) Register(d events.Dispatcher) {
	d.Subscribe(events.WindowAdded, func(ev events.Event) { e.HandleWindowAdded(ev.Window) })
	d.Subscribe(events.WindowRemoved, func(ev events.Event) { e.HandleWindowRemoved(ev.Window) })
	d.Subscribe(events.WindowActivated, func(ev events.Event) { e.HandleWindowActivated(ev.Window) })
	d.Subscribe(events.MinimizedChanged, func(ev events.Event) { e.HandleMinimizedChanged(ev.Window, ev.Minimized) })
	d.Subscribe(events.MoveResizeFinished, func(ev events.Event) { e.HandleMoveResizeFinished(ev.Window) })
	d.Subscribe(events.OutputChanged, func(ev events.Event) { e.HandleOutputChanged(ev.Window) })
	d.Subscribe(events.DesktopsChanged, func(ev events.Event) { e.HandleDesktopsChanged(ev.Window) })
	d.Subscribe(events.CurrentDesktopChanged, func(events.Event) { e.HandleCurrentDesktopChanged() })
}

func (e *Engine) isTracked(id platform.WindowID) bool {
	_, ok := e.tracked[id]
	return ok
}

// HandleWindowAdded starts tracking a new normal, minimizable window.
func (e *Engine) HandleWindowAdded(id platform.WindowID) {
	if id == 0 {
		return
	}
	if _, err := e.snapshot(); err != nil {
		e.logger.Warn("window added: snapshot failed", zap.Uint32("window_id", uint32(id)), zap.Error(err))
		return
	}
	if caption, ok := e.tracked[id]; ok {
		e.logger.Debug("tracking window", zap.Uint32("window_id", uint32(id)), zap.String("caption", caption))
	}
}

// HandleWindowRemoved forgets a closed window. Its victims are restored and
// it is dropped from every victim set.
func (e *Engine) HandleWindowRemoved(id platform.WindowID) {
	caption, ok := e.tracked[id]
	if !ok {
		return
	}
	delete(e.tracked, id)
	e.pins.Remove(id)
	e.manual.Remove(id)
	e.intents.Drop(id)
	release := e.causers.Release(id)
	e.causers.RemoveVictim(id)

	e.logger.Debug("window closed",
		zap.Uint32("window_id", uint32(id)),
		zap.String("caption", caption),
		zap.Int("victims_released", len(release)),
	)
	e.sweepLogged("window removed", 0, release)
}

// HandleWindowActivated sweeps with id as the trigger window. A zero id is
// a no-op.
func (e *Engine) HandleWindowActivated(id platform.WindowID) {
	if id == 0 {
		return
	}
	e.sweepLogged("window activated", id, nil)
}

// HandleMinimizedChanged consumes the post-change observation of a window's
// minimized state. A matching intent marks the engine's own change as done.
// A pending intent that does not match is an in-flight signal and is
// ignored. Without an intent the change came from the user.
func (e *Engine) HandleMinimizedChanged(id platform.WindowID, minimized bool) {
	if want, ok := e.intents.Lookup(id); ok {
		if want == minimized {
			e.intents.Drop(id)
			e.logger.Debug("engine change confirmed", zap.Uint32("window_id", uint32(id)), zap.Bool("minimized", minimized))
		}
		return
	}
	if !e.isTracked(id) {
		return
	}

	var release []platform.WindowID
	if minimized {
		e.manual.Add(id)
		release = e.causers.Release(id)
		e.logger.Debug("window minimized by user",
			zap.Uint32("window_id", uint32(id)),
			zap.Int("victims_released", len(release)))
	} else {
		e.manual.Remove(id)
		e.causers.RemoveVictim(id)
		e.logger.Debug("window restored by user", zap.Uint32("window_id", uint32(id)))
	}

	e.sweepLogged("manual minimize change", 0, release)
}

// HandleMoveResizeFinished restores the victims of id that it no longer
// overlaps, then sweeps.
func (e *Engine) HandleMoveResizeFinished(id platform.WindowID) {
	if !e.isTracked(id) {
		return
	}
	snap, err := e.snapshot()
	if err != nil {
		e.logger.Warn("move/resize: snapshot failed", zap.Uint32("window_id", uint32(id)), zap.Error(err))
		return
	}

	var release []platform.WindowID
	if causer, ok := snap.Lookup(id); ok && e.options.RespectOverlap {
		for _, vid := range e.causers.Victims(id) {
			victim, present := snap.Lookup(vid)
			if present && Overlaps(causer.Bounds, victim.Bounds) {
				continue
			}
			e.causers.Unlink(id, vid)
			release = append(release, vid)
		}
	}

	result := e.sweep(snap, 0, release)
	e.logSweep("window moved", result)
}

func (e *Engine) HandleOutputChanged(id platform.WindowID) {
	if e.isTracked(id) {
		e.sweepLogged("output changed", 0, nil)
	}
}

func (e *Engine) HandleDesktopsChanged(id platform.WindowID) {
	if e.isTracked(id) {
		e.sweepLogged("desktops changed", 0, nil)
	}
}

func (e *Engine) HandleCurrentDesktopChanged() {
	e.sweepLogged("current desktop changed", 0, nil)
}

func (e *Engine) sweepLogged(reason string, trigger platform.WindowID, release []platform.WindowID) {
	snap, err := e.snapshot()
	if err != nil {
		e.logger.Warn("sweep aborted", zap.String("reason", reason), zap.Error(err))
		return
	}
	e.logSweep(reason, e.sweep(snap, trigger, release))
}

func (e *Engine) logSweep(reason string, result SweepResult) {
	if len(result.Minimized) == 0 && len(result.Restored) == 0 {
		return
	}
	e.logger.Info("sweep applied",
		zap.String("reason", reason),
		zap.Int("minimized", len(result.Minimized)),
		zap.Int("restored", len(result.Restored)),
	)
}

// TogglePin flips the pin on id, or on the active window when id is zero,
// and sweeps. It returns the window's new pin state.
func (e *Engine) TogglePin(id platform.WindowID) (platform.Window, bool, error) {
	if id == 0 {
		active, err := e.host.ActiveWindow()
		if err != nil {
			return platform.Window{}, false, err
		}
		id = active
	}
	snap, err := e.snapshot()
	if err != nil {
		return platform.Window{}, false, err
	}
	w, ok := snap.Lookup(id)
	if !ok {
		return platform.Window{}, false, ErrNoWindow
	}

	pinned := e.pins.Toggle(id)
	e.logger.Info("pin toggled", windowFields(w, zap.Bool("pinned", pinned))...)

	e.logSweep("pin toggled", e.sweep(snap, 0, nil))
	return w, pinned, nil
}

// Adopt records every managed window that is already minimized as manually
// minimized, so the first sweep leaves it alone. It returns the number of
// windows adopted.
func (e *Engine) Adopt() (int, error) {
	snap, err := e.snapshot()
	if err != nil {
		return 0, err
	}
	adopted := 0
	for _, w := range snap.Windows {
		if managed(w) && w.Minimized && !e.manual.Has(w.ID) {
			e.manual.Add(w.ID)
			adopted++
		}
	}
	return adopted, nil
}
