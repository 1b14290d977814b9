// Package arbiter decides which windows to auto-minimize and restore, and
// keeps the bookkeeping that makes those decisions reversible.
//
// An Engine is not safe for concurrent use. The daemon serializes every call
// through an events.Bus.
package arbiter

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/solowindow/internal/platform"
)

// ErrNoWindow is returned when an operation names a window that does not
// exist.
var ErrNoWindow = errors.New("no such window")

// Host is the window system as seen by the engine.
type Host interface {
	// StackingOrder returns the current windows ordered front-to-back.
	StackingOrder() ([]platform.Window, error)
	CurrentDesktop() (int, error)
	// ActiveWindow returns the focused window, or zero when there is none.
	ActiveWindow() (platform.WindowID, error)
	SetMinimized(id platform.WindowID, minimized bool) error
}

// SweepResult lists the state changes a sweep requested.
type SweepResult struct {
	Minimized []platform.WindowID `json:"minimized"`
	Restored  []platform.WindowID `json:"restored"`
	Skipped   bool                `json:"skipped,omitempty"`
}

// Engine runs sweeps and owns the pin, manual, intent and causer registries.
type Engine struct {
	host    Host
	policy  Policy
	options Options
	logger  *zap.Logger
	now     func() time.Time

	pins    *PinRegistry
	manual  *ManualTracker
	intents *IntentLedger
	causers *CauserLedger

	// managed windows seen so far, id to caption
	tracked map[platform.WindowID]string

	// victims released while sweeps were limited, restored by the next
	// sweep that runs
	pendingRelease []platform.WindowID

	started      time.Time
	sweeps       int
	sweepLimited bool
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine with empty registries. A nil policy selects
// the dominance policy.
func NewEngine(host Host, policy Policy, opts Options, logger *zap.Logger, extra ...EngineOption) *Engine {
	if policy == nil {
		policy = dominancePolicy{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		host:    host,
		policy:  policy,
		options: opts,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range extra {
		opt(e)
	}
	e.started = e.now()
	e.Reset()
	return e
}

// Reset clears every registry and the sweep counter.
func (e *Engine) Reset() {
	e.pins = NewPinRegistry()
	e.manual = NewManualTracker()
	e.intents = NewIntentLedger(e.now)
	e.causers = NewCauserLedger()
	e.tracked = make(map[platform.WindowID]string)
	e.pendingRelease = nil
	e.sweeps = 0
	e.sweepLimited = false
}

// Configure swaps the policy and options and restarts the sweep count.
// Registries are kept.
func (e *Engine) Configure(policy Policy, opts Options) {
	if policy != nil {
		e.policy = policy
	}
	e.options = opts
	e.sweeps = 0
	e.sweepLimited = false
	e.logger.Info("engine configured",
		zap.String("policy", e.policy.Name()),
		zap.Bool("respect_monitors", opts.RespectMonitors),
		zap.Bool("respect_virtual_desktops", opts.RespectVirtualDesktops),
		zap.Bool("respect_overlap", opts.RespectOverlap),
		zap.Bool("pinned_windows_dont_minimize", opts.PinnedWindowsDontMinimize),
	)
}

func (e *Engine) Policy() Policy { return e.policy }

func (e *Engine) Options() Options { return e.options }

func (e *Engine) Pins() *PinRegistry { return e.pins }

func (e *Engine) Manual() *ManualTracker { return e.manual }

func (e *Engine) Intents() *IntentLedger { return e.intents }

func (e *Engine) Causers() *CauserLedger { return e.causers }

// Sweep runs one decide-then-apply cycle with no trigger window.
func (e *Engine) Sweep() (SweepResult, error) {
	snap, err := e.snapshot()
	if err != nil {
		return SweepResult{}, err
	}
	return e.sweep(snap, 0, nil), nil
}

func (e *Engine) snapshot() (*Snapshot, error) {
	windows, err := e.host.StackingOrder()
	if err != nil {
		return nil, fmt.Errorf("read stacking order: %w", err)
	}
	desktop, err := e.host.CurrentDesktop()
	if err != nil {
		return nil, fmt.Errorf("read current desktop: %w", err)
	}
	snap := NewSnapshot(windows, desktop)
	for _, w := range snap.Windows {
		if managed(w) {
			e.tracked[w.ID] = w.Caption
		}
	}
	return snap, nil
}

// sweep decides over snap and applies the result. release lists windows
// whose causer went away; they are restored unless the policy decides to
// keep them minimized. A skipped sweep keeps release for the next one.
func (e *Engine) sweep(snap *Snapshot, trigger platform.WindowID, release []platform.WindowID) SweepResult {
	if e.options.MaxSweeps > 0 && e.sweeps >= e.options.MaxSweeps {
		if !e.sweepLimited {
			e.logger.Warn("sweep limit reached, skipping further sweeps until reload",
				zap.Int("max_sweeps", e.options.MaxSweeps))
			e.sweepLimited = true
		}
		e.pendingRelease = append(e.pendingRelease, release...)
		return SweepResult{Skipped: true}
	}
	e.sweeps++
	if len(e.pendingRelease) > 0 {
		release = append(e.pendingRelease, release...)
		e.pendingRelease = nil
	}

	if trigger == 0 && e.policy.Name() == PolicyActiveWindow {
		active, err := e.host.ActiveWindow()
		if err != nil {
			e.logger.Debug("active window unavailable", zap.Error(err))
		}
		trigger = active
	}

	decisions := e.decide(snap, trigger)
	for _, id := range release {
		if _, decided := decisions[id]; !decided {
			decisions[id] = Decision{}
		}
	}

	result := e.apply(snap, decisions)
	e.logger.Debug("sweep finished",
		zap.Int("sweep", e.sweeps),
		zap.String("policy", e.policy.Name()),
		zap.Uint32("trigger_id", uint32(trigger)),
		zap.Int("windows", len(snap.Windows)),
		zap.Int("minimized", len(result.Minimized)),
		zap.Int("restored", len(result.Restored)),
	)
	return result
}

// decide is phase one: policy then transient correction, both over snap.
func (e *Engine) decide(snap *Snapshot, trigger platform.WindowID) Decisions {
	ev := &Evaluation{
		Snap:    snap,
		Trigger: trigger,
		Options: e.options,
		Pins:    e.pins,
		Manual:  e.manual,
	}
	decisions := e.policy.Decide(ev)
	keepOwnersVisible(snap, decisions, e.manual)
	return decisions
}

// apply is phase two. Pinned windows are never minimized and manually
// minimized windows are never restored.
func (e *Engine) apply(snap *Snapshot, decisions Decisions) SweepResult {
	var result SweepResult

	for _, w := range snap.Windows {
		d, ok := decisions[w.ID]
		if !ok {
			continue
		}

		if d.Minimize {
			if e.pins.Has(w.ID) {
				continue
			}
			if !w.Minimized {
				if !e.request(w, true) {
					continue
				}
				result.Minimized = append(result.Minimized, w.ID)
				e.logger.Debug("minimized window",
					windowFields(w, zap.Uint32("causer_id", uint32(d.Causer)))...)
			}
			e.causers.Record(d.Causer, w.ID)
			continue
		}

		if !w.Minimized || e.manual.Has(w.ID) {
			continue
		}
		if !e.request(w, false) {
			continue
		}
		e.causers.RemoveVictim(w.ID)
		result.Restored = append(result.Restored, w.ID)
		e.logger.Debug("restored window", windowFields(w)...)
	}

	return result
}

// request records the intent before asking the host for the change, so a
// notification fired from inside SetMinimized is recognized. A failed
// request leaves no intent behind.
func (e *Engine) request(w platform.Window, minimized bool) bool {
	e.intents.Record(w.ID, minimized)
	if err := e.host.SetMinimized(w.ID, minimized); err != nil {
		e.intents.Drop(w.ID)
		e.logger.Warn("set minimized failed",
			windowFields(w, zap.Bool("minimized", minimized), zap.Error(err))...)
		return false
	}
	return true
}

func windowFields(w platform.Window, extra ...zap.Field) []zap.Field {
	fields := []zap.Field{
		zap.Uint32("window_id", uint32(w.ID)),
		zap.String("caption", w.Caption),
	}
	return append(fields, extra...)
}
