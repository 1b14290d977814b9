package daemon

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/solowindow/internal/arbiter"
)

// Reconcilable repairs engine bookkeeping against the live window list.
type Reconcilable interface {
	Reconcile(intentTimeout time.Duration) (arbiter.ReconcileReport, error)
}

// Executor runs a function on the engine's serial executor and waits for it.
type Executor interface {
	Call(fn func())
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	// Interval between passes; zero disables periodic passes.
	Interval      time.Duration
	IntentTimeout time.Duration
	Logger        *zap.Logger
}

// Reconciler periodically checks for state drift and corrects it.
type Reconciler struct {
	engine Reconcilable
	exec   Executor
	logger *zap.Logger

	mu            sync.Mutex
	interval      time.Duration
	intentTimeout time.Duration
	changed       chan struct{}
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, engine Reconcilable, exec Executor) *Reconciler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		engine:        engine,
		exec:          exec,
		logger:        logger,
		interval:      cfg.Interval,
		intentTimeout: cfg.IntentTimeout,
		changed:       make(chan struct{}, 1),
	}
}

// Update changes the interval and intent timeout of a running reconciler.
func (r *Reconciler) Update(interval, intentTimeout time.Duration) {
	r.mu.Lock()
	r.interval = interval
	r.intentTimeout = intentTimeout
	r.mu.Unlock()

	select {
	case r.changed <- struct{}{}:
	default:
	}
}

func (r *Reconciler) settings() (time.Duration, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interval, r.intentTimeout
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	var (
		ticker *time.Ticker
		tick   <-chan time.Time
	)
	restart := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
		interval, _ := r.settings()
		if interval > 0 {
			ticker = time.NewTicker(interval)
			tick = ticker.C
		}
		r.logger.Info("reconciler scheduled", zap.Duration("interval", interval))
	}
	restart()
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-r.changed:
			restart()
		case <-tick:
			r.reconcile()
		}
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() (report arbiter.ReconcileReport, err error) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("reconciler panic recovered", zap.Any("panic", p))
		}
	}()

	_, timeout := r.settings()
	r.exec.Call(func() {
		report, err = r.engine.Reconcile(timeout)
	})
	if err != nil {
		r.logger.Warn("reconcile failed", zap.Error(err))
		return report, err
	}
	if !report.Empty() {
		r.logger.Info("reconciled",
			zap.Int("expired_intents", report.ExpiredIntents),
			zap.Int("pruned_pins", report.PrunedPins),
			zap.Int("pruned_manual", report.PrunedManual),
			zap.Int("released_causers", report.ReleasedCausers),
			zap.Int("dropped_victims", report.DroppedVictims),
		)
	} else {
		r.logger.Debug("reconciled, nothing to repair")
	}
	return report, nil
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() (arbiter.ReconcileReport, error) {
	return r.reconcile()
}
