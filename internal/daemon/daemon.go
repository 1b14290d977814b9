//go:build linux

// Package daemon wires the arbitration engine to X11, IPC, hotkeys and the
// reconciler.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/1broseidon/solowindow/internal/arbiter"
	"github.com/1broseidon/solowindow/internal/config"
	"github.com/1broseidon/solowindow/internal/events"
	"github.com/1broseidon/solowindow/internal/hotkeys"
	"github.com/1broseidon/solowindow/internal/ipc"
	"github.com/1broseidon/solowindow/internal/logging"
	"github.com/1broseidon/solowindow/internal/platform"
	"github.com/1broseidon/solowindow/internal/watcher"
)

// Options configure a Daemon.
type Options struct {
	// ConfigPath is re-read on reload. Empty uses config.DefaultConfigPath.
	ConfigPath string
	Version    string
}

// Daemon owns every long-lived component.
type Daemon struct {
	opts   Options
	logger *logging.Logger
	log    *zap.Logger

	cfgMu sync.Mutex
	cfg   *config.Config

	backend    *platform.LinuxBackend
	bus        *events.Bus
	engine     *arbiter.Engine
	service    *Service
	watcher    *watcher.Watcher
	hotkeys    *hotkeys.Handler
	server     *ipc.Server
	reconciler *Reconciler
}

// New creates a daemon from an already validated config.
func New(opts Options, cfg *config.Config, logger *logging.Logger) *Daemon {
	return &Daemon{
		opts:   opts,
		cfg:    cfg,
		logger: logger,
		log:    logger.Named("daemon"),
	}
}

// Run connects to X, starts every component and blocks in the X event loop
// until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	cfg := d.config()

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Disconnect()
	d.backend = backend

	policy, err := cfg.EnginePolicy()
	if err != nil {
		return err
	}
	d.bus = events.NewBus(d.logger.Named("bus"))
	d.engine = arbiter.NewEngine(backend, policy, cfg.EngineOptions(), d.logger.Named("engine"))
	d.service = NewService(d.engine, d.bus, d.Reload, d.opts.Version, d.logger.Named("service"))

	if cfg.AdoptMinimizedOnStart {
		var adopted int
		d.bus.Call(func() { adopted, err = d.engine.Adopt() })
		if err != nil {
			return fmt.Errorf("failed to adopt minimized windows: %w", err)
		}
		d.log.Info("adopted minimized windows", zap.Int("count", adopted))
	}
	d.engine.Register(d.bus)

	d.watcher = watcher.New(backend.Connection(), backend, d.bus, watcher.DefaultQuietPeriod, d.logger.Named("watcher"))
	if err := d.watcher.Start(); err != nil {
		return fmt.Errorf("failed to start window watcher: %w", err)
	}
	defer d.watcher.Stop()

	d.initialSweep()

	d.hotkeys = hotkeys.NewHandler(backend, hotkeys.Actions{
		TogglePin: d.service.TriggerPinMenu,
		Sweep:     d.service.TriggerSweep,
	}, d.logger.Named("hotkeys"))
	if err := d.hotkeys.Bind(hotkeys.Bindings{Pin: cfg.PinHotkey, Sweep: cfg.SweepHotkey}); err != nil {
		d.log.Warn("hotkeys unavailable", zap.Error(err))
	}
	defer d.hotkeys.Close()

	d.reconciler = NewReconciler(ReconcilerConfig{
		Interval:      cfg.ReconcileInterval(),
		IntentTimeout: cfg.IntentTimeout(),
		Logger:        d.logger.Named("reconciler"),
	}, d.engine, d.bus)
	d.reconciler.ReconcileNow()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go d.reconciler.Run(runCtx)

	d.server, err = ipc.NewServer(d.service, d.logger.Named("ipc"))
	if err != nil {
		return err
	}
	if err := d.server.Start(); err != nil {
		return err
	}
	defer d.server.Stop()

	go d.handleSignals(runCtx)

	d.log.Info("solowindow daemon started",
		zap.String("version", d.opts.Version),
		zap.String("policy", policy.Name()),
	)
	backend.Connection().EventLoop()
	d.log.Info("solowindow daemon stopped")
	return nil
}

func (d *Daemon) initialSweep() {
	var (
		res arbiter.SweepResult
		err error
	)
	d.bus.Call(func() { res, err = d.engine.Sweep() })
	if err != nil {
		d.log.Warn("initial sweep failed", zap.Error(err))
		return
	}
	d.log.Info("initial sweep",
		zap.Int("minimized", len(res.Minimized)),
		zap.Int("restored", len(res.Restored)),
	)
}

// handleSignals reloads on SIGHUP and quits the event loop once ctx ends.
func (d *Daemon) handleSignals(ctx context.Context) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			d.backend.Connection().Quit()
			return
		case <-hup:
			d.log.Info("received SIGHUP, reloading config")
			if err := d.Reload(); err != nil {
				d.log.Error("config reload failed", zap.Error(err))
			}
		}
	}
}

func (d *Daemon) config() *config.Config {
	d.cfgMu.Lock()
	defer d.cfgMu.Unlock()
	return d.cfg
}

// Reload re-reads the config file and applies it. An invalid file leaves
// the running configuration untouched.
func (d *Daemon) Reload() error {
	path := d.opts.ConfigPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return err
	}
	next := res.Config
	policy, err := next.EnginePolicy()
	if err != nil {
		return err
	}

	d.cfgMu.Lock()
	prev := d.cfg
	d.cfg = next
	d.cfgMu.Unlock()

	if err := d.logger.SetLevel(next.LogLevel); err != nil {
		d.log.Warn("log level unchanged", zap.Error(err))
	}
	if next.LogFile != prev.LogFile {
		d.log.Warn("log_file changes take effect on restart", zap.String("log_file", next.LogFile))
	}

	d.bus.Call(func() {
		d.engine.Configure(policy, next.EngineOptions())
		if _, err := d.engine.Sweep(); err != nil {
			d.log.Warn("sweep after reload failed", zap.Error(err))
		}
	})

	bindings := hotkeys.Bindings{Pin: next.PinHotkey, Sweep: next.SweepHotkey}
	if d.hotkeys != nil && bindings != d.hotkeys.Bound() {
		if err := d.hotkeys.Bind(bindings); err != nil {
			d.log.Warn("hotkeys unavailable", zap.Error(err))
		}
	}
	if d.reconciler != nil {
		d.reconciler.Update(next.ReconcileInterval(), next.IntentTimeout())
	}

	d.log.Info("config reloaded", zap.Strings("files", res.Files))
	return nil
}
