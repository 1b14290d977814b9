package daemon

import (
	"go.uber.org/zap"

	"github.com/1broseidon/solowindow/internal/arbiter"
	"github.com/1broseidon/solowindow/internal/ipc"
	"github.com/1broseidon/solowindow/internal/platform"
)

// Bus is the serial executor every engine call goes through.
type Bus interface {
	Executor
	Do(fn func())
}

// Service answers IPC commands and hotkeys by running engine operations on
// the bus.
type Service struct {
	engine  *arbiter.Engine
	bus     Bus
	reload  func() error
	version string
	logger  *zap.Logger
}

// NewService creates a service. reload re-reads configuration; it is called
// off the bus.
func NewService(engine *arbiter.Engine, bus Bus, reload func() error, version string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, bus: bus, reload: reload, version: version, logger: logger}
}

func (s *Service) Status() (ipc.StatusData, error) {
	var st arbiter.Status
	s.bus.Call(func() { st = s.engine.Status() })
	data := ipc.NewStatusData(st)
	data.Version = s.version
	return data, nil
}

func (s *Service) ListPins() (ipc.PinsData, error) {
	var pinned []arbiter.PinnedWindow
	s.bus.Call(func() { pinned = s.engine.PinnedWindows() })

	out := ipc.PinsData{Pins: make([]ipc.PinInfo, 0, len(pinned))}
	for _, p := range pinned {
		out.Pins = append(out.Pins, ipc.PinInfo{WindowID: uint32(p.ID), Caption: p.Caption})
	}
	return out, nil
}

func (s *Service) TogglePin(windowID uint32) (ipc.TogglePinData, error) {
	var (
		w      platform.Window
		pinned bool
		err    error
	)
	s.bus.Call(func() { w, pinned, err = s.engine.TogglePin(platform.WindowID(windowID)) })
	if err != nil {
		return ipc.TogglePinData{}, err
	}
	return ipc.TogglePinData{WindowID: uint32(w.ID), Caption: w.Caption, Pinned: pinned}, nil
}

func (s *Service) Menu(windowID uint32) (ipc.MenuData, error) {
	var (
		entry *arbiter.MenuEntry
		err   error
	)
	s.bus.Call(func() { entry, err = s.engine.MenuEntryFor(platform.WindowID(windowID)) })
	if err != nil {
		return ipc.MenuData{}, err
	}

	out := ipc.MenuData{WindowID: windowID, Entries: []ipc.MenuItem{}}
	if entry != nil {
		out.WindowID = uint32(entry.WindowID)
		out.Entries = append(out.Entries, ipc.MenuItem{
			Text:      entry.Text,
			Checkable: entry.Checkable,
			Checked:   entry.Checked,
		})
	}
	return out, nil
}

func (s *Service) Sweep() (ipc.SweepData, error) {
	var (
		res arbiter.SweepResult
		err error
	)
	s.bus.Call(func() { res, err = s.engine.Sweep() })
	if err != nil {
		return ipc.SweepData{}, err
	}
	return ipc.NewSweepData(res), nil
}

func (s *Service) Reload() error {
	if s.reload == nil {
		return nil
	}
	return s.reload()
}

// TriggerPinMenu activates the active window's pin menu entry. It does not
// wait, so it is safe to call from the X event loop.
func (s *Service) TriggerPinMenu() {
	s.bus.Do(func() {
		entry, err := s.engine.MenuEntryFor(0)
		if err != nil {
			s.logger.Warn("pin hotkey: no active window", zap.Error(err))
			return
		}
		if entry == nil {
			s.logger.Debug("pin hotkey: active window has no menu")
			return
		}
		entry.Triggered()
	})
}

// TriggerSweep forces a sweep without waiting.
func (s *Service) TriggerSweep() {
	s.bus.Do(func() {
		res, err := s.engine.Sweep()
		if err != nil {
			s.logger.Warn("sweep hotkey failed", zap.Error(err))
			return
		}
		s.logger.Info("sweep hotkey",
			zap.Int("minimized", len(res.Minimized)),
			zap.Int("restored", len(res.Restored)),
		)
	})
}
