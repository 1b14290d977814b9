package hotkeys

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"go.uber.org/zap"

	"github.com/1broseidon/solowindow/internal/platform"
)

// ErrNoX11 is returned when the backend does not expose an X connection.
var ErrNoX11 = errors.New("hotkeys require an X11 backend")

// Actions are the operations bound to global shortcuts.
type Actions struct {
	// TogglePin pins or unpins the active window.
	TogglePin func()
	// Sweep forces a sweep.
	Sweep func()
}

// Bindings are the key sequences for Actions, in xgbutil keybind syntax
// ("Mod4-Mod1-p"). An empty sequence leaves the action unbound.
type Bindings struct {
	Pin   string
	Sweep string
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	actions Actions
	logger  *zap.Logger

	mu    sync.Mutex
	bound Bindings
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, actions Actions, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	if xu != nil {
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(xu)
		})
	}

	return &Handler{
		xu:      xu,
		root:    root,
		actions: actions,
		logger:  logger,
	}
}

// Bind replaces every shortcut this handler grabbed with b. On failure no
// shortcut stays bound.
func (h *Handler) Bind(b Bindings) error {
	if h.xu == nil {
		return ErrNoX11
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	keybind.DetachPress(h.xu, h.root)
	h.bound = Bindings{}

	if b.Pin != "" {
		if err := h.RegisterFunc(b.Pin, h.run("pin", h.actions.TogglePin)); err != nil {
			return fmt.Errorf("failed to register pin hotkey %q: %w", b.Pin, err)
		}
	}
	if b.Sweep != "" {
		if err := h.RegisterFunc(b.Sweep, h.run("sweep", h.actions.Sweep)); err != nil {
			keybind.DetachPress(h.xu, h.root)
			return fmt.Errorf("failed to register sweep hotkey %q: %w", b.Sweep, err)
		}
	}

	h.bound = b
	h.logger.Info("hotkeys bound", zap.String("pin", b.Pin), zap.String("sweep", b.Sweep))
	return nil
}

// Bound returns the active bindings.
func (h *Handler) Bound() Bindings {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bound
}

func (h *Handler) run(name string, action func()) func() {
	return func() {
		h.logger.Debug("hotkey triggered", zap.String("action", name))
		if action != nil {
			action()
		}
	}
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	if h.xu == nil {
		return ErrNoX11
	}
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// Close releases every grab.
func (h *Handler) Close() {
	if h.xu == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	keybind.DetachPress(h.xu, h.root)
	h.bound = Bindings{}
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	xevent.IgnoreMods = ignoreMasks(caps, numLock, scrollLock)
}

// ignoreMasks returns every combination of the lock modifiers, including
// none. Zero or duplicate masks are skipped.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	sort.Slice(ignore, func(i, j int) bool { return ignore[i] < ignore[j] })
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
