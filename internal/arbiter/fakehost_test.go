package arbiter

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/1broseidon/solowindow/internal/platform"
)

type setCall struct {
	id        platform.WindowID
	minimized bool
}

// fakeHost keeps windows front-to-back and applies SetMinimized at once.
// before and after, when set, are called synchronously from SetMinimized
// with the pre-change and post-change observation.
type fakeHost struct {
	windows []platform.Window
	desktop int
	active  platform.WindowID
	fail    map[platform.WindowID]error
	calls   []setCall

	before func(id platform.WindowID, minimized bool)
	after  func(id platform.WindowID, minimized bool)
}

func newFakeHost(windows ...platform.Window) *fakeHost {
	return &fakeHost{windows: windows, fail: make(map[platform.WindowID]error)}
}

func (h *fakeHost) StackingOrder() ([]platform.Window, error) {
	out := make([]platform.Window, len(h.windows))
	copy(out, h.windows)
	return out, nil
}

func (h *fakeHost) CurrentDesktop() (int, error) { return h.desktop, nil }

func (h *fakeHost) ActiveWindow() (platform.WindowID, error) { return h.active, nil }

func (h *fakeHost) SetMinimized(id platform.WindowID, minimized bool) error {
	if err := h.fail[id]; err != nil {
		return err
	}
	i := h.index(id)
	if i < 0 {
		return errors.New("bad window")
	}
	h.calls = append(h.calls, setCall{id: id, minimized: minimized})
	if h.before != nil {
		h.before(id, h.windows[i].Minimized)
	}
	h.windows[i].Minimized = minimized
	if h.after != nil {
		h.after(id, minimized)
	}
	return nil
}

func (h *fakeHost) index(id platform.WindowID) int {
	for i, w := range h.windows {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func (h *fakeHost) get(id platform.WindowID) platform.Window {
	return h.windows[h.index(id)]
}

func (h *fakeHost) remove(id platform.WindowID) {
	i := h.index(id)
	h.windows = append(h.windows[:i], h.windows[i+1:]...)
}

// userSetMinimized changes state the way a user would, without going
// through the engine.
func (h *fakeHost) userSetMinimized(id platform.WindowID, minimized bool) {
	h.windows[h.index(id)].Minimized = minimized
}

func (h *fakeHost) moveTo(id platform.WindowID, x, y int) {
	i := h.index(id)
	b := h.windows[i].Bounds
	h.windows[i].Bounds = platform.RectFromGeometry(x, y, b.Width(), b.Height())
}

func (h *fakeHost) minimizedCalls() []platform.WindowID {
	var ids []platform.WindowID
	for _, c := range h.calls {
		if c.minimized {
			ids = append(ids, c.id)
		}
	}
	return ids
}

func (h *fakeHost) restoredCalls() []platform.WindowID {
	var ids []platform.WindowID
	for _, c := range h.calls {
		if !c.minimized {
			ids = append(ids, c.id)
		}
	}
	return ids
}

// win returns a normal, minimizable window on desktop 0, monitor 0.
func win(id platform.WindowID, x, y, w, h int) platform.Window {
	return platform.Window{
		ID:          id,
		Caption:     "window",
		Normal:      true,
		Minimizable: true,
		Desktops:    []int{0},
		Monitor:     0,
		Bounds:      platform.RectFromGeometry(x, y, w, h),
	}
}

func newTestEngine(t *testing.T, host *fakeHost, policy Policy, opts Options) *Engine {
	t.Helper()
	return NewEngine(host, policy, opts, zaptest.NewLogger(t))
}

func mustPolicy(t *testing.T, name string) Policy {
	t.Helper()
	p, err := PolicyByName(name)
	if err != nil {
		t.Fatalf("PolicyByName(%q): %v", name, err)
	}
	return p
}
