package daemon

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/1broseidon/solowindow/internal/arbiter"
	"github.com/1broseidon/solowindow/internal/events"
	"github.com/1broseidon/solowindow/internal/platform"
)

type stubHost struct {
	mu      sync.Mutex
	windows []platform.Window
	active  platform.WindowID
}

func (h *stubHost) StackingOrder() ([]platform.Window, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]platform.Window(nil), h.windows...), nil
}

func (h *stubHost) CurrentDesktop() (int, error) { return 0, nil }

func (h *stubHost) ActiveWindow() (platform.WindowID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active, nil
}

func (h *stubHost) SetMinimized(id platform.WindowID, minimized bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.windows {
		if h.windows[i].ID == id {
			h.windows[i].Minimized = minimized
			return nil
		}
	}
	return arbiter.ErrNoWindow
}

func (h *stubHost) remove(id platform.WindowID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.windows {
		if h.windows[i].ID == id {
			h.windows = append(h.windows[:i], h.windows[i+1:]...)
			return
		}
	}
}

func window(id platform.WindowID, caption string, x, y int) platform.Window {
	return platform.Window{
		ID:          id,
		Caption:     caption,
		Normal:      true,
		Minimizable: true,
		Desktops:    []int{0},
		Bounds:      platform.RectFromGeometry(x, y, 400, 300),
	}
}

func newTestService(t *testing.T, reload func() error) (*Service, *stubHost, *arbiter.Engine) {
	t.Helper()
	host := &stubHost{
		windows: []platform.Window{
			window(1, "editor", 0, 0),
			window(2, "browser", 100, 100),
		},
		active: 1,
	}
	logger := zaptest.NewLogger(t)
	engine := arbiter.NewEngine(host, nil, arbiter.DefaultOptions(), logger)
	bus := events.NewBus(logger)
	return NewService(engine, bus, reload, "v-test", logger), host, engine
}

func TestServiceTogglePinAndStatus(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	toggled, err := svc.TogglePin(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), toggled.WindowID)
	assert.Equal(t, "editor", toggled.Caption)
	assert.True(t, toggled.Pinned)

	pins, err := svc.ListPins()
	require.NoError(t, err)
	require.Len(t, pins.Pins, 1)
	assert.Equal(t, "editor", pins.Pins[0].Caption)

	status, err := svc.Status()
	require.NoError(t, err)
	assert.True(t, status.DaemonRunning)
	assert.Equal(t, "v-test", status.Version)
	assert.Equal(t, arbiter.PolicyDominance, status.Policy)
	assert.Equal(t, 1, status.Pinned)

	toggled, err = svc.TogglePin(1)
	require.NoError(t, err)
	assert.False(t, toggled.Pinned)

	_, err = svc.TogglePin(42)
	assert.ErrorIs(t, err, arbiter.ErrNoWindow)
}

func TestServiceMenu(t *testing.T) {
	svc, host, _ := newTestService(t, nil)
	host.windows = append(host.windows, platform.Window{ID: 9, Caption: "tooltip", Bounds: platform.RectFromGeometry(0, 0, 10, 10)})

	menu, err := svc.Menu(2)
	require.NoError(t, err)
	require.Len(t, menu.Entries, 1)
	assert.Equal(t, arbiter.PinMenuText, menu.Entries[0].Text)
	assert.True(t, menu.Entries[0].Checkable)
	assert.False(t, menu.Entries[0].Checked)

	menu, err = svc.Menu(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), menu.WindowID)

	menu, err = svc.Menu(9)
	require.NoError(t, err)
	assert.Empty(t, menu.Entries)

	_, err = svc.Menu(42)
	assert.ErrorIs(t, err, arbiter.ErrNoWindow)
}

func TestServiceSweepMinimizesCoveredWindow(t *testing.T) {
	svc, host, _ := newTestService(t, nil)

	res, err := svc.Sweep()
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, res.Minimized)
	assert.Empty(t, res.Restored)

	windows, _ := host.StackingOrder()
	assert.True(t, windows[1].Minimized)
}

func TestServiceTriggers(t *testing.T) {
	svc, host, engine := newTestService(t, nil)

	svc.TriggerPinMenu()
	assert.True(t, engine.Pins().Has(1))

	svc.TriggerPinMenu()
	assert.False(t, engine.Pins().Has(1))

	host.active = 0
	svc.TriggerPinMenu()
	assert.Equal(t, 0, engine.Pins().Len())

	svc.TriggerSweep()
	windows, _ := host.StackingOrder()
	assert.True(t, windows[1].Minimized)
}

func TestServiceReload(t *testing.T) {
	calls := 0
	svc, _, _ := newTestService(t, func() error {
		calls++
		if calls > 1 {
			return errors.New("bad config")
		}
		return nil
	})

	require.NoError(t, svc.Reload())
	assert.EqualError(t, svc.Reload(), "bad config")

	noop, _, _ := newTestService(t, nil)
	assert.NoError(t, noop.Reload())
}

func TestReconcileNowPrunesVanishedPins(t *testing.T) {
	svc, host, engine := newTestService(t, nil)
	_, err := svc.TogglePin(2)
	require.NoError(t, err)

	host.remove(2)
	r := NewReconciler(ReconcilerConfig{IntentTimeout: time.Second, Logger: zaptest.NewLogger(t)}, engine, svc.bus)
	report, err := r.ReconcileNow()
	require.NoError(t, err)
	assert.Equal(t, 1, report.PrunedPins)
	assert.Equal(t, 0, engine.Pins().Len())

	report, err = r.ReconcileNow()
	require.NoError(t, err)
	assert.True(t, report.Empty())
}

type directExec struct{}

func (directExec) Call(fn func()) { fn() }

type countingEngine struct {
	calls atomic.Int32
	fail  error
	panic bool
}

func (c *countingEngine) Reconcile(time.Duration) (arbiter.ReconcileReport, error) {
	c.calls.Add(1)
	if c.panic {
		panic("boom")
	}
	return arbiter.ReconcileReport{ExpiredIntents: 1}, c.fail
}

func TestReconcilerRecoversAndReportsErrors(t *testing.T) {
	logger := zaptest.NewLogger(t)

	panicky := &countingEngine{panic: true}
	r := NewReconciler(ReconcilerConfig{Logger: logger}, panicky, directExec{})
	report, err := r.ReconcileNow()
	assert.NoError(t, err)
	assert.True(t, report.Empty())

	failing := &countingEngine{fail: errors.New("display gone")}
	r = NewReconciler(ReconcilerConfig{Logger: logger}, failing, directExec{})
	_, err = r.ReconcileNow()
	assert.EqualError(t, err, "display gone")
}

func TestReconcilerRunTicksAndStops(t *testing.T) {
	eng := &countingEngine{}
	r := NewReconciler(ReconcilerConfig{Interval: 10 * time.Millisecond, Logger: zaptest.NewLogger(t)}, eng, directExec{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return eng.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)

	// Disabling stops further passes.
	r.Update(0, time.Second)
	time.Sleep(50 * time.Millisecond)
	settled := eng.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, eng.calls.Load())

	r.Update(10*time.Millisecond, time.Second)
	require.Eventually(t, func() bool { return eng.calls.Load() > settled }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reconciler did not stop")
	}
}
