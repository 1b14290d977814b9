// Package watcher turns X11 property and configure notifications into
// engine events.
package watcher

import (
	"fmt"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"go.uber.org/zap"

	"github.com/1broseidon/solowindow/internal/events"
	"github.com/1broseidon/solowindow/internal/platform"
	"github.com/1broseidon/solowindow/internal/x11"
)

// DefaultQuietPeriod is how long a window must stop moving before a
// MoveResizeFinished event is published.
const DefaultQuietPeriod = 250 * time.Millisecond

// Publisher receives the events the watcher produces.
type Publisher interface {
	Publish(events.Event)
}

// WindowReader reads a single client, used to track its monitor.
type WindowReader interface {
	Window(id platform.WindowID) (platform.Window, error)
}

type client struct {
	minimized bool
	monitor   int
}

// Watcher follows the client list and every client's state.
type Watcher struct {
	conn   *x11.Connection
	reader WindowReader
	pub    Publisher
	logger *zap.Logger
	settle *debouncer

	atoms map[string]xproto.Atom

	mu      sync.Mutex
	clients map[xproto.Window]*client
}

// New creates a watcher. quiet is the move/resize settle period; zero uses
// DefaultQuietPeriod.
func New(conn *x11.Connection, reader WindowReader, pub Publisher, quiet time.Duration, logger *zap.Logger) *Watcher {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		conn:    conn,
		reader:  reader,
		pub:     pub,
		logger:  logger,
		settle:  newDebouncer(quiet),
		atoms:   make(map[string]xproto.Atom),
		clients: make(map[xproto.Window]*client),
	}
}

var watchedAtoms = []string{
	"_NET_CLIENT_LIST",
	"_NET_ACTIVE_WINDOW",
	"_NET_CURRENT_DESKTOP",
	"_NET_WM_STATE",
	"_NET_WM_DESKTOP",
	"WM_STATE",
}

// Start subscribes to root and client notifications. Clients that already
// exist are attached without publishing WindowAdded. Events are delivered
// once the connection's event loop runs.
func (w *Watcher) Start() error {
	xu := w.conn.XUtil
	for _, name := range watchedAtoms {
		atom, err := xprop.Atm(xu, name)
		if err != nil {
			return fmt.Errorf("intern %s: %w", name, err)
		}
		w.atoms[name] = atom
	}

	if err := w.conn.Listen(w.conn.Root); err != nil {
		return fmt.Errorf("listen on root window: %w", err)
	}
	xevent.PropertyNotifyFun(w.onRootProperty).Connect(xu, w.conn.Root)

	clients, err := w.conn.GetClients()
	if err != nil {
		return err
	}
	w.mu.Lock()
	for _, win := range clients {
		w.attachLocked(win)
	}
	w.mu.Unlock()

	w.logger.Info("watching clients", zap.Int("clients", len(clients)))
	return nil
}

// Stop cancels pending move/resize timers and detaches client callbacks.
func (w *Watcher) Stop() {
	w.settle.stop()

	w.mu.Lock()
	defer w.mu.Unlock()
	for win := range w.clients {
		xevent.Detach(w.conn.XUtil, win)
		delete(w.clients, win)
	}
}

func (w *Watcher) attachLocked(win xproto.Window) {
	if _, ok := w.clients[win]; ok {
		return
	}
	if err := w.conn.Listen(win); err != nil {
		w.logger.Debug("listen on client failed", zap.Uint32("window_id", uint32(win)), zap.Error(err))
		return
	}

	c := &client{minimized: w.conn.IsMinimized(win), monitor: -1}
	if info, err := w.reader.Window(platform.WindowID(win)); err == nil {
		c.monitor = info.Monitor
	}
	w.clients[win] = c

	xu := w.conn.XUtil
	xevent.PropertyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		w.onClientProperty(win, ev.Atom)
	}).Connect(xu, win)
	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, _ xevent.ConfigureNotifyEvent) {
		w.settle.trigger(win, func() { w.settled(win) })
	}).Connect(xu, win)
}

func (w *Watcher) onRootProperty(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	switch ev.Atom {
	case w.atoms["_NET_CLIENT_LIST"]:
		w.syncClients()
	case w.atoms["_NET_ACTIVE_WINDOW"]:
		active, err := w.conn.GetActiveWindow()
		if err != nil || active == 0 {
			return
		}
		w.pub.Publish(events.Event{Kind: events.WindowActivated, Window: platform.WindowID(active)})
	case w.atoms["_NET_CURRENT_DESKTOP"]:
		desktop, err := w.conn.GetCurrentDesktop()
		if err != nil {
			w.logger.Debug("read current desktop failed", zap.Error(err))
			return
		}
		w.pub.Publish(events.Event{Kind: events.CurrentDesktopChanged, Desktop: desktop})
	}
}

func (w *Watcher) syncClients() {
	list, err := w.conn.GetClients()
	if err != nil {
		w.logger.Debug("read client list failed", zap.Error(err))
		return
	}

	w.mu.Lock()
	known := make([]xproto.Window, 0, len(w.clients))
	for win := range w.clients {
		known = append(known, win)
	}
	added, removed := diffClients(known, list)

	var out []events.Event
	for _, win := range removed {
		xevent.Detach(w.conn.XUtil, win)
		w.settle.cancel(win)
		delete(w.clients, win)
		out = append(out, events.Event{Kind: events.WindowRemoved, Window: platform.WindowID(win)})
	}
	for _, win := range added {
		w.attachLocked(win)
		out = append(out, events.Event{Kind: events.WindowAdded, Window: platform.WindowID(win)})
	}
	w.mu.Unlock()

	for _, ev := range out {
		w.pub.Publish(ev)
	}
}

func (w *Watcher) onClientProperty(win xproto.Window, atom xproto.Atom) {
	switch atom {
	case w.atoms["WM_STATE"], w.atoms["_NET_WM_STATE"]:
		minimized := w.conn.IsMinimized(win)

		w.mu.Lock()
		c, ok := w.clients[win]
		changed := ok && c.minimized != minimized
		if changed {
			c.minimized = minimized
		}
		w.mu.Unlock()

		if changed {
			w.pub.Publish(events.Event{
				Kind:      events.MinimizedChanged,
				Window:    platform.WindowID(win),
				Minimized: minimized,
			})
		}
	case w.atoms["_NET_WM_DESKTOP"]:
		w.pub.Publish(events.Event{Kind: events.DesktopsChanged, Window: platform.WindowID(win)})
	}
}

// settled runs once a client stopped moving. It also reports a monitor
// change.
func (w *Watcher) settled(win xproto.Window) {
	id := platform.WindowID(win)

	monitor := -1
	if info, err := w.reader.Window(id); err == nil {
		monitor = info.Monitor
	}

	w.mu.Lock()
	c, ok := w.clients[win]
	moved := ok && c.monitor != monitor
	if moved {
		c.monitor = monitor
	}
	w.mu.Unlock()

	if !ok {
		return
	}
	w.pub.Publish(events.Event{Kind: events.MoveResizeFinished, Window: id})
	if moved {
		w.pub.Publish(events.Event{Kind: events.OutputChanged, Window: id})
	}
}

// diffClients compares the known clients with a fresh _NET_CLIENT_LIST.
// Both results keep the order of their source list.
func diffClients(known, current []xproto.Window) (added, removed []xproto.Window) {
	inCurrent := make(map[xproto.Window]struct{}, len(current))
	for _, win := range current {
		inCurrent[win] = struct{}{}
	}
	inKnown := make(map[xproto.Window]struct{}, len(known))
	for _, win := range known {
		inKnown[win] = struct{}{}
		if _, ok := inCurrent[win]; !ok {
			removed = append(removed, win)
		}
	}
	for _, win := range current {
		if _, ok := inKnown[win]; !ok {
			added = append(added, win)
		}
	}
	return added, removed
}
