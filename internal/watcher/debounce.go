package watcher

import (
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
)

// debouncer runs a callback once a window has been quiet for a while.
// Every trigger restarts that window's timer.
type debouncer struct {
	quiet time.Duration

	mu      sync.Mutex
	timers  map[xproto.Window]*time.Timer
	gen     map[xproto.Window]uint64
	stopped bool
}

func newDebouncer(quiet time.Duration) *debouncer {
	return &debouncer{
		quiet:  quiet,
		timers: make(map[xproto.Window]*time.Timer),
		gen:    make(map[xproto.Window]uint64),
	}
}

func (d *debouncer) trigger(win xproto.Window, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if t := d.timers[win]; t != nil {
		t.Stop()
	}
	d.gen[win]++
	gen := d.gen[win]

	d.timers[win] = time.AfterFunc(d.quiet, func() {
		d.mu.Lock()
		if d.stopped || d.gen[win] != gen {
			d.mu.Unlock()
			return
		}
		delete(d.timers, win)
		delete(d.gen, win)
		d.mu.Unlock()

		fn()
	})
}

func (d *debouncer) cancel(win xproto.Window) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t := d.timers[win]; t != nil {
		t.Stop()
	}
	delete(d.timers, win)
	delete(d.gen, win)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for win, t := range d.timers {
		t.Stop()
		delete(d.timers, win)
	}
}
