package events

import (
	"sync"

	"go.uber.org/zap"
)

// Bus is a serial executor. Published events and submitted functions run one
// at a time, in submission order. The goroutine that finds the bus idle
// drains the queue; work submitted while a handler runs (including from the
// handler itself) is queued behind it rather than run re-entrantly.
type Bus struct {
	mu       sync.Mutex
	handlers map[Kind][]Handler
	queue    []func()
	draining bool
	logger   *zap.Logger
}

// NewBus creates an idle bus.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		handlers: make(map[Kind][]Handler),
		logger:   logger,
	}
}

// Subscribe registers handler for kind. Handlers run in registration order.
func (b *Bus) Subscribe(kind Kind, handler Handler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	b.handlers[kind] = append(b.handlers[kind], handler)
	b.mu.Unlock()
}

// Publish queues ev for delivery to its subscribers.
func (b *Bus) Publish(ev Event) {
	b.Do(func() {
		b.mu.Lock()
		handlers := append([]Handler(nil), b.handlers[ev.Kind]...)
		b.mu.Unlock()

		for _, h := range handlers {
			h(ev)
		}
	})
}

// Do queues fn and returns. fn may run before Do returns when the bus was
// idle.
func (b *Bus) Do(fn func()) {
	b.mu.Lock()
	b.queue = append(b.queue, fn)
	if b.draining {
		b.mu.Unlock()
		return
	}
	b.draining = true
	b.mu.Unlock()

	b.drain()
}

// Call runs fn on the bus and waits for it to finish. It must not be called
// from inside a handler or a function already running on the bus.
func (b *Bus) Call(fn func()) {
	done := make(chan struct{})
	b.Do(func() {
		defer close(done)
		fn()
	})
	<-done
}

func (b *Bus) drain() {
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.draining = false
			b.mu.Unlock()
			return
		}
		fn := b.queue[0]
		b.queue[0] = nil
		b.queue = b.queue[1:]
		b.mu.Unlock()

		b.run(fn)
	}
}

func (b *Bus) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic recovered", zap.Any("panic", r))
		}
	}()
	fn()
}
