package watcher

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"
)

func TestDiffClients(t *testing.T) {
	known := []xproto.Window{1, 2, 3}
	current := []xproto.Window{3, 4, 1, 5}

	added, removed := diffClients(known, current)

	assert.Equal(t, []xproto.Window{4, 5}, added)
	assert.Equal(t, []xproto.Window{2}, removed)
}

func TestDiffClientsEmpty(t *testing.T) {
	added, removed := diffClients(nil, nil)
	assert.Empty(t, added)
	assert.Empty(t, removed)
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	d := newDebouncer(100 * time.Millisecond)
	defer d.stop()

	var fired int32
	for i := 0; i < 5; i++ {
		d.trigger(1, func() { atomic.AddInt32(&fired, 1) })
		time.Sleep(2 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&fired) == 1 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt32(&fired))
}

func TestDebouncerKeepsWindowsApart(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)
	defer d.stop()

	var a, b int32
	d.trigger(1, func() { atomic.AddInt32(&a, 1) })
	d.trigger(2, func() { atomic.AddInt32(&b, 1) })

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&a) == 1 && atomic.LoadInt32(&b) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestDebouncerCancel(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)
	defer d.stop()

	var fired int32
	d.trigger(1, func() { atomic.AddInt32(&fired, 1) })
	d.cancel(1)

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&fired))
}
