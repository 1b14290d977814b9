package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/1broseidon/solowindow/internal/arbiter"
	"github.com/1broseidon/solowindow/internal/platform"
)

type fakeHandler struct {
	mu       sync.Mutex
	pins     map[uint32]bool
	reloads  int
	sweeps   int
	failNext error
}

func (f *fakeHandler) Status() (StatusData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return StatusData{DaemonRunning: true, Policy: arbiter.PolicyDominance, Pinned: len(f.pins), Sweeps: f.sweeps}, nil
}

func (f *fakeHandler) ListPins() (PinsData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := PinsData{Pins: []PinInfo{}}
	for id := range f.pins {
		out.Pins = append(out.Pins, PinInfo{WindowID: id, Caption: "editor"})
	}
	return out, nil
}

func (f *fakeHandler) TogglePin(id uint32) (TogglePinData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == 0 {
		id = 7
	}
	if id == 99 {
		return TogglePinData{}, arbiter.ErrNoWindow
	}
	f.pins[id] = !f.pins[id]
	if !f.pins[id] {
		delete(f.pins, id)
	}
	return TogglePinData{WindowID: id, Caption: "editor", Pinned: f.pins[id]}, nil
}

func (f *fakeHandler) Menu(id uint32) (MenuData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return MenuData{WindowID: id, Entries: []MenuItem{{Text: arbiter.PinMenuText, Checkable: true, Checked: f.pins[id]}}}, nil
}

func (f *fakeHandler) Sweep() (SweepData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sweeps++
	return NewSweepData(arbiter.SweepResult{Minimized: []platform.WindowID{3}, Restored: []platform.WindowID{}}), nil
}

func (f *fakeHandler) Reload() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.reloads++
	return nil
}

// socketPath keeps the path short enough for sun_path.
func socketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "sw")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

func startServer(t *testing.T, h Handler) (*Server, *Client) {
	t.Helper()
	path := socketPath(t)
	srv := NewServerAt(path, h, zaptest.NewLogger(t))
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)
	return srv, NewClientAt(path)
}

func TestClientServerRoundTrip(t *testing.T) {
	h := &fakeHandler{pins: map[uint32]bool{}}
	_, client := startServer(t, h)

	toggled, err := client.TogglePin(0)
	require.NoError(t, err)
	assert.Equal(t, TogglePinData{WindowID: 7, Caption: "editor", Pinned: true}, *toggled)

	pins, err := client.ListPins()
	require.NoError(t, err)
	require.Len(t, pins.Pins, 1)
	assert.Equal(t, uint32(7), pins.Pins[0].WindowID)

	menu, err := client.GetMenu(7)
	require.NoError(t, err)
	require.Len(t, menu.Entries, 1)
	assert.Equal(t, arbiter.PinMenuText, menu.Entries[0].Text)
	assert.True(t, menu.Entries[0].Checked)

	sweep, err := client.Sweep()
	require.NoError(t, err)
	assert.Equal(t, []uint32{3}, sweep.Minimized)
	assert.Empty(t, sweep.Restored)

	status, err := client.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.DaemonRunning)
	assert.Equal(t, 1, status.Pinned)
	assert.Equal(t, 1, status.Sweeps)

	require.NoError(t, client.Reload())
	h.mu.Lock()
	assert.Equal(t, 1, h.reloads)
	h.mu.Unlock()
	require.NoError(t, client.Ping())
}

func TestHandlerErrorsBecomeDaemonErrors(t *testing.T) {
	h := &fakeHandler{pins: map[uint32]bool{}, failNext: errors.New("policy must be one of: active-window, dominance")}
	_, client := startServer(t, h)

	err := client.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daemon error")
	assert.Contains(t, err.Error(), "policy must be one of")

	_, err = client.TogglePin(99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), arbiter.ErrNoWindow.Error())
}

func TestServerRejectsBadRequests(t *testing.T) {
	srv, _ := startServer(t, &fakeHandler{pins: map[uint32]bool{}})

	send := func(line string) Response {
		conn, err := net.Dial("unix", srv.SocketPath())
		require.NoError(t, err)
		defer conn.Close()
		conn.SetDeadline(time.Now().Add(2 * time.Second))
		_, err = conn.Write([]byte(line + "\n"))
		require.NoError(t, err)
		data, err := bufio.NewReader(conn).ReadBytes('\n')
		require.NoError(t, err)
		var resp Response
		require.NoError(t, json.Unmarshal(data, &resp))
		return resp
	}

	resp := send("not json")
	assert.Equal(t, "ERROR", resp.Status)
	assert.Contains(t, resp.Error, "Invalid request")

	resp = send(`{"command":"TILE"}`)
	assert.Equal(t, "ERROR", resp.Status)
	assert.Contains(t, resp.Error, "Unknown command: TILE")

	resp = send(`{"command":"TOGGLE_PIN","payload":"seven"}`)
	assert.Equal(t, "ERROR", resp.Status)
	assert.Contains(t, resp.Error, "invalid payload")
}

func TestServerRefusesSecondInstance(t *testing.T) {
	srv, _ := startServer(t, &fakeHandler{pins: map[uint32]bool{}})

	second := NewServerAt(srv.SocketPath(), &fakeHandler{}, zaptest.NewLogger(t))
	err := second.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestServerReplacesStaleSocket(t *testing.T) {
	path := socketPath(t)
	require.NoError(t, os.WriteFile(path, nil, 0600))

	srv := NewServerAt(path, &fakeHandler{pins: map[uint32]bool{}}, zaptest.NewLogger(t))
	require.NoError(t, srv.Start())
	defer srv.Stop()

	_, err := NewClientAt(path).GetStatus()
	require.NoError(t, err)
}

func TestStopRemovesSocket(t *testing.T) {
	path := socketPath(t)
	srv := NewServerAt(path, &fakeHandler{pins: map[uint32]bool{}}, zaptest.NewLogger(t))
	require.NoError(t, srv.Start())
	srv.Stop()

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	_, err = NewClientAt(path).GetStatus()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is the daemon running?")
}

func TestNewStatusData(t *testing.T) {
	st := arbiter.Status{
		Policy:  arbiter.PolicyActiveWindow,
		Uptime:  90 * time.Second,
		Sweeps:  4,
		Pinned:  2,
		Victims: 3,
		Options: arbiter.DefaultOptions(),
	}
	data := NewStatusData(st)
	assert.True(t, data.DaemonRunning)
	assert.Equal(t, int64(90), data.UptimeSeconds)
	assert.Equal(t, arbiter.PolicyActiveWindow, data.Policy)
	assert.Equal(t, 3, data.Victims)
	assert.True(t, data.RespectOverlap)
}
