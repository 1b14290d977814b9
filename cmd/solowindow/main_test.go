package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/solowindow/internal/config"
	"github.com/1broseidon/solowindow/internal/ipc"
)

type fakeClient struct {
	status  ipc.StatusData
	pins    []ipc.PinInfo
	toggled []uint32
	menu    []ipc.MenuItem
	sweep   ipc.SweepData
	reloads int
	err     error
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	st := f.status
	return &st, nil
}

func (f *fakeClient) ListPins() (*ipc.PinsData, error) {
	return &ipc.PinsData{Pins: f.pins}, f.err
}

func (f *fakeClient) TogglePin(windowID uint32) (*ipc.TogglePinData, error) {
	f.toggled = append(f.toggled, windowID)
	return &ipc.TogglePinData{WindowID: windowID, Caption: "editor", Pinned: true}, f.err
}

func (f *fakeClient) GetMenu(windowID uint32) (*ipc.MenuData, error) {
	return &ipc.MenuData{WindowID: windowID, Entries: f.menu}, f.err
}

func (f *fakeClient) Sweep() (*ipc.SweepData, error) {
	res := f.sweep
	return &res, f.err
}

func (f *fakeClient) Reload() error {
	f.reloads++
	return f.err
}

func useClient(t *testing.T, c daemonClient) {
	t.Helper()
	prev := newClient
	newClient = func() daemonClient { return c }
	t.Cleanup(func() { newClient = prev })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseWindowID(t *testing.T) {
	cases := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"", 0, false},
		{"42", 42, false},
		{"0x3a00007", 0x3a00007, false},
		{"window", 0, true},
		{"0x1ffffffff", 0, true},
	}
	for _, tc := range cases {
		got, err := parseWindowID(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestOutputFormatAuto(t *testing.T) {
	prev := isTerminal
	t.Cleanup(func() { isTerminal = prev })

	useClient(t, &fakeClient{status: ipc.StatusData{DaemonRunning: true, Policy: "dominance", Tracked: 3}})

	isTerminal = func(io.Writer) bool { return false }
	out, err := execute(t, "status")
	require.NoError(t, err)
	var st ipc.StatusData
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 3, st.Tracked)

	isTerminal = func(io.Writer) bool { return true }
	out, err = execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "policy:")
	assert.Contains(t, out, "dominance")
}

func TestUnsupportedFormat(t *testing.T) {
	useClient(t, &fakeClient{})
	_, err := execute(t, "status", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestPinCommand(t *testing.T) {
	fc := &fakeClient{}
	useClient(t, fc)

	out, err := execute(t, "pin", "--window", "0x10", "--format", "table")
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x10}, fc.toggled)
	assert.Contains(t, out, "pinned 0x00000010")

	_, err = execute(t, "pin", "--window", "nope")
	assert.Error(t, err)
	assert.Len(t, fc.toggled, 1)
}

func TestPinsAndMenuTables(t *testing.T) {
	useClient(t, &fakeClient{
		pins: []ipc.PinInfo{{WindowID: 7, Caption: "terminal"}},
		menu: []ipc.MenuItem{{Text: "Pin window", Checkable: true, Checked: true}},
	})

	out, err := execute(t, "pins", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "0x00000007")
	assert.Contains(t, out, "terminal")

	out, err = execute(t, "menu", "--format", "table")
	require.NoError(t, err)
	assert.Equal(t, "[x] Pin window\n", out)
}

func TestSweepTable(t *testing.T) {
	useClient(t, &fakeClient{sweep: ipc.SweepData{Minimized: []uint32{2, 3}}})
	out, err := execute(t, "sweep", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "minimized: 0x00000002 0x00000003")
	assert.Contains(t, out, "restored:  -")

	useClient(t, &fakeClient{sweep: ipc.SweepData{Skipped: true}})
	out, err = execute(t, "sweep", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "skipped")
}

func TestDaemonErrorsSurface(t *testing.T) {
	useClient(t, &fakeClient{err: errors.New("daemon not running")})
	_, err := execute(t, "reload")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daemon not running")
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("policy: active-window\nmax_sweeps: 4\n"), 0o644))

	out, err := execute(t, "config", "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "config: ok (1 file(s))")

	out, err = execute(t, "config", "explain", "policy", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "value: active-window")
	assert.Contains(t, out, "source: file:")
	assert.Contains(t, out, "config.yaml:1:")

	out, err = execute(t, "config", "explain", "pin_hotkey", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "source: default:defaults")

	out, err = execute(t, "config", "print", "--defaults", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "policy: dominance")
	assert.True(t, strings.Contains(out, "max_sweeps: 0"))
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("policy: tallest\n"), 0o644))
	_, err := execute(t, "config", "validate", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.yaml:1:")
}

func TestFormatSource(t *testing.T) {
	assert.Equal(t, "default", formatSource(config.Source{Kind: config.SourceDefault}))
	assert.Equal(t, "default:defaults", formatSource(config.Source{Kind: config.SourceDefault, Name: "defaults"}))
	assert.Equal(t, "file:/a.yaml", formatSource(config.Source{Kind: config.SourceFile, File: "/a.yaml"}))
	assert.Equal(t, "file:/a.yaml:3:5", formatSource(config.Source{Kind: config.SourceFile, File: "/a.yaml", Line: 3, Column: 5}))
}
