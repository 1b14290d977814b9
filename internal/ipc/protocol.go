package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/solowindow/internal/arbiter"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload    CommandType = "RELOAD"
	CommandGetStatus CommandType = "GET_STATUS"
	CommandListPins  CommandType = "LIST_PINS"
	CommandTogglePin CommandType = "TOGGLE_PIN"
	CommandGetMenu   CommandType = "GET_MENU"
	CommandSweep     CommandType = "SWEEP"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning  bool   `json:"daemon_running"`
	Version        string `json:"version,omitempty"`
	Policy         string `json:"policy"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	Sweeps         int    `json:"sweeps"`
	SweepLimited   bool   `json:"sweep_limited,omitempty"`
	Tracked        int    `json:"tracked"`
	Pinned         int    `json:"pinned"`
	Manual         int    `json:"manual"`
	PendingIntents int    `json:"pending_intents"`
	Causers        int    `json:"causers"`
	Victims        int    `json:"victims"`

	RespectMonitors           bool `json:"respect_monitors"`
	RespectVirtualDesktops    bool `json:"respect_virtual_desktops"`
	RespectOverlap            bool `json:"respect_overlap"`
	PinnedWindowsDontMinimize bool `json:"pinned_windows_dont_minimize"`
	MaxSweeps                 int  `json:"max_sweeps,omitempty"`
}

// NewStatusData converts an engine status snapshot.
func NewStatusData(st arbiter.Status) StatusData {
	return StatusData{
		DaemonRunning:             true,
		Policy:                    st.Policy,
		UptimeSeconds:             int64(st.Uptime.Seconds()),
		Sweeps:                    st.Sweeps,
		SweepLimited:              st.SweepLimited,
		Tracked:                   st.Tracked,
		Pinned:                    st.Pinned,
		Manual:                    st.Manual,
		PendingIntents:            st.PendingIntents,
		Causers:                   st.Causers,
		Victims:                   st.Victims,
		RespectMonitors:           st.Options.RespectMonitors,
		RespectVirtualDesktops:    st.Options.RespectVirtualDesktops,
		RespectOverlap:            st.Options.RespectOverlap,
		PinnedWindowsDontMinimize: st.Options.PinnedWindowsDontMinimize,
		MaxSweeps:                 st.Options.MaxSweeps,
	}
}

// PinInfo is one pinned window.
type PinInfo struct {
	WindowID uint32 `json:"window_id"`
	Caption  string `json:"caption"`
}

// PinsData represents the data returned by LIST_PINS
type PinsData struct {
	Pins []PinInfo `json:"pins"`
}

// WindowPayload names a window; zero means the active window.
type WindowPayload struct {
	WindowID uint32 `json:"window_id"`
}

// TogglePinData represents the data returned by TOGGLE_PIN
type TogglePinData struct {
	WindowID uint32 `json:"window_id"`
	Caption  string `json:"caption"`
	Pinned   bool   `json:"pinned"`
}

// MenuItem is one context-menu entry.
type MenuItem struct {
	Text      string `json:"text"`
	Checkable bool   `json:"checkable"`
	Checked   bool   `json:"checked"`
}

// MenuData represents the data returned by GET_MENU. Entries is empty for
// windows that get no menu.
type MenuData struct {
	WindowID uint32     `json:"window_id"`
	Entries  []MenuItem `json:"entries"`
}

// SweepData represents the data returned by SWEEP
type SweepData struct {
	Minimized []uint32 `json:"minimized"`
	Restored  []uint32 `json:"restored"`
	Skipped   bool     `json:"skipped,omitempty"`
}

// NewSweepData converts a sweep result.
func NewSweepData(res arbiter.SweepResult) SweepData {
	out := SweepData{
		Minimized: make([]uint32, 0, len(res.Minimized)),
		Restored:  make([]uint32, 0, len(res.Restored)),
		Skipped:   res.Skipped,
	}
	for _, id := range res.Minimized {
		out.Minimized = append(out.Minimized, uint32(id))
	}
	for _, id := range res.Restored {
		out.Restored = append(out.Restored, uint32(id))
	}
	return out
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
