// Package mcp exposes the running daemon to MCP clients over stdio. Every
// tool is a thin wrapper around one IPC command.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/solowindow/internal/ipc"
)

const (
	ServerName    = "solowindow"
	ServerVersion = "0.1.0"
)

// DaemonClient is the IPC surface the tools call.
type DaemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	ListPins() (*ipc.PinsData, error)
	TogglePin(windowID uint32) (*ipc.TogglePinData, error)
	GetMenu(windowID uint32) (*ipc.MenuData, error)
	Sweep() (*ipc.SweepData, error)
	Reload() error
}

// Server is the MCP server for solowindow.
type Server struct {
	mcpServer *mcpsdk.Server
	client    DaemonClient
	logger    *zap.Logger
}

// NewServer creates an MCP server that talks to the daemon through client.
// A nil client uses the default IPC socket.
func NewServer(client DaemonClient, logger *zap.Logger) *Server {
	if client == nil {
		client = ipc.NewClient()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		client: client,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the solowindow daemon's state: active policy, uptime, sweep count, how many windows are tracked, pinned, manually minimized or auto-minimized, and which placement rules are enabled.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_pins",
		Description: "List pinned windows. Pinned windows are never auto-minimized.",
	}, s.handleListPins)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_pin",
		Description: "Pin or unpin a window, then re-evaluate visibility. Omit window_id to use the active window. Returns the new pin state.",
	}, s.handleTogglePin)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_menu",
		Description: "Show the window context-menu entries solowindow contributes for a window (the checkable pin toggle). Windows that are not normal application windows get no entries.",
	}, s.handleGetMenu)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "sweep",
		Description: "Re-evaluate every window now and apply the result. Returns the ids that were minimized and restored.",
	}, s.handleSweep)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Make the daemon re-read its configuration file. Fails without changing anything when the file is invalid.",
	}, s.handleReload)
}
