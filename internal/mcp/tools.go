package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, *status, nil
}

func (s *Server) handleListPins(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListPinsOutput, error) {
	pins, err := s.client.ListPins()
	if err != nil {
		return nil, ListPinsOutput{}, err
	}
	return nil, *pins, nil
}

func (s *Server) handleTogglePin(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, TogglePinOutput, error) {
	res, err := s.client.TogglePin(args.WindowID)
	if err != nil {
		return nil, TogglePinOutput{}, fmt.Errorf("toggle pin on window %d: %w", args.WindowID, err)
	}
	s.logger.Info("pin toggled over MCP",
		zap.Uint32("window_id", res.WindowID),
		zap.Bool("pinned", res.Pinned),
	)
	return nil, *res, nil
}

func (s *Server) handleGetMenu(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, MenuOutput, error) {
	menu, err := s.client.GetMenu(args.WindowID)
	if err != nil {
		return nil, MenuOutput{}, fmt.Errorf("menu for window %d: %w", args.WindowID, err)
	}
	return nil, *menu, nil
}

func (s *Server) handleSweep(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, SweepOutput, error) {
	res, err := s.client.Sweep()
	if err != nil {
		return nil, SweepOutput{}, err
	}
	return nil, *res, nil
}

func (s *Server) handleReload(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ReloadOutput, error) {
	if err := s.client.Reload(); err != nil {
		return nil, ReloadOutput{}, err
	}
	return nil, ReloadOutput{Reloaded: true}, nil
}
