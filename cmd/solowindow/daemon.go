package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/1broseidon/solowindow/internal/daemon"
	"github.com/1broseidon/solowindow/internal/logging"
)

func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Start the solowindow daemon (foreground)",
		Args:  cobra.NoArgs,
		RunE:  runDaemon,
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	res, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := res.Config

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logger.Close()

	logger.Info("configuration loaded",
		zap.Strings("files", res.Files),
		zap.String("policy", cfg.Policy),
		zap.String("pin_hotkey", cfg.PinHotkey),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configPath, _ := cmd.Flags().GetString("config")
	d := daemon.New(daemon.Options{ConfigPath: configPath, Version: Version}, cfg, logger)
	if err := d.Run(ctx); err != nil {
		logger.Error("daemon failed", zap.Error(err))
		return err
	}
	return nil
}
