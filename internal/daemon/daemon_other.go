//go:build !linux

package daemon

import (
	"context"
	"errors"

	"github.com/1broseidon/solowindow/internal/config"
	"github.com/1broseidon/solowindow/internal/logging"
)

// Options configure a Daemon.
type Options struct {
	ConfigPath string
	Version    string
}

// Daemon is unavailable off Linux.
type Daemon struct{}

func New(Options, *config.Config, *logging.Logger) *Daemon { return &Daemon{} }

func (d *Daemon) Run(context.Context) error {
	return errors.New("solowindow daemon requires Linux with an X11 session")
}

func (d *Daemon) Reload() error { return nil }
