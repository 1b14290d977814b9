package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/solowindow/internal/arbiter"
)

const (
	DefaultPolicy                   = arbiter.PolicyDominance
	DefaultPinHotkey                = "Mod4-Mod1-p"
	DefaultLogLevel                 = "info"
	DefaultReconcileIntervalSeconds = 10
	DefaultIntentTimeoutSeconds     = 5
)

// Config is the effective daemon configuration.
type Config struct {
	Policy string `yaml:"policy"`

	RespectMonitors           bool `yaml:"respect_monitors"`
	RespectVirtualDesktops    bool `yaml:"respect_virtual_desktops"`
	RespectOverlap            bool `yaml:"respect_overlap"`
	PinnedWindowsDontMinimize bool `yaml:"pinned_windows_dont_minimize"`

	// AdoptMinimizedOnStart treats windows that are already minimized when
	// the daemon starts as minimized by the user.
	AdoptMinimizedOnStart bool `yaml:"adopt_minimized_on_start"`

	PinHotkey   string `yaml:"pin_hotkey"`
	SweepHotkey string `yaml:"sweep_hotkey,omitempty"` // empty disables

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file,omitempty"` // empty logs to stderr

	ReconcileIntervalSeconds int `yaml:"reconcile_interval_seconds"` // 0 disables
	IntentTimeoutSeconds     int `yaml:"intent_timeout_seconds"`

	// MaxSweeps stops sweeping after this many sweeps; 0 is unlimited.
	MaxSweeps int `yaml:"max_sweeps"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Policy:                    DefaultPolicy,
		RespectMonitors:           true,
		RespectVirtualDesktops:    true,
		RespectOverlap:            true,
		PinnedWindowsDontMinimize: true,
		AdoptMinimizedOnStart:     true,
		PinHotkey:                 DefaultPinHotkey,
		LogLevel:                  DefaultLogLevel,
		ReconcileIntervalSeconds:  DefaultReconcileIntervalSeconds,
		IntentTimeoutSeconds:      DefaultIntentTimeoutSeconds,
	}
}

// EngineOptions returns the rule toggles for the arbitration engine.
func (c *Config) EngineOptions() arbiter.Options {
	return arbiter.Options{
		RespectMonitors:           c.RespectMonitors,
		RespectVirtualDesktops:    c.RespectVirtualDesktops,
		RespectOverlap:            c.RespectOverlap,
		PinnedWindowsDontMinimize: c.PinnedWindowsDontMinimize,
		MaxSweeps:                 c.MaxSweeps,
	}
}

// EnginePolicy resolves the configured policy.
func (c *Config) EnginePolicy() (arbiter.Policy, error) {
	return arbiter.PolicyByName(c.Policy)
}

func (c *Config) ReconcileInterval() time.Duration {
	return time.Duration(c.ReconcileIntervalSeconds) * time.Second
}

func (c *Config) IntentTimeout() time.Duration {
	return time.Duration(c.IntentTimeoutSeconds) * time.Second
}

// Save writes the config to the default location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates the config and writes it to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func (c *Config) Validate() error {
	if _, err := arbiter.PolicyByName(c.Policy); err != nil {
		return &ValidationError{Path: "policy", Err: fmt.Errorf("policy must be one of: %s", strings.Join(arbiter.PolicyNames(), ", "))}
	}
	if strings.TrimSpace(c.PinHotkey) == "" {
		return &ValidationError{Path: "pin_hotkey", Err: fmt.Errorf("pin_hotkey is required")}
	}
	if c.SweepHotkey != "" && c.SweepHotkey == c.PinHotkey {
		return &ValidationError{Path: "sweep_hotkey", Err: fmt.Errorf("sweep_hotkey must differ from pin_hotkey")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.ReconcileIntervalSeconds < 0 {
		return &ValidationError{Path: "reconcile_interval_seconds", Err: fmt.Errorf("reconcile_interval_seconds must be >= 0")}
	}
	if c.IntentTimeoutSeconds <= 0 {
		return &ValidationError{Path: "intent_timeout_seconds", Err: fmt.Errorf("intent_timeout_seconds must be > 0")}
	}
	if c.MaxSweeps < 0 {
		return &ValidationError{Path: "max_sweeps", Err: fmt.Errorf("max_sweeps must be >= 0")}
	}
	return nil
}
