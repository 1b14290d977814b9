package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/solowindow/internal/arbiter"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Policy != arbiter.PolicyDominance {
		t.Fatalf("expected default policy %q, got %q", arbiter.PolicyDominance, cfg.Policy)
	}
	if !cfg.RespectMonitors || !cfg.RespectVirtualDesktops || !cfg.RespectOverlap || !cfg.PinnedWindowsDontMinimize {
		t.Fatalf("expected all rule toggles on by default, got %+v", cfg)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no loaded files, got %v", res.Files)
	}
	if res.Config.PinHotkey != DefaultPinHotkey {
		t.Fatalf("expected pin_hotkey %q, got %q", DefaultPinHotkey, res.Config.PinHotkey)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.IntentTimeoutSeconds != DefaultIntentTimeoutSeconds {
		t.Fatalf("expected intent_timeout_seconds %d, got %d", DefaultIntentTimeoutSeconds, res.Config.IntentTimeoutSeconds)
	}
}

func TestLoadFromPath_OverridesAndEngineOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"policy: Active-Window",
		"respect_monitors: false",
		"respect_overlap: false",
		"max_sweeps: 3",
		"log_level: warn",
		"reconcile_interval_seconds: 0",
		"",
	}, "\n")
	writeFile(t, path, data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Policy != arbiter.PolicyActiveWindow {
		t.Fatalf("expected policy normalized to %q, got %q", arbiter.PolicyActiveWindow, cfg.Policy)
	}
	if cfg.LogLevel != "warning" {
		t.Fatalf("expected warn to normalize to warning, got %q", cfg.LogLevel)
	}
	if cfg.ReconcileInterval() != 0 {
		t.Fatalf("expected reconcile disabled, got %v", cfg.ReconcileInterval())
	}
	if cfg.IntentTimeout() != 5*time.Second {
		t.Fatalf("expected 5s intent timeout, got %v", cfg.IntentTimeout())
	}

	opts := cfg.EngineOptions()
	want := arbiter.Options{
		RespectMonitors:           false,
		RespectVirtualDesktops:    true,
		RespectOverlap:            false,
		PinnedWindowsDontMinimize: true,
		MaxSweeps:                 3,
	}
	if opts != want {
		t.Fatalf("expected options %+v, got %+v", want, opts)
	}

	policy, err := cfg.EnginePolicy()
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	if policy.Name() != arbiter.PolicyActiveWindow {
		t.Fatalf("expected active-window policy, got %q", policy.Name())
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_InvalidPolicyHasSourceContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "respect_overlap: true\npolicy: tiling\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if verr.Path != "policy" {
		t.Fatalf("expected path policy, got %q", verr.Path)
	}
	if verr.Source.Line != 2 {
		t.Fatalf("expected source line 2, got %d", verr.Source.Line)
	}
	if !strings.Contains(err.Error(), path+":2:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
	if !strings.Contains(err.Error(), "dominance") {
		t.Fatalf("expected available policies in error, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"empty pin hotkey", func(c *Config) { c.PinHotkey = " " }, "pin_hotkey"},
		{"sweep equals pin", func(c *Config) { c.SweepHotkey = c.PinHotkey }, "sweep_hotkey"},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
		{"negative reconcile", func(c *Config) { c.ReconcileIntervalSeconds = -1 }, "reconcile_interval_seconds"},
		{"zero intent timeout", func(c *Config) { c.IntentTimeoutSeconds = 0 }, "intent_timeout_seconds"},
		{"negative max sweeps", func(c *Config) { c.MaxSweeps = -2 }, "max_sweeps"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tc.path {
				t.Fatalf("expected path %q, got %q", tc.path, verr.Path)
			}
		})
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(configD, "10-base.yaml"), "max_sweeps: 5\nlog_level: debug\n")
	writeFile(t, filepath.Join(configD, "20-override.yaml"), "max_sweeps: 6\n")
	writeFile(t, filepath.Join(configD, "README.txt"), "not yaml\n")

	// Main file overrides includes.
	path := filepath.Join(dir, "config.yaml")
	main := strings.Join([]string{
		"include:",
		"  - config.d",
		"max_sweeps: 7",
		"",
	}, "\n")
	writeFile(t, path, main)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.MaxSweeps != 7 {
		t.Fatalf("expected max_sweeps to be 7, got %d", res.Config.MaxSweeps)
	}
	if res.Config.LogLevel != "debug" {
		t.Fatalf("expected included log_level debug, got %q", res.Config.LogLevel)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 loaded files, got %v", res.Files)
	}
	if filepath.Base(res.Files[0]) != "10-base.yaml" || filepath.Base(res.Files[2]) != "config.yaml" {
		t.Fatalf("unexpected load order %v", res.Files)
	}

	_, src, err := Explain(res, "log_level")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if src.Kind != SourceFile || filepath.Base(src.File) != "10-base.yaml" {
		t.Fatalf("expected log_level from 10-base.yaml, got %#v", src)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestExplain_DefaultSourceAndUnknownPath(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "pin_hotkey")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != DefaultPinHotkey {
		t.Fatalf("expected %q, got %#v", DefaultPinHotkey, val)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %#v", src)
	}

	if _, _, err := Explain(res, "layouts.grid"); err == nil {
		t.Fatalf("expected unknown path error")
	}
	if len(Keys()) != 13 {
		t.Fatalf("expected 13 explainable keys, got %d", len(Keys()))
	}
}

func TestMarshal_RoundTripsThroughLoader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy = arbiter.PolicyActiveWindow
	cfg.SweepHotkey = "Mod4-s"
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, string(data))
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *res.Config != *cfg {
		t.Fatalf("expected %+v, got %+v", cfg, res.Config)
	}
}

func TestSaveTo_ValidatesAndCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	bad := DefaultConfig()
	bad.PinHotkey = ""
	if err := bad.SaveTo(path); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("invalid config must not be written, stat err=%v", err)
	}

	cfg := DefaultConfig()
	cfg.MaxSweeps = 3
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.MaxSweeps != 3 {
		t.Fatalf("expected max_sweeps 3, got %d", res.Config.MaxSweeps)
	}
}

func TestDefaultConfigPath_HonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != filepath.Join(dir, "solowindow", "config.yaml") {
		t.Fatalf("unexpected path %q", path)
	}
}
