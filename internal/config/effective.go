package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies the merged raw config on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Policy != nil {
		cfg.Policy = strings.ToLower(strings.TrimSpace(*raw.Policy))
	}
	setIf(&cfg.RespectMonitors, raw.RespectMonitors)
	setIf(&cfg.RespectVirtualDesktops, raw.RespectVirtualDesktops)
	setIf(&cfg.RespectOverlap, raw.RespectOverlap)
	setIf(&cfg.PinnedWindowsDontMinimize, raw.PinnedWindowsDontMinimize)
	setIf(&cfg.AdoptMinimizedOnStart, raw.AdoptMinimizedOnStart)
	setIf(&cfg.PinHotkey, raw.PinHotkey)
	setIf(&cfg.SweepHotkey, raw.SweepHotkey)
	if raw.LogLevel != nil {
		cfg.LogLevel = normalizeLogLevel(*raw.LogLevel)
	}
	setIf(&cfg.LogFile, raw.LogFile)
	setIf(&cfg.ReconcileIntervalSeconds, raw.ReconcileIntervalSeconds)
	setIf(&cfg.IntentTimeoutSeconds, raw.IntentTimeoutSeconds)
	setIf(&cfg.MaxSweeps, raw.MaxSweeps)

	return cfg, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// normalizeLogLevel accepts "warn" as an alias of "warning".
func normalizeLogLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warn" {
		return "warning"
	}
	return level
}
