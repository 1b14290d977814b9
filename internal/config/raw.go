package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawConfig is one config file as written. Nil fields were not set.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Policy                    *string `yaml:"policy"`
	RespectMonitors           *bool   `yaml:"respect_monitors"`
	RespectVirtualDesktops    *bool   `yaml:"respect_virtual_desktops"`
	RespectOverlap            *bool   `yaml:"respect_overlap"`
	PinnedWindowsDontMinimize *bool   `yaml:"pinned_windows_dont_minimize"`
	AdoptMinimizedOnStart     *bool   `yaml:"adopt_minimized_on_start"`

	PinHotkey   *string `yaml:"pin_hotkey"`
	SweepHotkey *string `yaml:"sweep_hotkey"`

	LogLevel *string `yaml:"log_level"`
	LogFile  *string `yaml:"log_file"`

	ReconcileIntervalSeconds *int `yaml:"reconcile_interval_seconds"`
	IntentTimeoutSeconds     *int `yaml:"intent_timeout_seconds"`
	MaxSweeps                *int `yaml:"max_sweeps"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	out.Policy = pick(out.Policy, overlay.Policy)
	out.RespectMonitors = pick(out.RespectMonitors, overlay.RespectMonitors)
	out.RespectVirtualDesktops = pick(out.RespectVirtualDesktops, overlay.RespectVirtualDesktops)
	out.RespectOverlap = pick(out.RespectOverlap, overlay.RespectOverlap)
	out.PinnedWindowsDontMinimize = pick(out.PinnedWindowsDontMinimize, overlay.PinnedWindowsDontMinimize)
	out.AdoptMinimizedOnStart = pick(out.AdoptMinimizedOnStart, overlay.AdoptMinimizedOnStart)
	out.PinHotkey = pick(out.PinHotkey, overlay.PinHotkey)
	out.SweepHotkey = pick(out.SweepHotkey, overlay.SweepHotkey)
	out.LogLevel = pick(out.LogLevel, overlay.LogLevel)
	out.LogFile = pick(out.LogFile, overlay.LogFile)
	out.ReconcileIntervalSeconds = pick(out.ReconcileIntervalSeconds, overlay.ReconcileIntervalSeconds)
	out.IntentTimeoutSeconds = pick(out.IntentTimeoutSeconds, overlay.IntentTimeoutSeconds)
	out.MaxSweeps = pick(out.MaxSweeps, overlay.MaxSweeps)

	return out
}

// pick returns overlay when it is set.
func pick[T any](base, overlay *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}
