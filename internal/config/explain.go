package config

import (
	"fmt"
	"sort"
)

// Explain returns the effective value at the given key and its source.
//
// Keys are the top-level YAML keys, for example:
//
//	policy
//	respect_overlap
//	pin_hotkey
//	intent_timeout_seconds
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// Keys lists the paths accepted by Explain.
func Keys() []string {
	keys := make([]string, 0, len(lookups))
	for k := range lookups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var lookups = map[string]func(*Config) any{
	"policy":                       func(c *Config) any { return c.Policy },
	"respect_monitors":             func(c *Config) any { return c.RespectMonitors },
	"respect_virtual_desktops":     func(c *Config) any { return c.RespectVirtualDesktops },
	"respect_overlap":              func(c *Config) any { return c.RespectOverlap },
	"pinned_windows_dont_minimize": func(c *Config) any { return c.PinnedWindowsDontMinimize },
	"adopt_minimized_on_start":     func(c *Config) any { return c.AdoptMinimizedOnStart },
	"pin_hotkey":                   func(c *Config) any { return c.PinHotkey },
	"sweep_hotkey":                 func(c *Config) any { return c.SweepHotkey },
	"log_level":                    func(c *Config) any { return c.LogLevel },
	"log_file":                     func(c *Config) any { return c.LogFile },
	"reconcile_interval_seconds":   func(c *Config) any { return c.ReconcileIntervalSeconds },
	"intent_timeout_seconds":       func(c *Config) any { return c.IntentTimeoutSeconds },
	"max_sweeps":                   func(c *Config) any { return c.MaxSweeps },
}

func lookupValue(cfg *Config, path string) (any, error) {
	get, ok := lookups[path]
	if !ok {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	return get(cfg), nil
}
