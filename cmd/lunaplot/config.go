// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

package main

import (
	"fmt"
	"os"

	"github.com/gobwas/glob"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/lunaplot/lunaplot/internal/xdg"
)

// SeriesStyle maps series names (glob pattern) to a stroke color.
type SeriesStyle struct {
	Match string `koanf:"match"`
	Color string `koanf:"color"`
}

// Config holds the render configuration, layered from the config file
// and command-line flags (flags win for values the user set).
type Config struct {
	OutDir       string        `koanf:"out-dir"`
	Kind         string        `koanf:"kind"`
	Style        string        `koanf:"style"`
	Title        string        `koanf:"title"`
	LogFormat    string        `koanf:"log-format"`
	LogLevel     string        `koanf:"log-level"`
	MetricsAddr  string        `koanf:"metrics-addr"`
	SeriesStyles []SeriesStyle `koanf:"series-styles"`
}

// Validate checks that the configuration is valid.
func (cfg *Config) Validate() error {
	switch cfg.Kind {
	case "line", "scatter", "bar":
	default:
		return fmt.Errorf("kind must be 'line', 'scatter' or 'bar', got %q", cfg.Kind)
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return fmt.Errorf("log-format must be 'json' or 'text', got %q", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log-level must be 'debug', 'info', 'warn' or 'error', got %q", cfg.LogLevel)
	}
	for _, rule := range cfg.SeriesStyles {
		if _, err := glob.Compile(rule.Match); err != nil {
			return fmt.Errorf("invalid series-styles pattern %q: %w", rule.Match, err)
		}
	}
	return nil
}

// SeriesColor returns the color for a series name per the first
// matching style rule, or "" when no rule matches.
func (cfg *Config) SeriesColor(name string) string {
	for _, rule := range cfg.SeriesStyles {
		g, err := glob.Compile(rule.Match)
		if err != nil {
			continue // validated at load time
		}
		if g.Match(name) {
			return rule.Color
		}
	}
	return ""
}

// loadConfig layers the YAML config file (explicit --config path, or
// the default XDG location when present) under the command's flags.
func loadConfig(flags *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		if def := xdg.DefaultConfigFile(); fileExists(def) {
			path = def
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Flags the user set override the file; unset flags only fill
	// keys the file did not provide.
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
