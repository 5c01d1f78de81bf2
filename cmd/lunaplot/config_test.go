// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("out-dir", ".", "")
	flags.String("kind", "line", "")
	flags.String("style", "", "")
	flags.String("title", "", "")
	flags.String("log-format", "json", "")
	flags.String("log-level", "info", "")
	flags.String("metrics-addr", "", "")
	return flags
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(renderFlags(), "")
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.OutDir)
	assert.Equal(t, "line", cfg.Kind)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
kind: scatter
out-dir: /tmp/charts
series-styles:
  - match: "cpu*"
    color: "#ff0000"
  - match: "*"
    color: "#00ff00"
`)

	cfg, err := loadConfig(renderFlags(), path)
	require.NoError(t, err)

	assert.Equal(t, "scatter", cfg.Kind)
	assert.Equal(t, "/tmp/charts", cfg.OutDir)
	require.Len(t, cfg.SeriesStyles, 2)
	assert.Equal(t, "cpu*", cfg.SeriesStyles[0].Match)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := writeConfigFile(t, "kind: scatter\n")

	flags := renderFlags()
	require.NoError(t, flags.Set("kind", "bar"))

	cfg, err := loadConfig(flags, path)
	require.NoError(t, err)
	assert.Equal(t, "bar", cfg.Kind, "a flag the user set must win over the file")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(renderFlags(), "/nonexistent/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config file")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "bad kind",
			mutate:  func(c *Config) { c.Kind = "pie" },
			wantErr: "kind must be",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: "log-format must be",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: "log-level must be",
		},
		{
			name: "bad glob pattern",
			mutate: func(c *Config) {
				c.SeriesStyles = []SeriesStyle{{Match: "[", Color: "#fff"}}
			},
			wantErr: "invalid series-styles pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Kind: "line", LogFormat: "json", LogLevel: "info"}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSeriesColor_FirstMatchWins(t *testing.T) {
	cfg := &Config{
		SeriesStyles: []SeriesStyle{
			{Match: "cpu*", Color: "#ff0000"},
			{Match: "*", Color: "#0000ff"},
		},
	}

	assert.Equal(t, "#ff0000", cfg.SeriesColor("cpu_user"))
	assert.Equal(t, "#0000ff", cfg.SeriesColor("memory"))
}

func TestSeriesColor_NoMatch(t *testing.T) {
	cfg := &Config{
		SeriesStyles: []SeriesStyle{{Match: "cpu*", Color: "#ff0000"}},
	}
	assert.Equal(t, "", cfg.SeriesColor("disk"))
}
