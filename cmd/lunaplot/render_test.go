// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseDataset_NumericX(t *testing.T) {
	ds, err := parseDataset(strings.NewReader("t,cpu,mem\n0,10,20\n1,15,25\n2,12,22\n"))
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1, 2}, ds.xs)
	require.Len(t, ds.series, 2)
	assert.Equal(t, "cpu", ds.series[0].name)
	assert.Equal(t, []float64{10, 15, 12}, ds.series[0].values)
	assert.Equal(t, "mem", ds.series[1].name)
}

func TestParseDataset_LabelXFallsBackToIndices(t *testing.T) {
	ds, err := parseDataset(strings.NewReader("host,load\nweb-1,0.5\nweb-2,0.9\n"))
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1}, ds.xs)
	assert.Equal(t, []string{"web-1", "web-2"}, ds.labels)
}

func TestParseDataset_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"header only", "t,v\n", "at least one data row"},
		{"single column", "t\n1\n", "at least one value column"},
		{"bad value", "t,v\n1,notanumber\n", "column \"v\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseDataset(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "data.svg"), outputPath("out", "some/dir/data.csv"))

	generated := outputPath("out", "-")
	assert.True(t, strings.HasPrefix(generated, filepath.Join("out", "render-")))
	assert.True(t, strings.HasSuffix(generated, ".svg"))
}

func TestRenderCommand_WritesSVG(t *testing.T) {
	configFile = ""
	input := writeCSV(t, "metrics.csv", "t,cpu\n0,10\n1,30\n2,20\n")
	outDir := t.TempDir()

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"render", "--out-dir", outDir, "--title", "CPU", input})

	require.NoError(t, cmd.Execute())

	out := filepath.Join(outDir, "metrics.svg")
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Contains(t, string(data), "CPU")
	assert.Contains(t, buf.String(), out)
}

func TestRenderCommand_EmptyOutDirFallsBackToDataDir(t *testing.T) {
	configFile = ""
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	input := writeCSV(t, "metrics.csv", "t,v\n0,1\n1,2\n")

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"render", "--out-dir=", input})

	require.NoError(t, cmd.Execute())

	out := filepath.Join(os.Getenv("XDG_DATA_HOME"), "lunaplot", "metrics.svg")
	data, err := os.ReadFile(out)
	require.NoError(t, err, "empty out-dir should land in the XDG data dir")
	assert.Contains(t, string(data), "<svg")
}

func TestRenderCommand_BarKind(t *testing.T) {
	configFile = ""
	input := writeCSV(t, "hosts.csv", "host,load\nweb-1,0.5\nweb-2,0.9\n")
	outDir := t.TempDir()

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"render", "--kind", "bar", "--out-dir", outDir, input})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(outDir, "hosts.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "web-1")
}

func TestRenderCommand_InvalidKind(t *testing.T) {
	configFile = ""
	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"render", "--kind", "pie", "whatever.csv"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kind must be")
}

func TestRenderCommand_MissingInputFails(t *testing.T) {
	configFile = ""
	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"render", "--out-dir", t.TempDir(), "/nonexistent/data.csv"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to render")
}
