// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/lunaplot/lunaplot/internal/logging"
	"github.com/lunaplot/lunaplot/internal/observability"
	"github.com/lunaplot/lunaplot/internal/xdg"
	"github.com/lunaplot/lunaplot/pkg/errutil"
	"github.com/lunaplot/lunaplot/pkg/plot"
)

// series is one named value column from an input file.
type series struct {
	name   string
	values []float64
}

// dataset is one parsed input file: the first column provides x values
// (and bar labels), remaining columns are series.
type dataset struct {
	xs     []float64
	labels []string
	series []series
}

// NewRenderCmd creates the render subcommand.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [flags] <input.csv>... ",
		Short: "Render CSV data to SVG charts",
		Long: `Render reads CSV files (header row naming the columns, first column
providing x values) and renders one SVG chart per input through the
embedded charting runtime. Use "-" to read from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runRender(cmd, cfg, args)
		},
	}

	cmd.Flags().String("out-dir", ".", "output directory for rendered SVG files (empty = XDG data dir)")
	cmd.Flags().String("kind", "line", "chart kind (line, scatter or bar)")
	cmd.Flags().String("style", "", "chart style applied before rendering")
	cmd.Flags().String("title", "", "chart title (default: input file name)")
	cmd.Flags().String("log-format", "json", "log format (json or text)")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn or error)")
	cmd.Flags().String("metrics-addr", "", "metrics/health HTTP address (empty = disabled)")

	return cmd
}

func runRender(cmd *cobra.Command, cfg *Config, inputs []string) error {
	logging.SetDefault("lunaplot", version, cfg.LogFormat, cfg.LogLevel)

	var metrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		srv := observability.NewServer(cfg.MetricsAddr, func() bool { return true })
		if _, err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start observability server: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(ctx)
		}()
		metrics = srv.Metrics()
	}

	if cfg.Style != "" {
		if err := plot.UseStyle(cfg.Style); err != nil {
			return err
		}
	}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = xdg.DataDir()
	}
	if err := xdg.EnsureDir(outDir); err != nil {
		return err
	}

	slog.Info("starting render",
		"inputs", len(inputs),
		"kind", cfg.Kind,
		"out_dir", outDir,
	)

	failed := 0
	for _, input := range inputs {
		out, err := renderOne(cfg, outDir, input)
		if metrics != nil {
			status := "ok"
			if err != nil {
				status = "error"
			}
			metrics.RendersTotal.WithLabelValues(cfg.Kind, status).Inc()
		}
		if err != nil {
			errutil.LogError(slog.Default(), "render failed", err)
			failed++
			continue
		}
		cmd.Println(out)
		slog.Info("rendered figure", "input", input, "output", out)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed to render", failed, len(inputs))
	}
	return nil
}

// renderOne renders a single input file and returns the output path.
func renderOne(cfg *Config, outDir, input string) (string, error) {
	var r io.Reader
	if input == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(filepath.Clean(input))
		if err != nil {
			return "", fmt.Errorf("failed to open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	ds, err := parseDataset(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", input, err)
	}

	fig, err := plot.NewFigure()
	if err != nil {
		return "", err
	}
	defer func() { _ = fig.Close() }()

	title := cfg.Title
	if title == "" && input != "-" {
		title = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	if title != "" {
		if err := fig.SetTitle(title); err != nil {
			return "", err
		}
	}

	if err := drawDataset(fig, cfg, ds); err != nil {
		return "", err
	}

	out := outputPath(outDir, input)
	if err := fig.SaveSVG(out); err != nil {
		return "", err
	}
	return out, nil
}

func drawDataset(fig *plot.Figure, cfg *Config, ds *dataset) error {
	if cfg.Kind == "bar" {
		if len(ds.series) == 0 {
			return fmt.Errorf("bar chart needs at least one value column")
		}
		s := ds.series[0]
		kwargs := seriesKwargs(cfg, s.name)
		return fig.Bar(ds.labels, s.values, kwargs...)
	}

	for _, s := range ds.series {
		kwargs := seriesKwargs(cfg, s.name)
		kwargs = append(kwargs, plot.Kw("label").Val(s.name))
		var err error
		if cfg.Kind == "scatter" {
			err = fig.Scatter(ds.xs, s.values, kwargs...)
		} else {
			err = fig.Plot(ds.xs, s.values, kwargs...)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func seriesKwargs(cfg *Config, name string) []plot.Kwarg {
	if color := cfg.SeriesColor(name); color != "" {
		return []plot.Kwarg{plot.Kw("color").Val(color)}
	}
	return nil
}

// outputPath derives the SVG output path from the input name. Stdin
// input gets a generated name.
func outputPath(outDir, input string) string {
	if input == "-" {
		return filepath.Join(outDir, "render-"+ulid.Make().String()+".svg")
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(outDir, base+".svg")
}

// parseDataset reads a CSV document with a header row. The first
// column is x; when its values are not numeric, row indices are used
// and the raw strings become bar labels.
func parseDataset(r io.Reader) (*dataset, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("need a header row and at least one data row")
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("need an x column and at least one value column")
	}
	rows := records[1:]

	ds := &dataset{
		xs:     make([]float64, len(rows)),
		labels: make([]string, len(rows)),
	}

	numericX := true
	for i, row := range rows {
		ds.labels[i] = row[0]
		x, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			numericX = false
			continue
		}
		ds.xs[i] = x
	}
	if !numericX {
		for i := range ds.xs {
			ds.xs[i] = float64(i)
		}
	}

	for col := 1; col < len(header); col++ {
		s := series{name: header[col], values: make([]float64, len(rows))}
		for i, row := range rows {
			if col >= len(row) {
				return nil, fmt.Errorf("row %d has %d columns, want %d", i+1, len(row), len(header))
			}
			v, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i+1, header[col], err)
			}
			s.values[i] = v
		}
		ds.series = append(ds.series, s)
	}
	return ds, nil
}
