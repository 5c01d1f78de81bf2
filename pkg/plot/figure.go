// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

package plot

import (
	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/lunaplot/lunaplot/internal/luart"
)

// Figure is one figure in the charting runtime with its single axes.
// Creating a Figure with the number of an existing one attaches to it.
type Figure struct {
	rt    *luart.Runtime
	num   int
	fig   luart.Handle
	ax    luart.Handle
	image luart.Handle
}

// NewFigure creates (or attaches to) a figure. With no argument the
// runtime picks the smallest unused number.
func NewFigure(num ...int) (*Figure, error) {
	rt, err := luart.Ensure()
	if err != nil {
		return nil, err
	}

	var args luart.Args
	if len(num) > 0 {
		args = luart.A(num[0])
	}
	fig, err := rt.Invoke(rt.Module(), "figure", args)
	if err != nil {
		return nil, err
	}

	ax, err := rt.Invoke(fig, "gca", nil)
	if err != nil {
		fig.Close()
		return nil, err
	}

	numRes, err := rt.Invoke(fig, "number", nil)
	if err != nil {
		ax.Close()
		fig.Close()
		return nil, err
	}
	n := int(lua.LVAsNumber(numRes.Value()))
	numRes.Close()

	return &Figure{rt: rt, num: n, fig: fig, ax: ax}, nil
}

// Num returns the figure number.
func (f *Figure) Num() int {
	return f.num
}

// Plot adds a line series. When a "label" keyword is supplied the
// legend is enabled, matching what callers of a plotting API expect
// from labeled series.
func (f *Figure) Plot(x, y []float64, kwargs ...Kwarg) error {
	res, err := f.rt.Invoke(f.ax, "plot", luart.A(x, y), kwargs...)
	if err != nil {
		return err
	}
	res.Close()
	if luart.With(kwargs...).Has("label") {
		return f.Legend()
	}
	return nil
}

// Scatter adds a point series.
func (f *Figure) Scatter(x, y []float64, kwargs ...Kwarg) error {
	res, err := f.rt.Invoke(f.ax, "scatter", luart.A(x, y), kwargs...)
	if err != nil {
		return err
	}
	res.Close()
	if luart.With(kwargs...).Has("label") {
		return f.Legend()
	}
	return nil
}

// Bar adds a bar series from parallel label/value sequences. The
// runtime rejects sequences of different lengths.
func (f *Figure) Bar(labels []string, values []float64, kwargs ...Kwarg) error {
	res, err := f.rt.Invoke(f.ax, "bar", luart.A(labels, values), kwargs...)
	if err != nil {
		return err
	}
	res.Close()
	return nil
}

// Hist adds a histogram of values. Use Kw("bins").Val(n) to override
// the bin count.
func (f *Figure) Hist(values []float64, kwargs ...Kwarg) error {
	res, err := f.rt.Invoke(f.ax, "hist", luart.A(values), kwargs...)
	if err != nil {
		return err
	}
	res.Close()
	return nil
}

// Fill adds a filled polygon. The point sequence is decomposed into
// two parallel per-axis coordinate sequences before the call.
func (f *Figure) Fill(points []Point, kwargs ...Kwarg) error {
	xs, ys := SplitXY(points)
	res, err := f.rt.Invoke(f.ax, "fill", luart.A(xs, ys), kwargs...)
	if err != nil {
		return err
	}
	res.Close()
	return nil
}

// Imshow displays an image-like grid on the axes. The result stays
// referenced so a colorbar can attach to it later.
func (f *Figure) Imshow(g luart.Grid, kwargs ...Kwarg) error {
	res, err := f.rt.Invoke(f.ax, "imshow", luart.A(g), kwargs...)
	if err != nil {
		return err
	}
	f.image.Close()
	f.image = res
	return nil
}

// AddColorbar attaches a colorbar to the most recent image. It is a
// host-side error to call this before Imshow.
func (f *Figure) AddColorbar() error {
	if !f.image.Ok() {
		return oops.In("plot").With("figure", f.num).New("cannot add colorbar; no image has been set")
	}
	res, err := f.rt.Invoke(f.rt.Module(), "colorbar", nil,
		Kw("mappable").Val(f.image),
		Kw("ax").Val(f.ax),
	)
	if err != nil {
		return err
	}
	res.Close()
	return nil
}

// SetTitle sets the axes title.
func (f *Figure) SetTitle(title string) error {
	return f.axCall("set_title", luart.A(title))
}

// SetXLabel sets the x axis label.
func (f *Figure) SetXLabel(label string) error {
	return f.axCall("set_xlabel", luart.A(label))
}

// SetYLabel sets the y axis label.
func (f *Figure) SetYLabel(label string) error {
	return f.axCall("set_ylabel", luart.A(label))
}

// Legend enables the legend for labeled series.
func (f *Figure) Legend() error {
	return f.axCall("legend", nil)
}

// Title reads the current axes title back from the runtime.
func (f *Figure) Title() (string, error) {
	h, err := f.rt.Attr(f.ax, "title")
	if err != nil {
		return "", err
	}
	defer h.Close()
	return lua.LVAsString(h.Value()), nil
}

// Render produces the figure's SVG document.
func (f *Figure) Render() (string, error) {
	res, err := f.rt.Invoke(f.fig, "render", nil)
	if err != nil {
		return "", err
	}
	defer res.Close()
	return lua.LVAsString(res.Value()), nil
}

// SaveSVG renders the figure and writes it to path through the
// runtime's host write function.
func (f *Figure) SaveSVG(path string) error {
	res, err := f.rt.Invoke(f.fig, "savefig", luart.A(path))
	if err != nil {
		return err
	}
	res.Close()
	return nil
}

// Close removes the figure from the runtime registry and drops the
// handles this Figure holds.
func (f *Figure) Close() error {
	res, err := f.rt.Invoke(f.rt.Module(), "close", luart.A(f.num))
	if err == nil {
		res.Close()
	}
	f.image.Close()
	f.ax.Close()
	f.fig.Close()
	return err
}

func (f *Figure) axCall(method string, args luart.Args) error {
	res, err := f.rt.Invoke(f.ax, method, args)
	if err != nil {
		return err
	}
	res.Close()
	return nil
}
