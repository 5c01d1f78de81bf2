// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

// Package plot is the typed figure/axes API over the embedded charting
// runtime. It contains no marshaling logic of its own: every operation
// is a thin call site on the invocation protocol in internal/luart.
package plot

import (
	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/lunaplot/lunaplot/internal/luart"
)

// Kwarg aliases the binding core's keyword argument so call sites need
// only this package.
type Kwarg = luart.Kwarg

// Kw starts a keyword argument: plot.Kw("color").Val("red").
func Kw(name string) luart.KwargKey {
	return luart.Kw(name)
}

// FigureExists reports whether a figure with the given number is
// registered in the runtime.
func FigureExists(num int) (bool, error) {
	rt, err := luart.Ensure()
	if err != nil {
		return false, err
	}
	res, err := rt.Invoke(rt.Module(), "fignum_exists", luart.A(num))
	if err != nil {
		return false, err
	}
	defer res.Close()
	return lua.LVAsBool(res.Value()), nil
}

// FigureIDs returns the numbers of all registered figures, ascending.
func FigureIDs() ([]int, error) {
	rt, err := luart.Ensure()
	if err != nil {
		return nil, err
	}
	res, err := rt.Invoke(rt.Module(), "get_fignums", nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	tbl, ok := res.Value().(*lua.LTable)
	if !ok {
		return nil, oops.In("plot").With("got", res.Value().Type().String()).New("get_fignums returned a non-sequence")
	}
	ids := make([]int, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		ids = append(ids, int(lua.LVAsNumber(tbl.RawGetInt(i))))
	}
	return ids, nil
}

// CloseAll closes every registered figure.
func CloseAll() error {
	rt, err := luart.Ensure()
	if err != nil {
		return err
	}
	res, err := rt.Invoke(rt.Module(), "close", luart.A("all"))
	if err != nil {
		return err
	}
	res.Close()
	return nil
}

// UseStyle selects the style applied to subsequently created figures.
func UseStyle(name string) error {
	rt, err := luart.Ensure()
	if err != nil {
		return err
	}
	style, err := rt.Attr(rt.Module(), "style")
	if err != nil {
		return err
	}
	defer style.Close()

	res, err := rt.Invoke(style, "use", luart.A(name))
	if err != nil {
		return err
	}
	res.Close()
	return nil
}

// Styles returns the names of the styles the runtime knows.
func Styles() ([]string, error) {
	rt, err := luart.Ensure()
	if err != nil {
		return nil, err
	}
	res, err := rt.Invoke(rt.Module(), "style_names", nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	tbl, ok := res.Value().(*lua.LTable)
	if !ok {
		return nil, oops.In("plot").With("got", res.Value().Type().String()).New("style_names returned a non-sequence")
	}
	names := make([]string, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		names = append(names, lua.LVAsString(tbl.RawGetInt(i)))
	}
	return names, nil
}

// RenderAll renders every registered figure to SVG text, keyed by
// figure number.
func RenderAll() (map[int]string, error) {
	ids, err := FigureIDs()
	if err != nil {
		return nil, err
	}
	out := make(map[int]string, len(ids))
	for _, id := range ids {
		fig, err := NewFigure(id)
		if err != nil {
			return nil, err
		}
		svg, err := fig.Render()
		if err != nil {
			return nil, err
		}
		out[id] = svg
	}
	return out, nil
}
