// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

package luart

import (
	"reflect"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
)

// Convertible is implemented by host types that convert themselves
// into a runtime value. It is one half of the open conversion
// protocol; the other half is the converter registry for types the
// host code does not own.
type Convertible interface {
	ToLua(rt *Runtime) (Handle, error)
}

// Grid is the image-like capability: a rectangular 2-D aggregate
// exposing its row/column size and indexed access. Grids convert to a
// nested row-major sequence. Rectangularity is the adapter's contract;
// see plot.Matrix for a checked adapter over [][]float64.
type Grid interface {
	Dims() (rows, cols int)
	At(row, col int) any
}

// ConvertFunc converts one host value of a registered type.
type ConvertFunc func(rt *Runtime, v any) (Handle, error)

var converters = map[reflect.Type]ConvertFunc{}

// Register adds a converter for host type T, extending the conversion
// protocol without modifying the core. Registration is expected at
// package init time, before any conversion runs; later registrations
// for the same type overwrite earlier ones.
func Register[T any](fn func(rt *Runtime, v T) (Handle, error)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	converters[t] = func(rt *Runtime, v any) (Handle, error) {
		return fn(rt, v.(T))
	}
}

// ToValue converts a host value into an owning runtime handle.
//
// Built-in cases, tried in order: handle passthrough, raw runtime
// values, booleans, signed and unsigned integers, floating point,
// strings and byte slices, the Convertible interface, the converter
// registry, the Grid capability, and finally any slice whose elements
// are themselves convertible. Anything else is a conversion failure:
// the error observer fires and an empty handle is returned.
//
// Conversion never mutates the host value.
func (rt *Runtime) ToValue(v any) (Handle, error) {
	if rt.closed {
		return Handle{}, rt.fail("conversion", oops.In("luart").Code(ErrCodeClosed).New("runtime is shut down"))
	}

	switch x := v.(type) {
	case Handle:
		if !x.Ok() {
			return Handle{}, rt.fail("conversion", oops.In("luart").Code(ErrCodeConversion).New("cannot convert an empty handle"))
		}
		return x.Clone(), nil
	case lua.LValue:
		if x == lua.LNil {
			return Handle{}, rt.fail("conversion", oops.In("luart").Code(ErrCodeConversion).New("cannot convert a nil runtime value"))
		}
		return rt.Borrow(x), nil
	case bool:
		return rt.Own(lua.LBool(x)), nil
	case int:
		return rt.Own(lua.LNumber(x)), nil
	case int8:
		return rt.Own(lua.LNumber(x)), nil
	case int16:
		return rt.Own(lua.LNumber(x)), nil
	case int32:
		return rt.Own(lua.LNumber(x)), nil
	case int64:
		return rt.Own(lua.LNumber(x)), nil
	case uint:
		return rt.Own(lua.LNumber(x)), nil
	case uint8:
		return rt.Own(lua.LNumber(x)), nil
	case uint16:
		return rt.Own(lua.LNumber(x)), nil
	case uint32:
		return rt.Own(lua.LNumber(x)), nil
	case uint64:
		return rt.Own(lua.LNumber(x)), nil
	case float32:
		return rt.Own(lua.LNumber(x)), nil
	case float64:
		return rt.Own(lua.LNumber(x)), nil
	case string:
		return rt.Own(lua.LString(x)), nil
	case []byte:
		return rt.Own(lua.LString(x)), nil
	}

	if c, ok := v.(Convertible); ok {
		h, err := c.ToLua(rt)
		if err != nil {
			return Handle{}, err
		}
		if !h.Ok() {
			return Handle{}, rt.fail("conversion", oops.In("luart").Code(ErrCodeConversion).With("type", reflect.TypeOf(v).String()).New("converter produced no value"))
		}
		return h, nil
	}

	if v != nil {
		if fn, ok := converters[reflect.TypeOf(v)]; ok {
			return fn(rt, v)
		}
	}

	if g, ok := v.(Grid); ok {
		return rt.convertGrid(g)
	}

	if v != nil && reflect.TypeOf(v).Kind() == reflect.Slice {
		return rt.convertSlice(reflect.ValueOf(v))
	}

	return Handle{}, rt.fail("conversion", oops.In("luart").
		Code(ErrCodeConversion).
		With("type", reflect.TypeOf(v)).
		Hint("register a converter or implement Convertible").
		New("unsupported host type"))
}

// convertSlice builds an ordered sequence, converting each element
// recursively and inserting in iteration order.
func (rt *Runtime) convertSlice(sv reflect.Value) (Handle, error) {
	tbl := rt.ls.NewTable()
	out := rt.Own(tbl)
	for i := 0; i < sv.Len(); i++ {
		eh, err := rt.ToValue(sv.Index(i).Interface())
		if err != nil {
			out.Close()
			return Handle{}, err
		}
		// The sequence takes the element's reference over.
		tbl.RawSetInt(i+1, eh.Release())
	}
	return out, nil
}

// convertGrid builds a row-major nested sequence from an image-like
// value.
func (rt *Runtime) convertGrid(g Grid) (Handle, error) {
	rows, cols := g.Dims()
	outer := rt.ls.NewTable()
	out := rt.Own(outer)
	for r := 0; r < rows; r++ {
		rowTbl := rt.ls.NewTable()
		row := rt.Own(rowTbl)
		for c := 0; c < cols; c++ {
			eh, err := rt.ToValue(g.At(r, c))
			if err != nil {
				row.Close()
				out.Close()
				return Handle{}, err
			}
			rowTbl.RawSetInt(c+1, eh.Release())
		}
		outer.RawSetInt(r+1, row.Release())
	}
	return out, nil
}
