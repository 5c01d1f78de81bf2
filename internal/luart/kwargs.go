// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

package luart

import (
	lua "github.com/yuin/gopher-lua"
)

// Kwarg is one (name, value) keyword argument. The value stays a host
// value until the keyword builder converts it for a specific call.
type Kwarg struct {
	name  string
	value any
}

// Name returns the keyword name.
func (k Kwarg) Name() string { return k.name }

// Value returns the unconverted host value.
func (k Kwarg) Value() any { return k.value }

// KwargKey is a name-only placeholder. It is not a Kwarg: it cannot be
// stored or passed to a call until Val binds a value, so an unbound key
// is a compile-time usage error.
type KwargKey struct {
	name string
}

// Kw starts a keyword argument: luart.Kw("color").Val("red").
func Kw(name string) KwargKey {
	return KwargKey{name: name}
}

// Val binds a value to the key, producing a usable Kwarg.
func (k KwargKey) Val(v any) Kwarg {
	return Kwarg{name: k.name, value: v}
}

// Kwargs is an ordered keyword-argument list.
type Kwargs []Kwarg

// With collects keyword arguments in declaration order.
func With(kwargs ...Kwarg) Kwargs {
	return Kwargs(kwargs)
}

// Has reports whether a keyword with the given name was declared.
func (ks Kwargs) Has(name string) bool {
	for _, k := range ks {
		if k.name == name {
			return true
		}
	}
	return false
}

// BuildArgs allocates the positional tuple for one call, converting
// and inserting each value at its index. A conversion failure has
// already been routed through the error observer when the error
// returns; the caller must not attempt the call.
func (rt *Runtime) BuildArgs(values ...any) (Handle, error) {
	tbl := rt.ls.NewTable()
	out := rt.Own(tbl)
	for i, v := range values {
		vh, err := rt.ToValue(v)
		if err != nil {
			out.Close()
			return Handle{}, err
		}
		tbl.RawSetInt(i+1, vh.Release())
	}
	return out, nil
}

// BuildKwargs builds the keyword dictionary for one call.
//
// Zero keywords return an empty handle with no error: the "no keyword
// arguments" sentinel, which the invocation layer treats as omitting
// keywords entirely. With one or more keywords, the list is first
// interleaved into a flat (name, value, name, value, ...) sequence in
// declaration order, then the dictionary is built from that sequence
// in one step. Duplicate names resolve last-write-wins, which is the
// runtime's own table semantics rather than anything enforced here.
func (rt *Runtime) BuildKwargs(kwargs ...Kwarg) (Handle, error) {
	if len(kwargs) == 0 {
		return Handle{}, nil
	}

	flat, err := rt.interleave(kwargs)
	if err != nil {
		return Handle{}, err
	}

	tbl := rt.ls.NewTable()
	out := rt.Own(tbl)
	for i := 0; i < len(flat); i += 2 {
		tbl.RawSetH(flat[i], flat[i+1])
	}
	return out, nil
}

// interleave walks the keyword list left to right and produces the
// flat name/value sequence, converting each value independently.
func (rt *Runtime) interleave(kwargs []Kwarg) ([]lua.LValue, error) {
	flat := make([]lua.LValue, 0, len(kwargs)*2)
	for _, k := range kwargs {
		vh, err := rt.ToValue(k.value)
		if err != nil {
			return nil, err
		}
		flat = append(flat, lua.LString(k.name), vh.Release())
	}
	return flat, nil
}
