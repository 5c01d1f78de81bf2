// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

package luart

import lua "github.com/yuin/gopher-lua"

// Handle owns one reference unit for a value living in the charting
// runtime. Copying the struct shares the same unit and is a usage
// error; use Clone for shared ownership. The zero Handle is a valid
// empty handle.
//
// The reference unit is tracked in the runtime's pin ledger and
// anchors the value on the Lua side, so a value stays alive for as
// long as its longest-lived handle (or a runtime-internal container
// that took the value over via Release).
type Handle struct {
	rt *Runtime
	v  lua.LValue
}

// Own wraps a freshly produced value, taking its one reference.
// Conversions and allocations use this path.
func (rt *Runtime) Own(v lua.LValue) Handle {
	rt.retain(v)
	return Handle{rt: rt, v: v}
}

// Borrow wraps a value owned elsewhere in the runtime (a call result,
// a table element, a global). The explicit extra reference makes the
// handle an owner in its own right.
func (rt *Runtime) Borrow(v lua.LValue) Handle {
	rt.retain(v)
	return Handle{rt: rt, v: v}
}

// Ok reports whether the handle refers to a value. An empty handle is
// a valid "no value" and is what failed operations return.
func (h Handle) Ok() bool {
	return h.v != nil && h.v != lua.LNil
}

// Value returns the underlying runtime value without transferring
// ownership. The value must not outlive the handle unless something
// pinned keeps it reachable.
func (h Handle) Value() lua.LValue {
	if h.v == nil {
		return lua.LNil
	}
	return h.v
}

// Clone returns a second owning handle for the same value.
func (h Handle) Clone() Handle {
	if !h.Ok() {
		return Handle{}
	}
	h.rt.retain(h.v)
	return Handle{rt: h.rt, v: h.v}
}

// Release hands the value and its reference unit to the caller and
// empties the handle. Used when a consumer takes the reference over,
// typically insertion into a pinned container that keeps the value
// reachable from then on.
func (h *Handle) Release() lua.LValue {
	if !h.Ok() {
		h.v = nil
		return lua.LNil
	}
	v := h.v
	h.rt.unpin(v)
	h.rt = nil
	h.v = nil
	return v
}

// Close drops the handle's reference unit and empties it. Safe on an
// empty handle and after the runtime has been torn down.
func (h *Handle) Close() {
	if h.Ok() {
		h.rt.unpin(h.v)
	}
	h.rt = nil
	h.v = nil
}
