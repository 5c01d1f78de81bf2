// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

// Package luart is the binding core between typed Go code and the
// embedded Lua charting runtime.
//
// It owns the runtime lifecycle, the pinned-reference object handles,
// the value conversion protocol, the argument/keyword builders, the
// invocation protocol, and the process-wide error observer. Everything
// above this package (pkg/plot, the CLI) reaches the charting runtime
// exclusively through these operations.
package luart

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/lunaplot/lunaplot/internal/chartlib"
)

// Error codes attached to oops errors raised by the binding core.
const (
	ErrCodeRuntime    = "RUNTIME_INIT"
	ErrCodeClosed     = "RUNTIME_CLOSED"
	ErrCodeConversion = "CONVERSION_FAILED"
	ErrCodeInvoke     = "INVOKE_FAILED"
)

// safeLibrary is a Lua library that is safe to load into the sandboxed state.
type safeLibrary struct {
	name string
	fn   lua.LGFunction
}

// Safe: base, table, string, math. Blocked: os, io, debug, package.
func safeLibraries() []safeLibrary {
	return []safeLibrary{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
}

// unsafeBaseFunctions lists base library functions that would break
// sandboxing through filesystem access. They are removed after load.
var unsafeBaseFunctions = []string{"dofile", "loadfile", "loadstring", "load"}

// Runtime owns one embedded Lua state hosting the charting library.
//
// A Runtime is process-wide shared mutable state driven by a single
// logical thread; no internal locking is provided for the operations
// on it.
type Runtime struct {
	ls      *lua.LState
	module  Handle
	pins    map[lua.LValue]int
	anchors *lua.LTable
	lastErr string
	closed  bool
}

var (
	defaultOnce sync.Once
	defaultRT   *Runtime
	defaultErr  error
)

// Ensure returns the process-wide runtime, initializing it on first
// call. Repeated calls are cheap and return the same instance.
// Initialization failure is unrecoverable: it indicates a broken
// embedded charting library, not a transient condition, and every
// subsequent call reports the same error.
func Ensure() (*Runtime, error) {
	defaultOnce.Do(func() {
		defaultRT, defaultErr = New(context.Background())
	})
	return defaultRT, defaultErr
}

// Shutdown tears down the process-wide runtime. Handles that outlive
// it degrade to no-ops on Close.
func Shutdown() {
	if defaultRT != nil {
		defaultRT.Close()
	}
}

// New creates an independent runtime with the charting library loaded.
// Most code should use Ensure; New exists for tests that need an
// isolated state.
//
// The ctx parameter is reserved for future cancellation/timeout support.
func New(_ context.Context) (*Runtime, error) {
	ls := lua.NewState(lua.Options{
		SkipOpenLibs: true, // Don't load any libraries by default
	})

	for _, lib := range safeLibraries() {
		if err := ls.CallByParam(lua.P{
			Fn:      ls.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			ls.Close()
			return nil, oops.In("luart").Code(ErrCodeRuntime).With("library", lib.name).Hint("failed to open library").Wrap(err)
		}
	}

	for _, fn := range unsafeBaseFunctions {
		ls.SetGlobal(fn, lua.LNil)
	}

	rt := &Runtime{
		ls:      ls,
		pins:    make(map[lua.LValue]int),
		anchors: ls.NewTable(),
	}

	// Anchor table lives in the registry so pinned values stay
	// reachable from the Lua side for as long as a handle holds them.
	ls.G.Registry.RawSetString("lunaplot_anchors", rt.anchors)

	ls.SetGlobal("__plot_write", ls.NewFunction(writeFileFn))

	if err := ls.DoString(chartlib.Source()); err != nil {
		ls.Close()
		return nil, oops.In("luart").Code(ErrCodeRuntime).Hint("charting library failed to load").Wrap(err)
	}

	mod := ls.GetGlobal(chartlib.GlobalName)
	if mod.Type() != lua.LTTable {
		ls.Close()
		return nil, oops.In("luart").Code(ErrCodeRuntime).With("global", chartlib.GlobalName).New("charting library did not install its module table")
	}
	rt.module = rt.Borrow(mod)

	return rt, nil
}

// Module returns the handle to the charting library's module table.
// The handle is shared with the runtime; callers must not Close it.
func (rt *Runtime) Module() Handle {
	return rt.module
}

// State exposes the underlying Lua state for read-back in tests.
func (rt *Runtime) State() *lua.LState {
	return rt.ls
}

// Close tears down the runtime. Safe to call more than once.
func (rt *Runtime) Close() {
	if rt.closed {
		return
	}
	rt.closed = true
	rt.ls.Close()
}

// Closed reports whether the runtime has been torn down.
func (rt *Runtime) Closed() bool {
	return rt.closed
}

// LastError returns the sticky diagnostic recorded by the most recent
// failing foreign operation. It is cleared after the error observer has
// been notified, so it is only non-empty while the observer runs.
func (rt *Runtime) LastError() string {
	return rt.lastErr
}

// retain adds one reference unit for v to the pin ledger and anchors
// the value on the Lua side. Nil carries no reference.
func (rt *Runtime) retain(v lua.LValue) {
	if v == nil || v == lua.LNil || rt.closed {
		return
	}
	rt.pins[v]++
	rt.anchors.RawSetH(v, lua.LNumber(rt.pins[v]))
}

// unpin drops one reference unit for v. No-op after the runtime has
// been torn down: a handle must never decrement through a dead state.
func (rt *Runtime) unpin(v lua.LValue) {
	if v == nil || v == lua.LNil || rt.closed {
		return
	}
	n := rt.pins[v]
	switch {
	case n <= 1:
		delete(rt.pins, v)
		rt.anchors.RawSetH(v, lua.LNil)
	default:
		rt.pins[v] = n - 1
		rt.anchors.RawSetH(v, lua.LNumber(n-1))
	}
}

// PinCount returns the number of reference units currently held for v.
func (rt *Runtime) PinCount(v lua.LValue) int {
	return rt.pins[v]
}

// LivePins returns the total number of reference units across all
// pinned values. Tests assert that scenarios return this to its
// pre-scenario baseline.
func (rt *Runtime) LivePins() int {
	total := 0
	for _, n := range rt.pins {
		total += n
	}
	return total
}

// fail routes one failing foreign operation through the error observer.
// Order matters: record the sticky diagnostic, notify, clear, return.
// The sticky record must never remain set when control returns to
// unrelated foreign calls.
func (rt *Runtime) fail(kind string, err error) error {
	foreignFailures.WithLabelValues(kind).Inc()
	rt.lastErr = err.Error()
	notify(err)
	rt.lastErr = ""
	return err
}

// writeFileFn is the host write function exposed to the charting
// library as __plot_write(path, data). The sandbox has no io library;
// this is the single persistence path.
func writeFileFn(L *lua.LState) int {
	path := L.CheckString(1)
	data := L.CheckString(2)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			L.RaiseError("cannot create directory %s: %s", dir, err)
			return 0
		}
	}
	if err := os.WriteFile(filepath.Clean(path), []byte(data), 0o644); err != nil {
		L.RaiseError("cannot write %s: %s", path, err)
		return 0
	}
	return 0
}
