// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

package luart

import (
	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
)

// Args is the positional argument pack for one invocation.
type Args []any

// A collects positional arguments.
func A(values ...any) Args {
	return Args(values)
}

// Attr resolves a named attribute on an object. A missing attribute is
// a failure: the error observer fires and an empty handle returns.
func (rt *Runtime) Attr(obj Handle, name string) (Handle, error) {
	if rt.closed {
		return Handle{}, rt.fail("invoke", oops.In("luart").Code(ErrCodeClosed).With("attribute", name).New("runtime is shut down"))
	}
	if !obj.Ok() {
		return Handle{}, rt.fail("invoke", oops.In("luart").Code(ErrCodeInvoke).With("attribute", name).New("attribute lookup on empty handle"))
	}
	switch obj.Value().(type) {
	case *lua.LTable, *lua.LUserData:
	default:
		return Handle{}, rt.fail("invoke", oops.In("luart").
			Code(ErrCodeInvoke).
			With("attribute", name).
			With("reason", "not_indexable").
			New("value has no attributes"))
	}
	v := rt.ls.GetField(obj.Value(), name)
	if v == lua.LNil {
		return Handle{}, rt.fail("invoke", oops.In("luart").
			Code(ErrCodeInvoke).
			With("attribute", name).
			With("reason", "attribute_not_found").
			New("no such attribute"))
	}
	return rt.Borrow(v), nil
}

// Invoke resolves method on obj and calls it with the given positional
// arguments and keywords.
//
// The receiver is passed as the first call argument, converted
// positional values follow, and the keyword dictionary is appended
// only when keywords were supplied, so a call with zero keywords is
// indistinguishable from one that omitted them. Attribute-miss,
// argument-build failure, a call that raises, and a call that returns
// nil all collapse into the same failure signal: the observer fires
// once and an empty handle returns with the error. The oops context
// carries a "reason" key for diagnostics only.
func (rt *Runtime) Invoke(obj Handle, method string, args Args, kwargs ...Kwarg) (Handle, error) {
	fn, err := rt.Attr(obj, method)
	if err != nil {
		return Handle{}, err
	}
	defer fn.Close()

	tuple, err := rt.BuildArgs(args...)
	if err != nil {
		return Handle{}, err
	}
	defer tuple.Close()

	kw, err := rt.BuildKwargs(kwargs...)
	if err != nil {
		return Handle{}, err
	}
	defer kw.Close()

	tupleTbl, ok := tuple.Value().(*lua.LTable)
	if !ok {
		return Handle{}, rt.fail("invoke", oops.In("luart").Code(ErrCodeInvoke).With("method", method).New("positional tuple construction failed"))
	}

	callArgs := make([]lua.LValue, 0, len(args)+2)
	callArgs = append(callArgs, obj.Value())
	for i := 1; i <= tupleTbl.Len(); i++ {
		callArgs = append(callArgs, tupleTbl.RawGetInt(i))
	}
	if kw.Ok() {
		callArgs = append(callArgs, kw.Value())
	}

	invocations.WithLabelValues(method).Inc()

	if err := rt.ls.CallByParam(lua.P{
		Fn:      fn.Value(),
		NRet:    1,
		Protect: true,
	}, callArgs...); err != nil {
		return Handle{}, rt.fail("invoke", oops.In("luart").
			Code(ErrCodeInvoke).
			With("method", method).
			With("reason", "call_raised").
			Wrap(err))
	}

	ret := rt.ls.Get(-1)
	rt.ls.Pop(1)

	if ret == lua.LNil {
		return Handle{}, rt.fail("invoke", oops.In("luart").
			Code(ErrCodeInvoke).
			With("method", method).
			With("reason", "no_result").
			New("call produced no result"))
	}

	return rt.Borrow(ret), nil
}
