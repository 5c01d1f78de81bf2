// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

package luart

import (
	"log/slog"

	"github.com/lunaplot/lunaplot/pkg/errutil"
)

// Observer is notified exactly once for every foreign-facing operation
// (conversion, argument build, invocation) that yields no result. It
// runs while the runtime's sticky diagnostic is still set and must not
// call back into the runtime.
type Observer func(err error)

var observer Observer = defaultObserver

// SwapObserver installs a new observer and returns the previous one,
// enabling the scoped-override pattern:
//
//	prev := luart.SwapObserver(capture)
//	defer luart.SwapObserver(prev)
//
// Passing nil restores the default observer.
func SwapObserver(fn Observer) Observer {
	prev := observer
	if fn == nil {
		fn = defaultObserver
	}
	observer = fn
	return prev
}

func notify(err error) {
	observer(err)
}

// defaultObserver logs the foreign diagnostic with structured context.
// The failing operation still returns its error to the caller, so under
// the default configuration every foreign-level failure surfaces as a
// host-level error in addition to the log line.
func defaultObserver(err error) {
	errutil.LogError(slog.Default(), "foreign runtime failure", err)
}
