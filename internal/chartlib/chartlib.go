// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

// Package chartlib embeds the Lua source of the charting runtime.
//
// The library defines the global `plot` table that the binding core
// drives through attribute lookup and method calls. It expects the host
// to have registered the global __plot_write(path, data) function before
// the source is executed.
package chartlib

import _ "embed"

//go:embed chart.lua
var source string

// GlobalName is the global under which the library installs itself.
const GlobalName = "plot"

// Source returns the Lua source of the charting runtime.
func Source() string {
	return source
}
