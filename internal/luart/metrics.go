// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

package luart

import "github.com/prometheus/client_golang/prometheus"

// Package-level counters so every call site can record without holding
// a registry reference. Registered by the observability server.
var (
	invocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunaplot_invocations_total",
			Help: "Total number of foreign method invocations by method name",
		},
		[]string{"method"},
	)

	foreignFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunaplot_foreign_failures_total",
			Help: "Total number of failed foreign operations by kind",
		},
		[]string{"kind"},
	)
)

// RegisterMetrics registers the binding core's collectors.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(invocations, foreignFailures)
}
