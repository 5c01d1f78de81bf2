// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the lunaplot CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lunaplot",
		Short: "lunaplot - typed charts over an embedded charting runtime",
		Long: `lunaplot renders charts from CSV data through an embedded
dynamically-typed charting runtime, driven entirely by a typed
argument-marshaling and invocation layer.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewStylesCmd())

	return cmd
}
