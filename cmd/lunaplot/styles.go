// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

package main

import (
	"github.com/spf13/cobra"

	"github.com/lunaplot/lunaplot/pkg/plot"
)

// NewStylesCmd creates the styles subcommand.
func NewStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List available chart styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := plot.Styles()
			if err != nil {
				return err
			}
			for _, name := range names {
				cmd.Println(name)
			}
			return nil
		},
	}
}
