// SPDX-License-Identifier: AGPL-3.0-or-later

/*

partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package cli wires together the partcraft root Cobra command and global CLI options.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"partcraft/internal/cli/commands"
)

// NewRootCommand constructs the partcraft root Cobra command.
// This command wires subcommands like `plan`, `execute`, `clean`, `status`.
//
// Feature: ARCH_OVERVIEW
// Spec: spec/overview.md
func NewRootCommand() *cobra.Command {
	version := os.Getenv("PARTCRAFT_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "partcraft",
		Short:         "partcraft – a parts-based build lifecycle engine",
		Long:          "partcraft computes and runs the actions needed to pull, overlay, build, stage, and prime a declarative set of parts.",
		SilenceUsage:  true, // don't dump usage on user errors
		SilenceErrors: true, // centralize error printing in main()
	}

	// Global flags - registered in lexicographic order for deterministic help output
	cmd.PersistentFlags().StringP("config", "c", "", "path to the parts file (default: partcraft.yaml)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().StringP("work-dir", "w", "", "project work directory (default: .partcraft)")

	// Version command – simple and explicit.
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of partcraft",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "partcraft version %s\n", version)
		},
	})

	// Subcommands - keep registrations in lexicographic order by .Use
	// for deterministic help output.
	cmd.AddCommand(commands.NewCleanCommand())
	cmd.AddCommand(commands.NewExecuteCommand())
	cmd.AddCommand(commands.NewPlanCommand())
	cmd.AddCommand(commands.NewStatusCommand())

	return cmd
}
