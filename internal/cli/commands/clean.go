// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"partcraft/pkg/logging"
	"partcraft/pkg/steps"
)

// Feature: CLI_CLEAN
// Spec: spec/commands/clean.md

// NewCleanCommand returns the `partcraft clean` command.
func NewCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove state and artifacts for a step and everything after it",
		Long:  "Removes the persisted state record and on-disk artifacts for the given step, and every step after it, for the named parts (or every part, if none are named).",
		RunE:  runClean,
	}

	cmd.Flags().String("step", "pull", "step to clean from: pull, overlay, build, stage, or prime")
	cmd.Flags().String("parts", "", "comma-separated list of parts to clean (default: every part)")

	return cmd
}

func runClean(cmd *cobra.Command, _ []string) error {
	flags := ResolveFlags(cmd)
	logger := newLogger(flags)

	mgr, err := buildManager(flags)
	if err != nil {
		return fmt.Errorf("loading parts file: %w", err)
	}

	stepFlag, _ := cmd.Flags().GetString("step")
	step, err := steps.ParseStep(stepFlag)
	if err != nil {
		return fmt.Errorf("invalid --step value: %w", err)
	}

	partsFlag, _ := cmd.Flags().GetString("parts")
	partNames := parsePartsList(partsFlag)

	if err := mgr.Clean(step, partNames); err != nil {
		return fmt.Errorf("cleaning: %w", err)
	}

	logger.Info("cleaned", logging.NewField("step", step.String()))
	return nil
}
