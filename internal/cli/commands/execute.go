// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"partcraft/pkg/logging"
)

// Feature: CLI_EXECUTE
// Spec: spec/commands/execute.md

// NewExecuteCommand returns the `partcraft execute` command.
func NewExecuteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Plan and run the actions needed to reach a lifecycle step",
		Long:  "Computes the ordered action list needed to bring the project's parts to the given step, then runs it.",
		RunE:  runExecute,
	}

	cmd.Flags().String("until", "prime", "target lifecycle step: pull, overlay, build, stage, or prime")
	cmd.Flags().String("parts", "", "comma-separated list of parts to execute (default: every part)")
	cmd.Flags().Bool("rerun", false, "force every named part back to pull, ignoring persisted state")

	return cmd
}

func runExecute(cmd *cobra.Command, _ []string) error {
	flags := ResolveFlags(cmd)
	logger := newLogger(flags)

	mgr, err := buildManager(flags)
	if err != nil {
		return fmt.Errorf("loading parts file: %w", err)
	}

	target, partNames, rerun, err := parsePlanFlags(cmd)
	if err != nil {
		return err
	}

	actions, err := mgr.Plan(target, partNames, rerun)
	if err != nil {
		return fmt.Errorf("computing plan: %w", err)
	}

	if len(actions) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing to do")
		return nil
	}

	for _, a := range actions {
		logger.Info(a.String())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := mgr.ActionExecutor(ctx, actions); err != nil {
		return fmt.Errorf("executing plan: %w", err)
	}

	logger.Info("done", logging.NewField("actions", len(actions)))
	return nil
}
