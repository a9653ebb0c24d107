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
	"strings"

	"github.com/spf13/cobra"

	"partcraft/pkg/steps"
)

// Feature: CLI_PLAN
// Spec: spec/commands/plan.md

// NewPlanCommand returns the `partcraft plan` command.
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the actions needed to reach a lifecycle step without running them",
		Long:  "Computes and prints the ordered action list the project's parts need to reach the given step, without executing any of them.",
		RunE:  runPlan,
	}

	cmd.Flags().String("until", "prime", "target lifecycle step: pull, overlay, build, stage, or prime")
	cmd.Flags().String("parts", "", "comma-separated list of parts to plan (default: every part)")
	cmd.Flags().Bool("rerun", false, "force every named part back to pull, ignoring persisted state")

	return cmd
}

func runPlan(cmd *cobra.Command, _ []string) error {
	flags := ResolveFlags(cmd)

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
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), a.String())
	}
	return nil
}

func parsePlanFlags(cmd *cobra.Command) (steps.Step, []string, bool, error) {
	untilFlag, _ := cmd.Flags().GetString("until")
	target, err := steps.ParseStep(untilFlag)
	if err != nil {
		return 0, nil, false, fmt.Errorf("invalid --until value: %w", err)
	}

	partsFlag, _ := cmd.Flags().GetString("parts")
	partNames := parsePartsList(partsFlag)

	rerun, _ := cmd.Flags().GetBool("rerun")

	return target, partNames, rerun, nil
}

func parsePartsList(raw string) []string {
	if raw == "" {
		return nil
	}
	fields := strings.Split(raw, ",")
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
