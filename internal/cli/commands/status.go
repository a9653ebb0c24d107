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
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Feature: CLI_STATUS
// Spec: spec/commands/status.md

// NewStatusCommand returns the `partcraft status` command.
func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show project configuration and recorded build state",
		Long:  "Prints the resolved project configuration, the parts it declares, and a summary of the state recorded for each part so far.",
		RunE:  runStatus,
	}

	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	flags := ResolveFlags(cmd)

	mgr, err := buildManager(flags)
	if err != nil {
		return fmt.Errorf("loading parts file: %w", err)
	}

	info := mgr.ProjectInfo()
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintf(out, "application: %s\n", info.ApplicationName())
	if name := info.ProjectName(); name != "" {
		_, _ = fmt.Fprintf(out, "project: %s\n", name)
	}
	_, _ = fmt.Fprintf(out, "arch: %s\n", info.Arch())
	_, _ = fmt.Fprintf(out, "work-dir: %s\n", info.Dirs().WorkDir)

	if snaps := mgr.ExtraBuildSnaps(); len(snaps) > 0 {
		_, _ = fmt.Fprintf(out, "extra build-snaps: %s\n", strings.Join(snaps, ", "))
	}

	names := make([]string, 0, len(mgr.Parts()))
	for name := range mgr.Parts() {
		names = append(names, name)
	}
	sort.Strings(names)

	_, _ = fmt.Fprintln(out, "parts:")
	for _, name := range names {
		assets, err := mgr.GetPullAssets(name)
		if err != nil {
			return fmt.Errorf("reading state for part %q: %w", name, err)
		}
		state := "not pulled"
		if assets != nil {
			state = "pulled"
		}
		_, _ = fmt.Fprintf(out, "  %s: %s\n", name, state)
	}

	pkgs, err := mgr.GetPrimedStagePackages()
	if err != nil {
		return fmt.Errorf("reading staged packages: %w", err)
	}
	if len(pkgs) > 0 {
		_, _ = fmt.Fprintf(out, "staged packages: %s\n", strings.Join(pkgs, ", "))
	}

	return nil
}
