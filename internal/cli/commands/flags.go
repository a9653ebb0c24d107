// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

// Feature: CLI_GLOBAL_FLAGS
// Spec: spec/core/global-flags.md

package commands

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"partcraft/pkg/config"
)

// ResolvedFlags contains the resolved values for every global flag.
type ResolvedFlags struct {
	Config  string
	WorkDir string
	Verbose bool
}

// ResolveFlags resolves global flags with precedence:
// 1. command-line flags (highest priority)
// 2. PARTCRAFT_* environment variables
// 3. built-in defaults (lowest priority)
func ResolveFlags(cmd *cobra.Command) *ResolvedFlags {
	flags := &ResolvedFlags{}

	configFlag, _ := cmd.Flags().GetString("config")
	flags.Config = resolveString(configFlag, os.Getenv("PARTCRAFT_CONFIG"), config.DefaultConfigPath())

	workDirFlag, _ := cmd.Flags().GetString("work-dir")
	flags.WorkDir = resolveString(workDirFlag, os.Getenv("PARTCRAFT_WORK_DIR"), ".partcraft")

	verboseFlag, _ := cmd.Flags().GetBool("verbose")
	flags.Verbose = resolveBool(verboseFlag, parseBoolEnv(os.Getenv("PARTCRAFT_VERBOSE")), false)

	return flags
}

// resolveString resolves a string value with precedence: flag > env > default.
func resolveString(flag, env, defaultValue string) string {
	if flag != "" {
		return flag
	}
	if env != "" {
		return env
	}
	return defaultValue
}

// resolveBool resolves a boolean value with precedence: flag > env > default.
func resolveBool(flag, env, defaultValue bool) bool {
	if flag {
		return true
	}
	if env {
		return true
	}
	return defaultValue
}

// parseBoolEnv parses a boolean from an environment variable, returning
// false if the variable is unset or unparsable.
func parseBoolEnv(value string) bool {
	if value == "" {
		return false
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return parsed
}
