// SPDX-License-Identifier: AGPL-3.0-or-later

/*

partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package cli

import (
	"bytes"
	"strings"
	"testing"
)

// Feature: ARCH_OVERVIEW
// Spec: spec/overview.md
func TestNewRootCommand_HasExpectedBasics(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "partcraft" {
		t.Fatalf("expected Use to be 'partcraft', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Fatalf("expected Short description to be non-empty")
	}

	// Ensure version subcommand exists
	versionCmd, _, err := cmd.Find([]string{"version"})
	if err != nil {
		t.Fatalf("expected to find 'version' subcommand, got error: %v", err)
	}

	if versionCmd.Use != "version" {
		t.Fatalf("expected 'version' command Use to be 'version', got %q", versionCmd.Use)
	}
}

func TestNewRootCommand_HasLifecycleSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"plan", "execute", "clean", "status"} {
		found, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Fatalf("expected to find %q subcommand, got error: %v", name, err)
		}
		if found.Use != name {
			t.Fatalf("expected %q command Use to be %q, got %q", name, name, found.Use)
		}
	}
}

func TestVersionCommand_PrintsVersion(t *testing.T) {
	cmd := NewRootCommand()

	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	// Execute 'partcraft version'
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error executing 'version' command, got: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "partcraft version") {
		t.Fatalf("expected output to contain 'partcraft version', got: %q", out)
	}
}
