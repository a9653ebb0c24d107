// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"partcraft/pkg/plugins"
)

// Feature: CORE_CONFIG
// Spec: spec/core/config.md

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if path != "partcraft.yaml" {
		t.Fatalf("expected DefaultConfigPath to return 'partcraft.yaml', got %q", path)
	}
}

func TestExistsReportsCorrectly(t *testing.T) {
	tmpDir := t.TempDir()

	nonExisting := filepath.Join(tmpDir, "nope.yaml")
	ok, err := Exists(nonExisting)
	if err != nil {
		t.Fatalf("expected no error for non-existing file, got: %v", err)
	}
	if ok {
		t.Fatalf("expected Exists to return false for non-existing file")
	}

	existing := filepath.Join(tmpDir, "partcraft.yaml")
	if err := os.WriteFile(existing, []byte("parts:\n  hello:\n    plugin: dump\n    source: .\n"), 0o600); err != nil {
		t.Fatalf("failed to write temp parts file: %v", err)
	}

	ok, err = Exists(existing)
	if err != nil {
		t.Fatalf("expected no error for existing file, got: %v", err)
	}
	if !ok {
		t.Fatalf("expected Exists to return true for existing file")
	}
}

func TestLoadReturnsErrConfigNotFoundWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()
	_, _, err := Load(filepath.Join(tmpDir, "missing.yaml"), defaultPluginRegistry(t))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got: %v", err)
	}
}

func TestLoadRejectsEmptyPartsFile(t *testing.T) {
	path := writeFile(t, "parts: {}\n")
	_, _, err := Load(path, defaultPluginRegistry(t))
	if err == nil {
		t.Fatalf("expected an error for a parts file with no parts")
	}
}

func TestLoadResolvesTrivialPart(t *testing.T) {
	path := writeFile(t, "parts:\n  hello:\n    plugin: dump\n    source: .\n")

	project, resolved, err := Load(path, defaultPluginRegistry(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project == nil {
		t.Fatalf("expected a non-nil project section")
	}
	part, ok := resolved["hello"]
	if !ok {
		t.Fatalf("expected a resolved part named %q", "hello")
	}
	if part.PluginName != "dump" {
		t.Fatalf("expected plugin %q, got %q", "dump", part.PluginName)
	}
}

func TestLoadRejectsUnknownDependency(t *testing.T) {
	path := writeFile(t, "parts:\n  hello:\n    plugin: dump\n    source: .\n    after: [missing]\n")

	_, _, err := Load(path, defaultPluginRegistry(t))
	if err == nil {
		t.Fatalf("expected an error for a dependency on an unknown part")
	}
}

func TestLoadParsesProjectSection(t *testing.T) {
	path := writeFile(t, "project:\n  name: demo\n  parallel-build-count: 4\nparts:\n  hello:\n    plugin: dump\n    source: .\n")

	project, _, err := Load(path, defaultPluginRegistry(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project.Name != "demo" {
		t.Fatalf("expected project name %q, got %q", "demo", project.Name)
	}
	if project.ParallelBuildCount != 4 {
		t.Fatalf("expected parallel-build-count 4, got %d", project.ParallelBuildCount)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "partcraft.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write parts file: %v", err)
	}
	return path
}

func defaultPluginRegistry(t *testing.T) *plugins.Registry {
	t.Helper()
	r := plugins.NewRegistry()
	r.Register(plugins.NewDumpPlugin())
	return r
}
