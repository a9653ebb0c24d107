// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

// Package plugins defines the plugin interface and built-in plugin
// registry. Plugins are pure data-and-string producers; they do not
// perform I/O themselves.
//
// Feature: CORE_PLUGIN_INTERFACE
// Spec: spec/core/plugin-interface.md
package plugins

import "context"

// Properties is the parsed, validated, plugin-specific property bundle
// for one part. Implementations must be comparable-by-value-safe for
// fingerprinting: Canonical must return the same encodable value for
// equal inputs across runs.
type Properties interface {
	// BuildPackages returns the extra build packages this plugin's
	// properties imply (e.g. the make plugin returns "make" and "gcc").
	BuildPackages() []string

	// BuildSnaps returns the extra build snaps this plugin's properties imply.
	BuildSnaps() []string

	// BuildEnvironment returns the environment variables to export before
	// running build commands.
	BuildEnvironment() map[string]string

	// BuildCommands returns the ordered shell command fragments that
	// constitute the build script for this part.
	BuildCommands(ctx BuildContext) []string

	// Canonical returns a JSON-marshalable value representing this
	// properties bundle, used as fingerprint input. Map keys must be
	// stable; slice order must be deterministic.
	Canonical() any
}

// BuildContext carries the directories a plugin's BuildCommands may
// reference (source dir, build dir, install dir, parallelism).
type BuildContext struct {
	PartName           string
	SourceDir          string
	BuildDir           string
	InstallDir         string
	ParallelBuildCount int
}

// Plugin is a named builder module that produces build environment and
// commands from validated properties.
type Plugin interface {
	// Name returns the plugin's stable identifier (e.g. "dump", "make", "nil").
	Name() string

	// SupportsStrict reports whether the plugin declares strict-mode capability.
	SupportsStrict() bool

	// UnmarshalProperties validates and parses the plugin-specific subset
	// of a part's raw specification mapping. Implementations must return
	// only a validation error (never perform I/O).
	UnmarshalProperties(raw map[string]any) (Properties, error)

	// RecognizedKeys returns the set of raw-spec keys this plugin consumes,
	// so the part-spec loader can detect unrecognized fields.
	RecognizedKeys() []string
}

// PackageRepository is the seam to the (out-of-scope) system package
// manager: resolving package names/versions and refreshing the package
// index before planning. The core never calls a concrete package
// manager directly.
type PackageRepository interface {
	// Configure is called once per application at startup.
	Configure(applicationPackageName string) error

	// Refresh updates the locally cached list of available packages.
	Refresh(ctx context.Context) error

	// Resolve returns the fully-resolved (name, version) pairs for the
	// given package names, for fingerprinting "packages after resolution".
	Resolve(ctx context.Context, names []string, arch string) ([]string, error)
}
