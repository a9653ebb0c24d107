// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

// Package state persists, per part and per step, the fingerprint and
// outcome of the last time that step ran — the record the Sequencer
// consults to decide whether a step is still up to date.
//
// Feature: CORE_STATESTORE
// Spec: spec/core/statestore.md
package state

// FormatVersion is written into every persisted record so a future,
// incompatible record shape can be detected and rejected rather than
// silently misread.
const FormatVersion = 1

// Record is everything persisted about one step of one part after it
// runs successfully.
type Record struct {
	FormatVersion int    `toml:"format_version"`
	Part          string `toml:"part"`
	Step          string `toml:"step"`

	Fingerprint      string   `toml:"fingerprint"`
	Dependencies     []string `toml:"dependencies,omitempty"`
	OverlayHash      string   `toml:"overlay_hash,omitempty"`

	Properties    map[string]any `toml:"properties,omitempty"`
	BuildPackages []string       `toml:"build_packages,omitempty"`
	StagePackages []string       `toml:"stage_packages,omitempty"`

	// Files is the sorted list of paths this step copied (relative to the
	// step's output directory). It is informational: stage/prime conflict
	// detection uses the Executor's in-memory manifest, and Clean does not
	// read it.
	Files []string `toml:"files,omitempty"`

	// Assets carries step metadata, surfaced verbatim by the lifecycle
	// façade's pull-assets inspection: Pull records one "source-<i>" entry
	// per declared source holding its Source.Key(), and the project-vars
	// writer part's Build records a "project-vars-writer" marker.
	Assets map[string]string `toml:"assets,omitempty"`
}
