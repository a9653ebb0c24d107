// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

// Package sources fetches a part's declared source into its source
// directory, and can later report whether upstream has moved on and
// refresh the working tree in place.
//
// Feature: CORE_SOURCES
// Spec: spec/core/sources.md
package sources

import "context"

// Handler fetches one part's source into a destination directory. All
// implementations must be safe to call repeatedly against the same
// destination: a second Pull after state has been cleared should produce
// the same tree as the first.
type Handler interface {
	Pull(ctx context.Context, destDir string) error
}

// OutdatedChecker is implemented by handlers that can tell whether the
// upstream source has changed since it was last pulled, without
// re-fetching it.
type OutdatedChecker interface {
	CheckIfOutdated(ctx context.Context, destDir string) (bool, error)
}

// Updater is implemented by handlers that can refresh an already-pulled
// source in place (e.g. `git pull` instead of a fresh clone).
type Updater interface {
	Update(ctx context.Context, destDir string) error
}

// Factory builds a Handler for one Source declaration.
type Factory func(src Source) (Handler, error)

// Source is the fetch-relevant subset of a part's source declaration.
// It mirrors pkg/parts.Source field-for-field so this package need not
// import pkg/parts, keeping the dependency direction from parts toward
// sources rather than the reverse.
type Source struct {
	URI        string
	Type       string
	Tag        string
	Commit     string
	Branch     string
	Checksum   string
	Depth      int
	Submodules []string
	Subdir     string
	Keep       bool
}
