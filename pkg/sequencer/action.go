// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

// Package sequencer computes the ordered list of actions needed to bring
// a set of parts to a target lifecycle step, by comparing each step's
// freshly-computed fingerprint against its persisted state.
//
// Feature: CORE_SEQUENCER
// Spec: spec/core/sequencer.md
package sequencer

import (
	"fmt"

	"partcraft/pkg/fingerprint"
	"partcraft/pkg/steps"
)

// Kind is the decision the Sequencer makes for one (part, step) pair.
type Kind int

const (
	// Run executes a step that has never completed for this part.
	Run Kind = iota
	// Rerun re-executes a step whose inputs changed since it last ran,
	// after first clearing its own and every later recorded step's state.
	Rerun
	// Update marks a Pull whose source the OutdatedChecker reports as
	// outdated and refreshable in place. The Executor runs an Update
	// action like Run: it performs a full Pull and does not call the
	// source handler's Updater.
	Update
	// Skip leaves a step untouched because its fingerprint still matches
	// the persisted record.
	Skip
	// SkipStaged is Skip specialized to the Stage step, so executors and
	// logs can distinguish "nothing to stage" from an ordinary skip.
	SkipStaged
	// SkipOutdated is Skip chosen despite the underlying source reporting
	// as outdated, because the part matched an ignore-outdated pattern.
	SkipOutdated
)

// String returns the lower-case action-kind name.
func (k Kind) String() string {
	switch k {
	case Run:
		return "run"
	case Rerun:
		return "rerun"
	case Update:
		return "update"
	case Skip:
		return "skip"
	case SkipStaged:
		return "skip-staged"
	case SkipOutdated:
		return "skip-outdated"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsSkip reports whether k is any of the Skip variants — i.e. no work is
// required for the corresponding (part, step).
func (k Kind) IsSkip() bool {
	return k == Skip || k == SkipStaged || k == SkipOutdated
}

// Action is one (part, step, kind) entry in a plan.
type Action struct {
	Part string
	Step steps.Step
	Kind Kind

	// Fingerprint is the newly-computed fingerprint for this (part, step);
	// the Executor persists it as the step's new StateRecord on success.
	Fingerprint fingerprint.Digest
}

func (a Action) String() string {
	return fmt.Sprintf("%s(%s, %s)", a.Kind, a.Part, a.Step)
}
