// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine that orchestrates pulling,
overlaying, building, staging, and priming declaratively-specified parts
into a final tree.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

// Package steps defines the fixed five-step part lifecycle pipeline.
//
// Feature: CORE_STEPS
package steps

import "fmt"

// Step is one stage of the part lifecycle pipeline. Ordering is total:
// Pull < Overlay < Build < Stage < Prime.
type Step int

const (
	// Pull fetches a part's sources; stage packages are not downloaded or
	// resolved in this step.
	Pull Step = iota
	// Overlay runs the part's overlay script against the stacked base layer.
	Overlay
	// Build invokes the part's plugin to produce installed files.
	Build
	// Stage copies a part's install tree into the shared stage tree.
	Stage
	// Prime copies from stage into the final prime tree.
	Prime
)

// Count is the number of defined steps.
const Count = 5

// All is the ordered list of every step, Pull first.
var All = []Step{Pull, Overlay, Build, Stage, Prime}

// String returns the canonical lower-case name of the step.
func (s Step) String() string {
	switch s {
	case Pull:
		return "pull"
	case Overlay:
		return "overlay"
	case Build:
		return "build"
	case Stage:
		return "stage"
	case Prime:
		return "prime"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Valid reports whether s is one of the five defined steps.
func (s Step) Valid() bool {
	return s >= Pull && s <= Prime
}

// ParseStep parses a step name produced by String back into a Step.
func ParseStep(name string) (Step, error) {
	for _, s := range All {
		if s.String() == name {
			return s, nil
		}
	}
	return Step(-1), fmt.Errorf("unknown step %q", name)
}

// SubsequentSteps returns every step >= s, in pipeline order.
func SubsequentSteps(s Step) []Step {
	out := make([]Step, 0, len(All))
	for _, candidate := range All {
		if candidate >= s {
			out = append(out, candidate)
		}
	}
	return out
}

// Before reports whether s strictly precedes other in the pipeline.
func (s Step) Before(other Step) bool {
	return s < other
}
