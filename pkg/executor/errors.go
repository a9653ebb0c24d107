// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

// Package executor drives the action list a Sequencer produces through
// the pull, overlay, build, stage, and prime procedures, persisting a new
// StateRecord through the StateStore after each action succeeds.
//
// Feature: CORE_EXECUTOR
// Spec: spec/core/executor.md
package executor

import (
	"fmt"

	"partcraft/pkg/steps"
)

// ErrorKind classifies an ExecutionError, mirroring the structured-error
// idiom pkg/migrations/errors.go used for migration failures
// (Kind-tagged, Unwrap-capable errors), generalized to this package's own
// failure modes since the migrations domain itself doesn't carry over.
type ErrorKind string

const (
	// ErrSourceFetch covers any source handler Pull/Update failure.
	ErrSourceFetch ErrorKind = "source-fetch"
	// ErrChecksumMismatch is a Pull failure specifically from a
	// declared source-checksum not matching the fetched content.
	ErrChecksumMismatch ErrorKind = "checksum-mismatch"
	// ErrBuildFailed covers a non-zero exit from a plugin's build script.
	ErrBuildFailed ErrorKind = "build-failed"
	// ErrStageConflict covers two parts staging the same path with
	// differing content.
	ErrStageConflict ErrorKind = "stage-conflict"
	// ErrStateWrite covers a StateStore persistence failure.
	ErrStateWrite ErrorKind = "state-write"
	// ErrOverlayUnsupported covers an Overlay action attempted on a
	// platform that cannot support it.
	ErrOverlayUnsupported ErrorKind = "overlay-unsupported"
)

// ExecutionError is returned by Execute, identifying exactly which
// (part, step) failed and why, so the caller can report it and the next
// plan can recompute from the absent state.
type ExecutionError struct {
	Part  string
	Step  steps.Step
	Kind  ErrorKind
	Cause error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s/%s: %v", e.Kind, e.Part, e.Step, e.Cause)
}

func (e *ExecutionError) Unwrap() error { return e.Cause }
