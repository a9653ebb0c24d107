// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

// Package fingerprint computes the content digests that the Sequencer
// compares against a part's persisted state to decide whether a step is
// still up to date.
//
// Feature: CORE_FINGERPRINT
// Spec: spec/core/fingerprint.md
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Digest is a hex-encoded SHA-256 fingerprint.
type Digest string

// Of computes the fingerprint of an arbitrary, JSON-marshalable value.
// encoding/json sorts map keys when marshaling a map, which gives this a
// canonical, order-independent encoding for free; callers must still use
// slices (not maps) wherever element order is semantically significant.
func Of(v any) (Digest, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("fingerprint: encode: %w", err)
	}
	sum := sha256.Sum256(encoded)
	return Digest(hex.EncodeToString(sum[:])), nil
}

// MustOf is Of, panicking on error. It is only safe to call with values
// known at compile time to be JSON-marshalable (no channels, funcs, or
// cyclic structures).
func MustOf(v any) Digest {
	d, err := Of(v)
	if err != nil {
		panic(err)
	}
	return d
}

// Combine folds a list of digests, already computed in a caller-chosen
// deterministic order, into a single digest. The per-step fingerprints in
// this package do not use it; they hash their inputs directly.
func Combine(digests ...Digest) Digest {
	return MustOf(digests)
}
