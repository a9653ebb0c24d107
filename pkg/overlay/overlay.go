// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

// Package overlay computes the hash chain that links successive overlay
// layers and gates overlay use to platforms that can actually mount one.
//
// Feature: CORE_OVERLAY
// Spec: spec/core/overlay.md
package overlay

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// LayerHash identifies one layer in the overlay chain. It is a
// non-cryptographic xxhash digest — it exists purely to detect when a
// layer's recipe has changed relative to the layer beneath it.
type LayerHash string

// layerRecipe is the canonical, order-stable shape hashed to produce a
// LayerHash. Package and file lists are sorted by the caller before being
// passed in, since their order is not semantically significant.
type layerRecipe struct {
	Previous LayerHash `json:"previous"`
	Packages []string  `json:"packages"`
	Files    []string  `json:"files"`
	Script   string    `json:"script"`
}

// HashLayer computes the hash of one overlay layer given the hash of the
// layer beneath it (or "" for the base layer) and this layer's own
// packages/files/script recipe. Changing any input, or any layer beneath
// it transitively, changes every hash above it in the chain.
func HashLayer(previous LayerHash, packages, files []string, script string) (LayerHash, error) {
	encoded, err := json.Marshal(layerRecipe{
		Previous: previous,
		Packages: packages,
		Files:    files,
		Script:   script,
	})
	if err != nil {
		return "", fmt.Errorf("overlay: encode layer recipe: %w", err)
	}
	sum := xxhash.Sum64(encoded)
	return LayerHash(fmt.Sprintf("%016x", sum)), nil
}
