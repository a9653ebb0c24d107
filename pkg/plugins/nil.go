// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

package plugins

// nilPlugin is a no-op plugin for parts that exist only to participate
// in the dependency graph (e.g. grouping parts, or ordering-only parts).
type nilPlugin struct{}

// NewNilPlugin returns the "nil" plugin.
func NewNilPlugin() Plugin { return nilPlugin{} }

func (nilPlugin) Name() string          { return "nil" }
func (nilPlugin) SupportsStrict() bool  { return true }
func (nilPlugin) RecognizedKeys() []string { return nil }

func (nilPlugin) UnmarshalProperties(raw map[string]any) (Properties, error) {
	return nilProperties{}, nil
}

type nilProperties struct{}

func (nilProperties) BuildPackages() []string               { return nil }
func (nilProperties) BuildSnaps() []string                  { return nil }
func (nilProperties) BuildEnvironment() map[string]string   { return nil }
func (nilProperties) BuildCommands(ctx BuildContext) []string { return nil }
func (nilProperties) Canonical() any                         { return map[string]any{"plugin": "nil"} }
