// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

package plugins

// dumpPlugin copies the part's unpacked source tree verbatim into the
// install directory. It takes no properties.
type dumpPlugin struct{}

// NewDumpPlugin returns the "dump" plugin.
func NewDumpPlugin() Plugin { return dumpPlugin{} }

func (dumpPlugin) Name() string          { return "dump" }
func (dumpPlugin) SupportsStrict() bool  { return true }
func (dumpPlugin) RecognizedKeys() []string { return nil }

func (dumpPlugin) UnmarshalProperties(raw map[string]any) (Properties, error) {
	return dumpProperties{}, nil
}

type dumpProperties struct{}

func (dumpProperties) BuildPackages() []string               { return nil }
func (dumpProperties) BuildSnaps() []string                   { return nil }
func (dumpProperties) BuildEnvironment() map[string]string    { return nil }
func (dumpProperties) Canonical() any                         { return map[string]any{"plugin": "dump"} }

func (dumpProperties) BuildCommands(ctx BuildContext) []string {
	return []string{
		"mkdir -p " + shellQuote(ctx.InstallDir),
		"cp -r " + shellQuote(ctx.SourceDir) + "/. " + shellQuote(ctx.InstallDir) + "/",
	}
}
