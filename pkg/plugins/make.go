// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

package plugins

import (
	"fmt"
	"sort"
)

// makePlugin builds parts using an autotools-style "./configure && make &&
// make install" flow, configurable via make-parameters.
//
// Feature: PLUGIN_MAKE
// Spec: spec/plugins/make.md
type makePlugin struct{}

// NewMakePlugin returns the "make" plugin.
func NewMakePlugin() Plugin { return makePlugin{} }

func (makePlugin) Name() string         { return "make" }
func (makePlugin) SupportsStrict() bool { return false }

func (makePlugin) RecognizedKeys() []string {
	return []string{"make-parameters", "make-install-var"}
}

type makeProperties struct {
	Parameters []string
	InstallVar string
}

func (makePlugin) UnmarshalProperties(raw map[string]any) (Properties, error) {
	props := makeProperties{InstallVar: "DESTDIR"}

	if v, ok := raw["make-parameters"]; ok {
		params, err := toStringSlice(v)
		if err != nil {
			return nil, fmt.Errorf("make-parameters: %w", err)
		}
		props.Parameters = params
	}

	if v, ok := raw["make-install-var"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("make-install-var must be a string")
		}
		props.InstallVar = s
	}

	return props, nil
}

func (p makeProperties) BuildPackages() []string            { return []string{"make", "gcc"} }
func (p makeProperties) BuildSnaps() []string                { return nil }
func (p makeProperties) BuildEnvironment() map[string]string { return nil }

func (p makeProperties) Canonical() any {
	params := append([]string(nil), p.Parameters...)
	sort.Strings(params)
	return map[string]any{
		"plugin":           "make",
		"make-parameters":  params,
		"make-install-var": p.InstallVar,
	}
}

func (p makeProperties) BuildCommands(ctx BuildContext) []string {
	cmds := []string{
		fmt.Sprintf("cd %s", shellQuote(ctx.BuildDir)),
		fmt.Sprintf("[ -x %s/configure ] && %s/configure || true", shellQuote(ctx.SourceDir), shellQuote(ctx.SourceDir)),
	}

	makeCmd := fmt.Sprintf("make -j%d", parallelOrOne(ctx.ParallelBuildCount))
	for _, param := range p.Parameters {
		makeCmd += " " + param
	}
	cmds = append(cmds, makeCmd)
	cmds = append(cmds, fmt.Sprintf("make %s=%s install", p.InstallVar, shellQuote(ctx.InstallDir)))

	return cmds
}

func parallelOrOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
