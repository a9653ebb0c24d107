// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

package parts

import (
	"fmt"

	"partcraft/pkg/plugins"
)

// Feature: CORE_PARTSPEC
// Spec: spec/core/partspec.md

// genericKeys is the set of recognized top-level part-spec keys that this
// package itself consumes (as opposed to plugin-specific keys).
var genericKeys = map[string]struct{}{
	"plugin": {}, "source": {}, "source-type": {}, "source-tag": {},
	"source-commit": {}, "source-branch": {}, "source-checksum": {},
	"source-depth": {}, "source-submodules": {}, "source-subdir": {}, "source-keep": {},
	"after": {}, "build-packages": {}, "stage-packages": {}, "build-snaps": {},
	"override-pull": {}, "override-build": {}, "override-stage": {}, "override-prime": {},
	"organize": {}, "stage": {}, "prime": {},
	"overlay-script": {}, "overlay-packages": {}, "overlay-files": {},
}

// Registry is the minimal plugin-lookup contract BuildPart needs; it is
// satisfied by *plugins.Registry.
type Registry interface {
	Get(name string) (plugins.Plugin, error)
}

// BuildOptions controls how a single part is constructed from its raw spec.
type BuildOptions struct {
	StrictMode bool
	Plugins    Registry
}

// BuildPart validates and parses one part's raw specification mapping
// (as decoded from YAML) into a Part.
func BuildPart(name string, raw map[string]any, opts BuildOptions) (*Part, error) {
	if !ValidPartName(name) {
		return nil, &InvalidPartNameError{Name: name, Reason: "must be lowercase alphanumeric with hyphens, not starting/ending with a hyphen"}
	}

	pluginName, _ := raw["plugin"].(string)
	pluginWasDefaulted := pluginName == ""
	if pluginWasDefaulted {
		pluginName = name
	}

	plugin, err := opts.Plugins.Get(pluginName)
	if err != nil {
		if pluginWasDefaulted {
			return nil, &UndefinedPluginError{PartName: name}
		}
		return nil, &InvalidPluginError{PartName: name, PluginName: pluginName}
	}

	if opts.StrictMode && !plugin.SupportsStrict() {
		return nil, &PluginNotStrictError{PartName: name, PluginName: pluginName}
	}

	properties, err := plugin.UnmarshalProperties(raw)
	if err != nil {
		return nil, &PartSpecificationError{PartName: name, Errs: []string{err.Error()}}
	}

	if errs := unrecognizedFields(raw, plugin); len(errs) > 0 {
		return nil, &PartSpecificationError{PartName: name, Errs: errs}
	}

	part := &Part{
		Name:       name,
		PluginName: pluginName,
		Properties: properties,
	}

	if err := part.applySource(raw); err != nil {
		return nil, &PartSpecificationError{PartName: name, Errs: []string{err.Error()}}
	}
	part.applyPackaging(raw)
	part.applyOverlay(raw)

	return part, nil
}

func unrecognizedFields(raw map[string]any, plugin plugins.Plugin) []string {
	recognized := make(map[string]struct{}, len(genericKeys))
	for k := range genericKeys {
		recognized[k] = struct{}{}
	}
	for _, k := range plugin.RecognizedKeys() {
		recognized[k] = struct{}{}
	}

	var errs []string
	for k := range raw {
		if _, ok := recognized[k]; !ok {
			errs = append(errs, fmt.Sprintf("unrecognized field %q", k))
		}
	}
	return errs
}

// ValidateDependencies checks that every part's declared dependencies
// resolve to another part in the same set. allNames must contain every
// part name known to the caller.
func ValidateDependencies(part *Part, allNames map[string]struct{}) error {
	for _, dep := range part.After {
		if _, ok := allNames[dep]; !ok {
			return &InvalidPartNameError{Name: dep, Reason: fmt.Sprintf("part %q depends on undefined part %q", part.Name, dep)}
		}
	}
	return nil
}

// BuildSet builds every raw part mapping in raw into a Part and
// validates that the resulting dependency graph references only names
// present in raw. It is the shared entry point both the parts-file
// loader and a host embedding this module directly use to go from
// decoded YAML to a resolved part set.
func BuildSet(raw map[string]map[string]any, opts BuildOptions) (map[string]*Part, error) {
	allNames := make(map[string]struct{}, len(raw))
	for name := range raw {
		allNames[name] = struct{}{}
	}

	resolved := make(map[string]*Part, len(raw))
	for name, spec := range raw {
		part, err := BuildPart(name, spec, opts)
		if err != nil {
			return nil, fmt.Errorf("part %q: %w", name, err)
		}
		if err := ValidateDependencies(part, allNames); err != nil {
			return nil, fmt.Errorf("part %q: %w", name, err)
		}
		resolved[name] = part
	}
	return resolved, nil
}
