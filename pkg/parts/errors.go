// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

package parts

import "fmt"

// Feature: CORE_PARTSPEC
// Spec: spec/core/partspec.md

// UndefinedPluginError is raised when a part has no explicit plugin and
// its own name does not resolve to a known plugin class.
type UndefinedPluginError struct {
	PartName string
}

func (e *UndefinedPluginError) Error() string {
	return fmt.Sprintf("part %q: no plugin specified and part name is not a known plugin", e.PartName)
}

// InvalidPluginError is raised when a part names a plugin explicitly and
// that name does not resolve to a known plugin class.
type InvalidPluginError struct {
	PartName   string
	PluginName string
}

func (e *InvalidPluginError) Error() string {
	return fmt.Sprintf("part %q: invalid plugin %q", e.PartName, e.PluginName)
}

// PluginNotStrictError is raised in strict mode when the resolved plugin
// does not declare strict-mode capability.
type PluginNotStrictError struct {
	PartName   string
	PluginName string
}

func (e *PluginNotStrictError) Error() string {
	return fmt.Sprintf("part %q: plugin %q does not support strict mode", e.PartName, e.PluginName)
}

// PartSpecificationError is raised when a part mapping fails property
// validation or contains unrecognized fields. Errs accumulates every
// individual validation failure found while parsing.
type PartSpecificationError struct {
	PartName string
	Errs     []string
}

func (e *PartSpecificationError) Error() string {
	return fmt.Sprintf("part %q: invalid specification: %v", e.PartName, e.Errs)
}

// InvalidPartNameError is raised when a dependency name, or the part name
// itself, fails validation or fails to resolve against the known part set.
type InvalidPartNameError struct {
	Name   string
	Reason string
}

func (e *InvalidPartNameError) Error() string {
	return fmt.Sprintf("invalid part name %q: %s", e.Name, e.Reason)
}

// InvalidSourceOptionError is raised when a source-type rejects an option
// supplied in the part spec (e.g. deb sources reject source-tag).
type InvalidSourceOptionError struct {
	SourceType string
	Option     string
}

func (e *InvalidSourceOptionError) Error() string {
	return fmt.Sprintf("source type %q does not accept option %q", e.SourceType, e.Option)
}
