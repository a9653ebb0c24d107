// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

// Package parts models the declarative specification of a single part:
// its sources, plugin, dependencies, and packaging options.
//
// Feature: CORE_PARTSPEC
// Spec: spec/core/partspec.md
package parts

import (
	"regexp"
	"sort"
	"strings"

	"partcraft/pkg/plugins"
)

var partNamePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidPartName reports whether name satisfies the part naming rules:
// lowercase alphanumeric with hyphens, not starting or ending with one.
func ValidPartName(name string) bool {
	if name == "" {
		return false
	}
	return partNamePattern.MatchString(name)
}

// Source describes a single pull-able source entry for a part.
type Source struct {
	URI        string
	Type       string // "local", "tar", "git", "deb", "" (auto-detect)
	Tag        string
	Commit     string
	Branch     string
	Checksum   string
	Depth      int
	Submodules []string
	Subdir     string
	Keep       bool // keep the original archive/package after extraction
}

// Key returns a stable string uniquely describing this source's identity
// for fingerprinting purposes.
func (s Source) Key() string {
	var b strings.Builder
	b.WriteString(s.Type)
	b.WriteByte('|')
	b.WriteString(s.URI)
	b.WriteByte('|')
	b.WriteString(s.Tag)
	b.WriteByte('|')
	b.WriteString(s.Commit)
	b.WriteByte('|')
	b.WriteString(s.Branch)
	b.WriteByte('|')
	b.WriteString(s.Checksum)
	b.WriteByte('|')
	b.WriteString(s.Subdir)
	return b.String()
}

// Part is the immutable, fully-resolved description of one part.
type Part struct {
	Name string

	PluginName string
	Properties plugins.Properties

	Sources []Source

	BuildPackages    []string
	StagePackages    []string
	BuildSnaps       []string
	OverridePackages map[string][]string // override-pull/build/stage/prime -> package list override, if any

	OverridePull  string
	OverrideBuild string
	OverrideStage string
	OverridePrime string

	Organize []string // "<src-glob>: <dst>" entries
	Stage    []string // stage file selectors
	Prime    []string // prime file selectors

	After []string // dependency part names

	HasOverlay      bool
	OverlayScript   string
	OverlayPackages []string
	OverlaySelector []string
}

// Dependencies returns the part's declared dependency names, sorted.
func (p *Part) Dependencies() []string {
	out := append([]string(nil), p.After...)
	sort.Strings(out)
	return out
}
