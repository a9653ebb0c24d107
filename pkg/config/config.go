// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

// Package config loads and validates a parts file: the YAML document
// declaring every part a project builds, plus the handful of
// project-wide settings that sit alongside the part list.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"partcraft/pkg/parts"
	"partcraft/pkg/plugins"
)

// Feature: CORE_CONFIG
// Spec: spec/core/config.md

// ErrConfigNotFound is returned when no parts file exists at the given path.
var ErrConfigNotFound = errors.New("partcraft: parts file not found")

// Document is the raw, as-decoded shape of a parts file: a project
// section plus one raw mapping per declared part. Each part's mapping is
// handed to parts.BuildPart unexamined; this package never hard-codes
// plugin-specific keys.
type Document struct {
	Project ProjectSection         `yaml:"project,omitempty"`
	Parts   map[string]map[string]any `yaml:"parts"`
}

// ProjectSection carries the project-wide settings a parts file may
// declare alongside its part list.
type ProjectSection struct {
	Name                string   `yaml:"name,omitempty"`
	Base                string   `yaml:"base,omitempty"`
	Partitions          []string `yaml:"partitions,omitempty"`
	ParallelBuildCount  int      `yaml:"parallel-build-count,omitempty"`
	ProjectVarsPartName string   `yaml:"project-vars-part-name,omitempty"`
	StrictMode          bool     `yaml:"strict-mode,omitempty"`
}

// DefaultConfigPath returns the conventional parts file name looked up
// in the current working directory when none is given explicitly.
func DefaultConfigPath() string {
	return "partcraft.yaml"
}

// Exists reports whether a parts file exists at the given path. It
// returns (false, nil), not an error, when the file is simply absent.
func Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Load reads the parts file at path, resolves every declared part
// through the given plugin registry, and validates that every
// dependency name resolves within the set. It returns ErrConfigNotFound
// if the file does not exist.
func Load(path string, pluginRegistry *plugins.Registry) (*ProjectSection, map[string]*parts.Part, error) {
	projectSection, rawParts, err := LoadRaw(path)
	if err != nil {
		return nil, nil, err
	}

	resolved, err := parts.BuildSet(rawParts, parts.BuildOptions{
		StrictMode: projectSection.StrictMode,
		Plugins:    pluginRegistry,
	})
	if err != nil {
		return nil, nil, err
	}

	return projectSection, resolved, nil
}

// LoadRaw reads the parts file at path and returns its project section
// and raw per-part mappings without building them into parts.Part
// values. A caller that constructs its own lifecycle.Manager uses this
// directly, since the Manager resolves raw part specs itself.
func LoadRaw(path string) (*ProjectSection, map[string]map[string]any, error) {
	exists, err := Exists(path)
	if err != nil {
		return nil, nil, fmt.Errorf("checking parts file existence: %w", err)
	}
	if !exists {
		return nil, nil, ErrConfigNotFound
	}

	// nolint:gosec // G304: reading a file from a user-specified path is expected behavior
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading parts file: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing parts file: %w", err)
	}

	if len(doc.Parts) == 0 {
		return nil, nil, errors.New("partcraft: parts file must declare at least one part")
	}

	return &doc.Project, doc.Parts, nil
}
