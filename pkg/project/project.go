// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

// Package project holds the project-wide, read-only configuration shared
// by every part: architecture, directory layout, project variables, and
// partitions.
//
// Feature: CORE_PROJECTINFO
// Spec: spec/core/projectinfo.md
package project

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
)

var applicationNamePattern = regexp.MustCompile(`^[A-Za-z][0-9A-Za-z_]*$`)

// ErrInvalidApplicationName is returned when the application name fails
// the required `^[A-Za-z][0-9A-Za-z_]*$` pattern.
var ErrInvalidApplicationName = errors.New("invalid application name")

// Options configures a new Info.
type Options struct {
	ApplicationName string
	ProjectName     string
	CacheDir        string
	WorkDir         string
	Arch            string // defaults to host arch when empty
	Base            string
	ParallelBuildCount int
	StrictMode      bool
	Partitions      []string

	OverlayBaseDir  string
	OverlayBaseHash string

	ProjectVarsPartName string
	ProjectVars         map[string]string
}

// Info is the immutable, project-wide configuration passed to every part
// during planning and execution.
type Info struct {
	applicationName string
	projectName     string
	arch            string
	base            string
	parallelBuildCount int
	strictMode      bool
	partitions      []string

	overlayBaseDir  string
	overlayBaseHash string

	dirs Dirs
	vars *Vars
}

// New validates opts and constructs an Info. It never touches the
// filesystem; directory creation is the Executor's responsibility.
func New(opts Options) (*Info, error) {
	if !applicationNamePattern.MatchString(opts.ApplicationName) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidApplicationName, opts.ApplicationName)
	}

	if err := ValidatePartitionNames(opts.Partitions); err != nil {
		return nil, err
	}

	if (opts.OverlayBaseDir == "") != (opts.OverlayBaseHash == "") {
		return nil, errors.New("base_layer_dir and base_layer_hash must be specified together")
	}

	arch := opts.Arch
	if arch == "" {
		arch = hostArch()
	}

	parallel := opts.ParallelBuildCount
	if parallel < 1 {
		parallel = 1
	}

	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}

	return &Info{
		applicationName:    opts.ApplicationName,
		projectName:        opts.ProjectName,
		arch:               arch,
		base:               opts.Base,
		parallelBuildCount: parallel,
		strictMode:         opts.StrictMode,
		partitions:         opts.Partitions,
		overlayBaseDir:     opts.OverlayBaseDir,
		overlayBaseHash:    opts.OverlayBaseHash,
		dirs:               NewDirs(workDir, opts.Partitions),
		vars:               NewVars(opts.ProjectVarsPartName, opts.ProjectVars),
	}, nil
}

// ApplicationName returns the application identifier.
func (i *Info) ApplicationName() string { return i.applicationName }

// ProjectName returns the project name, if set.
func (i *Info) ProjectName() string { return i.projectName }

// Arch returns the target architecture.
func (i *Info) Arch() string { return i.arch }

// Base returns the declared system base.
func (i *Info) Base() string { return i.base }

// ParallelBuildCount returns the maximum number of concurrent build workers.
func (i *Info) ParallelBuildCount() int { return i.parallelBuildCount }

// StrictMode reports whether strict-mode plugins are required.
func (i *Info) StrictMode() bool { return i.strictMode }

// Partitions returns the configured partition names in declared order;
// "default" is first when declared and is not added when absent.
func (i *Info) Partitions() []string { return i.partitions }

// HasOverlayBase reports whether a base overlay layer was supplied.
func (i *Info) HasOverlayBase() bool { return i.overlayBaseDir != "" }

// OverlayBaseDir returns the base overlay layer directory, if any.
func (i *Info) OverlayBaseDir() string { return i.overlayBaseDir }

// OverlayBaseHash returns the base overlay layer validation hash, if any.
func (i *Info) OverlayBaseHash() string { return i.overlayBaseHash }

// Dirs returns the project's directory layout.
func (i *Info) Dirs() Dirs { return i.dirs }

// Vars returns the project variables container.
func (i *Info) Vars() *Vars { return i.vars }

func hostArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "amd64"
	case "arm64":
		return "arm64"
	default:
		return runtime.GOARCH
	}
}
