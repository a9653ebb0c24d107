// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

// Package lifecycle is the top-level façade a front-end constructs from
// a raw part specification: it resolves the part set, wires the
// Sequencer and Executor to a shared StateStore, and exposes the
// operations a CLI or other caller drives a build through.
//
// Feature: CORE_LIFECYCLE_MANAGER
// Spec: spec/core/lifecycle-manager.md
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"partcraft/pkg/executil"
	"partcraft/pkg/executor"
	"partcraft/pkg/overlay"
	"partcraft/pkg/parts"
	"partcraft/pkg/plugins"
	"partcraft/pkg/project"
	"partcraft/pkg/sequencer"
	"partcraft/pkg/sources"
	"partcraft/pkg/state"
	"partcraft/pkg/steps"
)

// ErrOverlayBaseRequired is returned when a part declares HasOverlay but
// the project was constructed without a base layer, checked before any
// state is touched.
var ErrOverlayBaseRequired = errors.New("base_layer_dir must be specified for a part that uses overlay")

// chiselBuildSnap is the snap injected into ExtraBuildSnaps when a part
// declares a package slice and chisel isn't already present.
const chiselBuildSnap = "chisel/latest/stable"

// Options configures a Manager. Project carries the application-wide
// settings; the rest default to the package-level registries and host
// runner when left unset.
type Options struct {
	Project project.Options

	Plugins *plugins.Registry
	Sources *sources.Registry
	Runner  executil.Runner

	OverlayEnabled  bool
	OverlayChecker  overlay.PlatformChecker
	PackageRepository plugins.PackageRepository

	IgnoreOutdated  []string
	OutdatedChecker sequencer.OutdatedChecker
}

// Manager wires a resolved part set to a Sequencer and Executor sharing
// one StateStore, and exposes the operations a front-end drives a build
// through: plan, execute, clean, and the handful of introspection calls
// that read back persisted state.
type Manager struct {
	info  *project.Info
	parts map[string]*parts.Part
	store *state.Store

	sequencer *sequencer.Sequencer
	executor  *executor.Executor

	packageRepo     plugins.PackageRepository
	extraBuildSnaps []string
}

// New resolves rawParts against opts and constructs a Manager ready to
// plan and execute actions. It validates the application name and the
// overlay base-layer coupling before touching disk, matching the
// constructor-time validation order a part-by-part build would
// otherwise only discover partway through execution.
func New(rawParts map[string]map[string]any, opts Options) (*Manager, error) {
	info, err := project.New(opts.Project)
	if err != nil {
		return nil, err
	}

	pluginRegistry := opts.Plugins
	if pluginRegistry == nil {
		pluginRegistry = plugins.DefaultRegistry
	}
	sourceRegistry := opts.Sources
	if sourceRegistry == nil {
		sourceRegistry = sources.Default()
	}

	resolved, err := parts.BuildSet(rawParts, parts.BuildOptions{
		StrictMode: info.StrictMode(),
		Plugins:    pluginRegistry,
	})
	if err != nil {
		return nil, err
	}

	if !info.HasOverlayBase() {
		for _, part := range resolved {
			if part.HasOverlay {
				return nil, fmt.Errorf("%w (part %q)", ErrOverlayBaseRequired, part.Name)
			}
		}
	}

	store := state.NewStore(info.Dirs().StateDir)

	seq, err := sequencer.New(resolved, sequencer.Options{
		Store:           store,
		Arch:            info.Arch(),
		ProjectVars:     info.Vars().Snapshot(),
		OverlayEnabled:  opts.OverlayEnabled,
		BaseLayerHash:   info.OverlayBaseHash(),
		IgnoreOutdated:  opts.IgnoreOutdated,
		OutdatedChecker: opts.OutdatedChecker,
	})
	if err != nil {
		return nil, err
	}

	exec := executor.New(resolved, executor.Options{
		Info:           info,
		Store:          store,
		Plugins:        pluginRegistry,
		Sources:        sourceRegistry,
		Runner:         opts.Runner,
		OverlayEnabled: opts.OverlayEnabled,
		OverlayChecker: opts.OverlayChecker,
	})

	return &Manager{
		info:            info,
		parts:           resolved,
		store:           store,
		sequencer:       seq,
		executor:        exec,
		packageRepo:     opts.PackageRepository,
		extraBuildSnaps: extraBuildSnapsFor(resolved),
	}, nil
}

// extraBuildSnapsFor implements chisel auto-injection: any part
// declaring a package slice (a stage-packages entry of the form
// "package_slice") implies chisel is needed to resolve it, so
// chisel/latest/stable is added unless some part already declares it.
func extraBuildSnapsFor(allParts map[string]*parts.Part) []string {
	hasSlice := false
	hasChisel := false
	for _, part := range allParts {
		for _, pkg := range part.StagePackages {
			if strings.Contains(pkg, "_") {
				hasSlice = true
			}
		}
		for _, snap := range part.BuildSnaps {
			if snap == chiselBuildSnap || strings.HasPrefix(snap, "chisel/") {
				hasChisel = true
			}
		}
	}
	if hasSlice && !hasChisel {
		return []string{chiselBuildSnap}
	}
	return nil
}

// Plan computes the ordered action list needed to bring partNames (every
// part, if empty) to targetStep.
func (m *Manager) Plan(targetStep steps.Step, partNames []string, rerun bool) ([]sequencer.Action, error) {
	return m.sequencer.Plan(targetStep, partNames, rerun)
}

// ActionExecutor runs a previously computed action list.
func (m *Manager) ActionExecutor(ctx context.Context, actions []sequencer.Action) error {
	return m.executor.Execute(ctx, actions)
}

// Clean removes state and artifacts for step and every step after it, for
// the given parts (every part, if names is empty).
func (m *Manager) Clean(step steps.Step, names []string) error {
	return m.executor.Clean(step, names)
}

// ReloadState is a no-op: the StateStore keeps no in-memory cache, so
// every Load already reads current on-disk state. The call is kept as a
// seam for a future caching StateStore implementation.
func (m *Manager) ReloadState() error {
	return nil
}

// RefreshPackagesList refreshes the host's package repository, if one
// was configured. It is a no-op when none was provided, since package
// resolution is out of scope for the core engine.
func (m *Manager) RefreshPackagesList(ctx context.Context) error {
	if m.packageRepo == nil {
		return nil
	}
	return m.packageRepo.Refresh(ctx)
}

// GetPullAssets returns the pull-time asset metadata recorded for part,
// or nil if its pull step has not run.
func (m *Manager) GetPullAssets(partName string) (map[string]string, error) {
	rec, ok, err := m.store.Load(partName, steps.Pull)
	if err != nil || !ok {
		return nil, err
	}
	return rec.Assets, nil
}

// GetPrimedStagePackages returns the sorted, deduplicated union of
// stage-packages recorded across every part's stage step.
func (m *Manager) GetPrimedStagePackages() ([]string, error) {
	seen := map[string]struct{}{}
	for name := range m.parts {
		rec, ok, err := m.store.Load(name, steps.Stage)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for _, pkg := range rec.StagePackages {
			seen[pkg] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for pkg := range seen {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out, nil
}

// ProjectInfo returns the resolved project configuration.
func (m *Manager) ProjectInfo() *project.Info {
	return m.info
}

// ExtraBuildSnaps returns the project-wide build snaps implied by every
// part's declared properties (currently just chisel auto-injection).
func (m *Manager) ExtraBuildSnaps() []string {
	return m.extraBuildSnaps
}

// Parts returns the resolved part set, keyed by name.
func (m *Manager) Parts() map[string]*parts.Part {
	return m.parts
}
