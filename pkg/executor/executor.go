// SPDX-License-Identifier: AGPL-3.0-or-later
package executor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"partcraft/pkg/overlay"
	"partcraft/pkg/parts"
	"partcraft/pkg/plugins"
	"partcraft/pkg/project"
	"partcraft/pkg/sequencer"
	"partcraft/pkg/sources"
	"partcraft/pkg/state"
	"partcraft/pkg/steps"

	"partcraft/pkg/executil"
)

// Options configures an Executor.
type Options struct {
	Info    *project.Info
	Store   *state.Store
	Plugins *plugins.Registry
	Sources *sources.Registry
	Runner  executil.Runner

	OverlayEnabled bool
	OverlayChecker overlay.PlatformChecker
}

// Executor drives a Sequencer-produced action list through the pull,
// overlay, build, stage, and prime procedures, persisting a StateRecord
// through the StateStore after every action that actually ran.
type Executor struct {
	parts map[string]*parts.Part
	opts  Options

	stageManifest *manifest
	primeManifest *manifest
}

// New constructs an Executor over a resolved part set.
func New(allParts map[string]*parts.Part, opts Options) *Executor {
	if opts.Runner == nil {
		opts.Runner = executil.NewRunner()
	}
	if opts.OverlayChecker == nil {
		opts.OverlayChecker = overlay.HostPlatformChecker{}
	}
	return &Executor{
		parts:         allParts,
		opts:          opts,
		stageManifest: newManifest(),
		primeManifest: newManifest(),
	}
}

// Execute runs actions in order, stopping at the first failure. Skip
// variants are no-ops; Rerun first clears the part's own and every later
// recorded step before running the step fresh.
func (e *Executor) Execute(ctx context.Context, actions []sequencer.Action) error {
	for _, action := range actions {
		if action.Kind.IsSkip() {
			continue
		}

		part, ok := e.parts[action.Part]
		if !ok {
			return &ExecutionError{Part: action.Part, Step: action.Step, Kind: ErrSourceFetch, Cause: fmt.Errorf("unknown part")}
		}

		if action.Kind == sequencer.Rerun {
			if err := e.opts.Store.RemoveFrom(action.Part, action.Step); err != nil {
				return &ExecutionError{Part: action.Part, Step: action.Step, Kind: ErrStateWrite, Cause: err}
			}
		}

		rec, err := e.runStep(ctx, part, action.Step)
		if err != nil {
			return err // already an *ExecutionError
		}
		rec.Fingerprint = string(action.Fingerprint)

		if err := e.opts.Store.Save(action.Part, action.Step, rec); err != nil {
			return &ExecutionError{Part: action.Part, Step: action.Step, Kind: ErrStateWrite, Cause: err}
		}
	}
	return nil
}

func (e *Executor) runStep(ctx context.Context, part *parts.Part, step steps.Step) (*state.Record, error) {
	switch step {
	case steps.Pull:
		return e.runPull(ctx, part)
	case steps.Overlay:
		return e.runOverlay(ctx, part)
	case steps.Build:
		return e.runBuild(ctx, part)
	case steps.Stage:
		return e.runStage(ctx, part)
	case steps.Prime:
		return e.runPrime(ctx, part)
	default:
		return nil, &ExecutionError{Part: part.Name, Step: step, Kind: ErrBuildFailed, Cause: fmt.Errorf("unknown step")}
	}
}

// Clean removes state and artifacts for step and every step after it, for
// the given parts (every part, if names is empty). When names is empty it
// additionally removes the shared stage and prime trees, whatever the
// step.
func (e *Executor) Clean(step steps.Step, names []string) error {
	targets := names
	if len(targets) == 0 {
		for name := range e.parts {
			targets = append(targets, name)
		}
	}

	for _, name := range targets {
		if err := e.opts.Store.RemoveFrom(name, step); err != nil {
			return fmt.Errorf("clean %s: %w", name, err)
		}
		dirs := e.opts.Info.Dirs().Part(name)
		for _, st := range steps.SubsequentSteps(step) {
			if err := removeStepArtifacts(dirs, st); err != nil {
				return fmt.Errorf("clean %s/%s: %w", name, st, err)
			}
		}
	}

	if len(names) == 0 {
		_ = os.RemoveAll(e.opts.Info.Dirs().StageDir)
		_ = os.RemoveAll(e.opts.Info.Dirs().PrimeDir)
	}
	return nil
}

func removeStepArtifacts(dirs project.PartDir, step steps.Step) error {
	switch step {
	case steps.Pull:
		return os.RemoveAll(dirs.SourceDir)
	case steps.Build:
		if err := os.RemoveAll(dirs.BuildDir); err != nil {
			return err
		}
		return os.RemoveAll(dirs.InstallDir)
	default:
		// Overlay/Stage/Prime artifacts live in shared trees, not per-part
		// directories; their removal is handled by the caller when
		// cleaning every part at once.
		return nil
	}
}

func (e *Executor) runPull(ctx context.Context, part *parts.Part) (*state.Record, error) {
	dirs := e.opts.Info.Dirs().Part(part.Name)
	if err := os.MkdirAll(dirs.SourceDir, 0o755); err != nil {
		return nil, &ExecutionError{Part: part.Name, Step: steps.Pull, Kind: ErrSourceFetch, Cause: err}
	}

	assets := make(map[string]string, len(part.Sources))
	group, gctx := errgroup.WithContext(ctx)
	for i, src := range part.Sources {
		i, src := i, src
		group.Go(func() error {
			if err := verifyChecksum(src.URI, src.Checksum); err != nil {
				return &ExecutionError{Part: part.Name, Step: steps.Pull, Kind: ErrChecksumMismatch, Cause: err}
			}

			handler, err := e.opts.Sources.Build(toSourceSpec(src))
			if err != nil {
				return &ExecutionError{Part: part.Name, Step: steps.Pull, Kind: ErrSourceFetch, Cause: err}
			}
			if err := handler.Pull(gctx, dirs.SourceDir); err != nil {
				return &ExecutionError{Part: part.Name, Step: steps.Pull, Kind: ErrSourceFetch, Cause: err}
			}
			assets[fmt.Sprintf("source-%d", i)] = src.Key()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &state.Record{Assets: assets}, nil
}

func (e *Executor) runOverlay(ctx context.Context, part *parts.Part) (*state.Record, error) {
	if err := overlay.EnsureSupported(e.opts.OverlayEnabled, e.opts.OverlayChecker); err != nil {
		return nil, &ExecutionError{Part: part.Name, Step: steps.Overlay, Kind: ErrOverlayUnsupported, Cause: err}
	}

	overlayDir := e.opts.Info.Dirs().OverlayMountDir
	if err := os.MkdirAll(overlayDir, 0o755); err != nil {
		return nil, &ExecutionError{Part: part.Name, Step: steps.Overlay, Kind: ErrBuildFailed, Cause: err}
	}

	if part.OverlayScript != "" {
		if err := e.runScript(ctx, part.OverlayScript, overlayDir, nil); err != nil {
			return nil, &ExecutionError{Part: part.Name, Step: steps.Overlay, Kind: ErrBuildFailed, Cause: err}
		}
	}

	return &state.Record{}, nil
}

func (e *Executor) runBuild(ctx context.Context, part *parts.Part) (*state.Record, error) {
	// part.Properties was already produced by e.opts.Plugins at part-build
	// time (pkg/parts/build.go); there is nothing left for the registry to
	// resolve here.
	dirs := e.opts.Info.Dirs().Part(part.Name)
	for _, d := range []string{dirs.BuildDir, dirs.InstallDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, &ExecutionError{Part: part.Name, Step: steps.Build, Kind: ErrBuildFailed, Cause: err}
		}
	}

	buildCtx := plugins.BuildContext{
		PartName:           part.Name,
		SourceDir:          dirs.SourceDir,
		BuildDir:           dirs.BuildDir,
		InstallDir:         dirs.InstallDir,
		ParallelBuildCount: e.opts.Info.ParallelBuildCount(),
	}

	var cmds []string
	var env map[string]string
	if part.OverrideBuild != "" {
		cmds = []string{part.OverrideBuild}
	} else if part.Properties != nil {
		cmds = part.Properties.BuildCommands(buildCtx)
		env = part.Properties.BuildEnvironment()
	}

	if err := e.runScript(ctx, strings.Join(cmds, "\n"), dirs.BuildDir, env); err != nil {
		return nil, &ExecutionError{Part: part.Name, Step: steps.Build, Kind: ErrBuildFailed, Cause: err}
	}

	rec := &state.Record{BuildPackages: part.BuildPackages}
	if e.opts.Info.Vars().IsWriter(part.Name) {
		rec.Assets = map[string]string{"project-vars-writer": "true"}
	}
	return rec, nil
}

func (e *Executor) runStage(ctx context.Context, part *parts.Part) (*state.Record, error) {
	_ = ctx
	dirs := e.opts.Info.Dirs().Part(part.Name)
	stageDir := e.opts.Info.Dirs().StagePartition("")

	files, err := copySelected(dirs.InstallDir, stageDir, part.Stage, e.stageManifest, part.Name)
	if err != nil {
		return nil, &ExecutionError{Part: part.Name, Step: steps.Stage, Kind: ErrStageConflict, Cause: err}
	}
	return &state.Record{Files: files, StagePackages: part.StagePackages}, nil
}

func (e *Executor) runPrime(ctx context.Context, part *parts.Part) (*state.Record, error) {
	_ = ctx
	stageDir := e.opts.Info.Dirs().StagePartition("")
	primeDir := e.opts.Info.Dirs().PrimePartition("")

	files, err := copySelected(stageDir, primeDir, part.Prime, e.primeManifest, part.Name)
	if err != nil {
		return nil, &ExecutionError{Part: part.Name, Step: steps.Prime, Kind: ErrStageConflict, Cause: err}
	}
	return &state.Record{Files: files}, nil
}

// runScript writes script to a temporary file under dir and executes it
// with /bin/sh, streaming output to the process's own stdout/stderr — the
// same approach pkg/executil already takes for shelling out, just fed a
// generated script instead of a single command line.
func (e *Executor) runScript(ctx context.Context, script, dir string, env map[string]string) error {
	if strings.TrimSpace(script) == "" {
		return nil
	}

	scriptFile, err := os.CreateTemp(dir, ".partcraft-script-*.sh")
	if err != nil {
		return err
	}
	path := scriptFile.Name()
	defer os.Remove(path)

	if _, err := scriptFile.WriteString("#!/bin/sh\nset -e\n" + script + "\n"); err != nil {
		scriptFile.Close()
		return err
	}
	if err := scriptFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(path, 0o755); err != nil {
		return err
	}

	return e.opts.Runner.RunStream(ctx, executil.Command{
		Name: "/bin/sh",
		Args: []string{path},
		Dir:  dir,
		Env:  env,
	}, os.Stdout)
}
