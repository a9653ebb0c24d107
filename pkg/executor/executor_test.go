// SPDX-License-Identifier: AGPL-3.0-or-later
package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"partcraft/pkg/overlay"
	"partcraft/pkg/parts"
	"partcraft/pkg/plugins"
	"partcraft/pkg/project"
	"partcraft/pkg/sequencer"
	"partcraft/pkg/sources"
	"partcraft/pkg/state"
	"partcraft/pkg/steps"
)

type allowOverlay struct{}

func (allowOverlay) IsLinux() bool { return true }
func (allowOverlay) IsRoot() bool  { return true }

func newTestExecutor(t *testing.T, srcDir string) (*Executor, map[string]*parts.Part, *project.Info) {
	t.Helper()

	workDir := t.TempDir()
	info, err := project.New(project.Options{
		ApplicationName: "demo",
		WorkDir:         workDir,
	})
	require.NoError(t, err)

	store := state.NewStore(info.Dirs().StateDir)

	pluginRegistry := plugins.NewRegistry()
	pluginRegistry.Register(plugins.NewDumpPlugin())
	dumpProps, err := mustPlugin(pluginRegistry).UnmarshalProperties(nil)
	require.NoError(t, err)

	allParts := map[string]*parts.Part{
		"hello": {
			Name:       "hello",
			PluginName: "dump",
			Properties: dumpProps,
			Sources: []parts.Source{
				{URI: srcDir, Type: "local"},
			},
			Stage: nil,
			Prime: nil,
		},
	}

	exec := New(allParts, Options{
		Info:    info,
		Store:   store,
		Plugins: pluginRegistry,
		Sources: sources.Default(),
		OverlayEnabled: false,
		OverlayChecker: allowOverlay{},
	})
	return exec, allParts, info
}

func mustPlugin(r *plugins.Registry) plugins.Plugin {
	p, err := r.Get("dump")
	if err != nil {
		panic(err)
	}
	return p
}

func TestExecutePullBuildStagePrimeTrivialPart(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "payload.txt"), []byte("hi"), 0o644))

	exec, allParts, info := newTestExecutor(t, srcDir)

	actions := []sequencer.Action{
		{Part: "hello", Step: steps.Pull, Kind: sequencer.Run, Fingerprint: "fp-pull"},
		{Part: "hello", Step: steps.Build, Kind: sequencer.Run, Fingerprint: "fp-build"},
		{Part: "hello", Step: steps.Stage, Kind: sequencer.Run, Fingerprint: "fp-stage"},
		{Part: "hello", Step: steps.Prime, Kind: sequencer.Run, Fingerprint: "fp-prime"},
	}

	require.NoError(t, exec.Execute(context.Background(), actions))

	primed := filepath.Join(info.Dirs().PrimePartition(""), "payload.txt")
	data, err := os.ReadFile(primed)
	require.NoError(t, err)
	require.Equal(t, "hi", string(data))

	for _, step := range []steps.Step{steps.Pull, steps.Build, steps.Stage, steps.Prime} {
		rec, ok, err := exec.opts.Store.Load("hello", step)
		require.NoError(t, err)
		require.True(t, ok)
		require.NotEmpty(t, rec.Fingerprint)
	}

	_ = allParts
}

func TestExecuteSkipsSkipKindActions(t *testing.T) {
	srcDir := t.TempDir()
	exec, _, _ := newTestExecutor(t, srcDir)

	actions := []sequencer.Action{
		{Part: "hello", Step: steps.Pull, Kind: sequencer.Skip, Fingerprint: "fp"},
	}
	require.NoError(t, exec.Execute(context.Background(), actions))

	_, ok, err := exec.opts.Store.Load("hello", steps.Pull)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestExecuteRerunClearsSubsequentState(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("v1"), 0o644))
	exec, _, _ := newTestExecutor(t, srcDir)
	ctx := context.Background()

	require.NoError(t, exec.Execute(ctx, []sequencer.Action{
		{Part: "hello", Step: steps.Pull, Kind: sequencer.Run, Fingerprint: "fp1"},
		{Part: "hello", Step: steps.Build, Kind: sequencer.Run, Fingerprint: "fp1"},
	}))

	require.NoError(t, exec.Execute(ctx, []sequencer.Action{
		{Part: "hello", Step: steps.Pull, Kind: sequencer.Rerun, Fingerprint: "fp2"},
	}))

	_, ok, err := exec.opts.Store.Load("hello", steps.Build)
	require.NoError(t, err)
	require.False(t, ok, "rerunning pull should have cleared the recorded build state")
}

func TestExecuteStageConflictFails(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "same.txt"), []byte("from-hello"), 0o644))

	workDir := t.TempDir()
	info, err := project.New(project.Options{ApplicationName: "demo", WorkDir: workDir})
	require.NoError(t, err)
	store := state.NewStore(info.Dirs().StateDir)

	pluginRegistry := plugins.NewRegistry()
	pluginRegistry.Register(plugins.NewDumpPlugin())
	dumpProps, err := mustPlugin(pluginRegistry).UnmarshalProperties(nil)
	require.NoError(t, err)

	otherSrc := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(otherSrc, "same.txt"), []byte("from-other"), 0o644))

	allParts := map[string]*parts.Part{
		"hello": {Name: "hello", PluginName: "dump", Properties: dumpProps, Sources: []parts.Source{{URI: srcDir, Type: "local"}}},
		"other": {Name: "other", PluginName: "dump", Properties: dumpProps, Sources: []parts.Source{{URI: otherSrc, Type: "local"}}},
	}

	exec := New(allParts, Options{
		Info: info, Store: store, Plugins: pluginRegistry, Sources: sources.Default(),
		OverlayChecker: allowOverlay{},
	})

	ctx := context.Background()
	for _, name := range []string{"hello", "other"} {
		require.NoError(t, exec.Execute(ctx, []sequencer.Action{
			{Part: name, Step: steps.Pull, Kind: sequencer.Run, Fingerprint: "fp"},
			{Part: name, Step: steps.Build, Kind: sequencer.Run, Fingerprint: "fp"},
		}))
	}

	require.NoError(t, exec.Execute(ctx, []sequencer.Action{
		{Part: "hello", Step: steps.Stage, Kind: sequencer.Run, Fingerprint: "fp"},
	}))
	err = exec.Execute(ctx, []sequencer.Action{
		{Part: "other", Step: steps.Stage, Kind: sequencer.Run, Fingerprint: "fp"},
	})
	require.Error(t, err)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, ErrStageConflict, execErr.Kind)
}

func TestExecutePullChecksumMismatchLeavesNoState(t *testing.T) {
	srcDir := t.TempDir()
	payload := filepath.Join(srcDir, "payload.txt")
	require.NoError(t, os.WriteFile(payload, []byte("hi"), 0o644))

	workDir := t.TempDir()
	info, err := project.New(project.Options{ApplicationName: "demo", WorkDir: workDir})
	require.NoError(t, err)
	store := state.NewStore(info.Dirs().StateDir)

	pluginRegistry := plugins.NewRegistry()
	pluginRegistry.Register(plugins.NewDumpPlugin())
	dumpProps, err := mustPlugin(pluginRegistry).UnmarshalProperties(nil)
	require.NoError(t, err)

	allParts := map[string]*parts.Part{
		"hello": {
			Name:       "hello",
			PluginName: "dump",
			Properties: dumpProps,
			Sources: []parts.Source{
				{URI: payload, Type: "local", Checksum: "sha256/deadbeef"},
			},
		},
	}

	exec := New(allParts, Options{
		Info: info, Store: store, Plugins: pluginRegistry, Sources: sources.Default(),
		OverlayChecker: allowOverlay{},
	})

	err = exec.Execute(context.Background(), []sequencer.Action{
		{Part: "hello", Step: steps.Pull, Kind: sequencer.Run, Fingerprint: "fp"},
	})
	require.Error(t, err)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, ErrChecksumMismatch, execErr.Kind)

	_, ok, loadErr := store.Load("hello", steps.Pull)
	require.NoError(t, loadErr)
	require.False(t, ok, "a failed pull must not leave a persisted state record behind")
}

func TestRunOverlayRejectedWhenUnsupported(t *testing.T) {
	srcDir := t.TempDir()
	exec, _, _ := newTestExecutor(t, srcDir)
	exec.opts.OverlayEnabled = true
	exec.opts.OverlayChecker = unsupportedChecker{}

	err := exec.Execute(context.Background(), []sequencer.Action{
		{Part: "hello", Step: steps.Overlay, Kind: sequencer.Run, Fingerprint: "fp"},
	})
	require.Error(t, err)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, ErrOverlayUnsupported, execErr.Kind)
}

type unsupportedChecker struct{}

func (unsupportedChecker) IsLinux() bool { return false }
func (unsupportedChecker) IsRoot() bool  { return false }

var _ overlay.PlatformChecker = unsupportedChecker{}

func TestCleanRemovesStateAndArtifacts(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "f.txt"), []byte("x"), 0o644))
	exec, _, info := newTestExecutor(t, srcDir)
	ctx := context.Background()

	require.NoError(t, exec.Execute(ctx, []sequencer.Action{
		{Part: "hello", Step: steps.Pull, Kind: sequencer.Run, Fingerprint: "fp"},
		{Part: "hello", Step: steps.Build, Kind: sequencer.Run, Fingerprint: "fp"},
	}))

	require.NoError(t, exec.Clean(steps.Pull, nil))

	_, ok, err := exec.opts.Store.Load("hello", steps.Pull)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = os.Stat(info.Dirs().Part("hello").SourceDir)
	require.True(t, os.IsNotExist(err))
}
