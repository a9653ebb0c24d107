// SPDX-License-Identifier: AGPL-3.0-or-later
package plugins

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	require.True(t, Has("dump"))
	require.True(t, Has("nil"))
	require.True(t, Has("make"))
	require.False(t, Has("does-not-exist"))
}

func TestRegistryDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(NewDumpPlugin())
	require.Panics(t, func() { r.Register(NewDumpPlugin()) })
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("missing")
	require.ErrorIs(t, err, ErrUnknownPlugin)
}

func TestRegistryNamesSorted(t *testing.T) {
	names := DefaultRegistry.Names()
	require.Equal(t, []string{"dump", "make", "nil"}, names)
}

func TestMakePluginBuildCommands(t *testing.T) {
	p, err := Get("make")
	require.NoError(t, err)

	props, err := p.UnmarshalProperties(map[string]any{
		"make-parameters": []any{"PREFIX=/usr"},
	})
	require.NoError(t, err)

	cmds := props.BuildCommands(BuildContext{
		SourceDir:          "/src",
		BuildDir:           "/build",
		InstallDir:         "/install",
		ParallelBuildCount: 4,
	})
	require.NotEmpty(t, cmds)
	require.Contains(t, cmds[len(cmds)-2], "PREFIX=/usr")
}

func TestDumpPluginBuildCommands(t *testing.T) {
	p, err := Get("dump")
	require.NoError(t, err)
	props, err := p.UnmarshalProperties(nil)
	require.NoError(t, err)
	cmds := props.BuildCommands(BuildContext{SourceDir: "/src", InstallDir: "/install"})
	require.Len(t, cmds, 2)
}
