// SPDX-License-Identifier: AGPL-3.0-or-later
package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"partcraft/pkg/parts"
)

func TestOfIsOrderIndependentForMaps(t *testing.T) {
	a, err := Of(map[string]any{"x": 1, "y": 2})
	require.NoError(t, err)
	b, err := Of(map[string]any{"y": 2, "x": 1})
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestOfDiffersOnChange(t *testing.T) {
	a, _ := Of(map[string]any{"x": 1})
	b, _ := Of(map[string]any{"x": 2})
	require.NotEqual(t, a, b)
}

func TestPullFingerprintIgnoresBuildFields(t *testing.T) {
	p1 := &parts.Part{Name: "a", PluginName: "dump", Sources: []parts.Source{{URI: "./x"}}}
	p2 := &parts.Part{Name: "a", PluginName: "dump", Sources: []parts.Source{{URI: "./x"}}, BuildPackages: []string{"gcc"}}

	f1, err := PullFingerprint(p1, Inputs{Arch: "amd64"})
	require.NoError(t, err)
	f2, err := PullFingerprint(p2, Inputs{Arch: "amd64"})
	require.NoError(t, err)
	require.Equal(t, f1, f2)
}

func TestPullFingerprintChangesWithArch(t *testing.T) {
	p := &parts.Part{Name: "a", PluginName: "dump"}
	f1, err := PullFingerprint(p, Inputs{Arch: "amd64"})
	require.NoError(t, err)
	f2, err := PullFingerprint(p, Inputs{Arch: "arm64"})
	require.NoError(t, err)
	require.NotEqual(t, f1, f2)
}

func TestBuildFingerprintChangesWithOverlayHash(t *testing.T) {
	p := &parts.Part{Name: "b", PluginName: "dump"}

	f1, err := BuildFingerprint(p, Inputs{OverlayHash: "h1"})
	require.NoError(t, err)
	f2, err := BuildFingerprint(p, Inputs{OverlayHash: "h2"})
	require.NoError(t, err)
	require.NotEqual(t, f1, f2)
}

func TestStageFingerprintDependsOnBuild(t *testing.T) {
	p := &parts.Part{Name: "c"}
	f1, err := StageFingerprint(p, Inputs{}, Digest("build-1"))
	require.NoError(t, err)
	f2, err := StageFingerprint(p, Inputs{}, Digest("build-2"))
	require.NoError(t, err)
	require.NotEqual(t, f1, f2)
}
