// SPDX-License-Identifier: AGPL-3.0-or-later
package overlay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashLayerChainsOnPrevious(t *testing.T) {
	base, err := HashLayer("", []string{"curl"}, nil, "")
	require.NoError(t, err)
	require.NotEmpty(t, base)

	next, err := HashLayer(base, []string{"git"}, nil, "")
	require.NoError(t, err)
	require.NotEqual(t, base, next)

	againstDifferentBase, err := HashLayer("other-base", []string{"git"}, nil, "")
	require.NoError(t, err)
	require.NotEqual(t, next, againstDifferentBase)
}

func TestHashLayerDeterministic(t *testing.T) {
	a, err := HashLayer("base", []string{"curl", "git"}, []string{"etc/hosts"}, "echo hi")
	require.NoError(t, err)
	b, err := HashLayer("base", []string{"curl", "git"}, []string{"etc/hosts"}, "echo hi")
	require.NoError(t, err)
	require.Equal(t, a, b)
}

type fakeChecker struct {
	linux bool
	root  bool
}

func (f fakeChecker) IsLinux() bool { return f.linux }
func (f fakeChecker) IsRoot() bool  { return f.root }

func TestEnsureSupported(t *testing.T) {
	require.ErrorIs(t, EnsureSupported(false, fakeChecker{linux: true, root: true}), ErrFeatureDisabled)
	require.ErrorIs(t, EnsureSupported(true, fakeChecker{linux: false, root: true}), ErrRequiresLinux)
	require.ErrorIs(t, EnsureSupported(true, fakeChecker{linux: true, root: false}), ErrRequiresRoot)
	require.NoError(t, EnsureSupported(true, fakeChecker{linux: true, root: true}))
}
