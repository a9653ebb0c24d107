// SPDX-License-Identifier: AGPL-3.0-or-later
package steps

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStepOrdering(t *testing.T) {
	require.True(t, Pull < Overlay)
	require.True(t, Overlay < Build)
	require.True(t, Build < Stage)
	require.True(t, Stage < Prime)
}

func TestStepString(t *testing.T) {
	require.Equal(t, "pull", Pull.String())
	require.Equal(t, "prime", Prime.String())
}

func TestParseStep(t *testing.T) {
	for _, s := range All {
		parsed, err := ParseStep(s.String())
		require.NoError(t, err)
		require.Equal(t, s, parsed)
	}

	_, err := ParseStep("bogus")
	require.Error(t, err)
}

func TestSubsequentSteps(t *testing.T) {
	require.Equal(t, All, SubsequentSteps(Pull))
	require.Equal(t, []Step{Prime}, SubsequentSteps(Prime))
	require.Equal(t, []Step{Build, Stage, Prime}, SubsequentSteps(Build))
}
