// SPDX-License-Identifier: AGPL-3.0-or-later
package sequencer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"partcraft/pkg/parts"
	"partcraft/pkg/state"
	"partcraft/pkg/steps"
)

func newStore(t *testing.T) *state.Store {
	t.Helper()
	return state.NewStore(t.TempDir())
}

func TestPlanTrivialSinglePart(t *testing.T) {
	allParts := map[string]*parts.Part{
		"hello": {Name: "hello", PluginName: "dump", Sources: []parts.Source{{URI: "."}}},
	}
	seq, err := New(allParts, Options{Store: newStore(t), Arch: "amd64"})
	require.NoError(t, err)

	actions, err := seq.Plan(steps.Prime, nil, false)
	require.NoError(t, err)

	require.Len(t, actions, 4) // Pull, Build, Stage, Prime — no Overlay opt-in
	wantSteps := []steps.Step{steps.Pull, steps.Build, steps.Stage, steps.Prime}
	for i, a := range actions {
		require.Equal(t, "hello", a.Part)
		require.Equal(t, wantSteps[i], a.Step)
		require.Equal(t, Run, a.Kind)
	}
}

func TestPlanDependencyOrdering(t *testing.T) {
	allParts := map[string]*parts.Part{
		"a": {Name: "a", PluginName: "nil"},
		"b": {Name: "b", PluginName: "nil", After: []string{"a"}},
	}
	seq, err := New(allParts, Options{Store: newStore(t), Arch: "amd64"})
	require.NoError(t, err)

	actions, err := seq.Plan(steps.Build, nil, false)
	require.NoError(t, err)

	var order []string
	for _, a := range actions {
		order = append(order, a.Part+"/"+a.Step.String())
	}
	require.Equal(t, []string{"a/pull", "b/pull", "a/build", "b/build"}, order)
}

func TestPlanIsIdempotentAfterRecording(t *testing.T) {
	allParts := map[string]*parts.Part{
		"hello": {Name: "hello", PluginName: "dump", Sources: []parts.Source{{URI: "."}}},
	}
	store := newStore(t)
	seq, err := New(allParts, Options{Store: store, Arch: "amd64"})
	require.NoError(t, err)

	first, err := seq.Plan(steps.Prime, nil, false)
	require.NoError(t, err)
	for _, a := range first {
		require.NoError(t, store.Save("hello", a.Step, &state.Record{Fingerprint: string(a.Fingerprint)}))
	}

	second, err := seq.Plan(steps.Prime, nil, false)
	require.NoError(t, err)
	require.Len(t, second, 4)
	for _, a := range second {
		require.True(t, a.Kind.IsSkip(), "expected a skip variant, got %s", a.Kind)
	}
}

func TestPlanDeterministic(t *testing.T) {
	allParts := map[string]*parts.Part{
		"z": {Name: "z", PluginName: "nil"},
		"a": {Name: "a", PluginName: "nil"},
		"m": {Name: "m", PluginName: "nil"},
	}
	seq, err := New(allParts, Options{Store: newStore(t), Arch: "amd64"})
	require.NoError(t, err)

	first, err := seq.Plan(steps.Pull, nil, false)
	require.NoError(t, err)
	second, err := seq.Plan(steps.Pull, nil, false)
	require.NoError(t, err)
	require.Equal(t, first, second)

	var names []string
	for _, a := range first {
		names = append(names, a.Part)
	}
	require.Equal(t, []string{"a", "m", "z"}, names)
}

func TestCircularDependencyDetected(t *testing.T) {
	allParts := map[string]*parts.Part{
		"a": {Name: "a", After: []string{"b"}},
		"b": {Name: "b", After: []string{"a"}},
	}
	_, err := New(allParts, Options{Store: newStore(t)})
	var cycleErr *CircularDependencyError
	require.ErrorAs(t, err, &cycleErr)
}

func TestDependencyInvalidationCascade(t *testing.T) {
	allParts := map[string]*parts.Part{
		"a": {Name: "a", PluginName: "nil"},
		"b": {Name: "b", PluginName: "nil", After: []string{"a"}},
	}
	store := newStore(t)
	seq, err := New(allParts, Options{Store: store, Arch: "amd64"})
	require.NoError(t, err)

	first, err := seq.Plan(steps.Build, nil, false)
	require.NoError(t, err)
	for _, a := range first {
		require.NoError(t, store.Save(a.Part, a.Step, &state.Record{Fingerprint: string(a.Fingerprint)}))
	}

	// Changing "a"'s plugin invalidates a's Pull, which must cascade to
	// force b's Build to Rerun even though b itself hasn't changed.
	allParts["a"].PluginName = "dump"
	allParts["a"].Sources = []parts.Source{{URI: "."}}

	seq2, err := New(allParts, Options{Store: store, Arch: "amd64"})
	require.NoError(t, err)
	second, err := seq2.Plan(steps.Build, nil, false)
	require.NoError(t, err)

	byKey := map[string]Kind{}
	for _, a := range second {
		byKey[a.Part+"/"+a.Step.String()] = a.Kind
	}
	require.Equal(t, Rerun, byKey["a/pull"])
	require.Equal(t, Rerun, byKey["b/build"])
}

func TestClosureExcludesUnrelatedParts(t *testing.T) {
	allParts := map[string]*parts.Part{
		"a": {Name: "a", PluginName: "nil"},
		"b": {Name: "b", PluginName: "nil"},
	}
	seq, err := New(allParts, Options{Store: newStore(t), Arch: "amd64"})
	require.NoError(t, err)

	actions, err := seq.Plan(steps.Pull, []string{"a"}, false)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	require.Equal(t, "a", actions[0].Part)
}
