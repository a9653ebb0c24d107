// SPDX-License-Identifier: AGPL-3.0-or-later
package sequencer

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"partcraft/pkg/fingerprint"
	"partcraft/pkg/overlay"
	"partcraft/pkg/parts"
	"partcraft/pkg/state"
	"partcraft/pkg/steps"
)

// OutdatedChecker reports whether a part's already-pulled source has
// moved on upstream, and whether its source handler can refresh it in
// place rather than needing a full Rerun. It is optional: a Sequencer
// built without one never distinguishes Update from Skip, simply
// trusting the fingerprint comparison.
type OutdatedChecker interface {
	IsOutdated(part *parts.Part) (outdated, supportsUpdate bool, err error)
}

// Options configures a Sequencer.
type Options struct {
	Store  *state.Store
	Arch   string

	// ProjectVars is the snapshot of project variables visible to Build,
	// Stage, and Prime fingerprints.
	ProjectVars map[string]string

	OverlayEnabled bool
	BaseLayerHash  string

	// IgnoreOutdated lists doublestar glob patterns of part names that
	// never have an otherwise-Skip Pull decision downgraded to
	// Update/Rerun purely because their source reports as outdated.
	IgnoreOutdated []string

	OutdatedChecker OutdatedChecker
}

// Sequencer computes the ordered action list that brings a set of parts
// to a target lifecycle step.
type Sequencer struct {
	parts map[string]*parts.Part
	order []string
	opts  Options
}

// New builds a Sequencer over allParts, computing and validating the
// dependency topological order up front so construction itself fails
// fast on a cycle.
func New(allParts map[string]*parts.Part, opts Options) (*Sequencer, error) {
	order, err := topologicalOrder(allParts)
	if err != nil {
		return nil, err
	}
	return &Sequencer{parts: allParts, order: order, opts: opts}, nil
}

// partState tracks, per step, the decision made and the fingerprint it
// was made against, so later steps of the same part (and dependents) can
// reference both.
type partState struct {
	kind        [steps.Count]Kind
	fingerprint [steps.Count]fingerprint.Digest
	decided     [steps.Count]bool
}

// Plan computes the ordered action list needed to bring every part in
// partNames (all parts, if empty) to targetStep.
func (s *Sequencer) Plan(targetStep steps.Step, partNames []string, rerun bool) ([]Action, error) {
	requested := partNames
	if len(requested) == 0 {
		requested = append([]string(nil), s.order...)
	}

	inClosure, err := closure(s.parts, requested)
	if err != nil {
		return nil, err
	}

	overlayHashAfter := s.overlayChain()

	results := make(map[string]*partState, len(s.parts))
	for name := range s.parts {
		results[name] = &partState{}
	}

	var actions []Action
	for _, step := range steps.All {
		if step > targetStep {
			break
		}
		for _, name := range s.order {
			if _, ok := inClosure[name]; !ok {
				continue
			}
			part := s.parts[name]
			st := results[name]

			if step == steps.Overlay && !part.HasOverlay {
				// A part that doesn't opt into overlay has no Overlay
				// action at all, not merely a Skip — its dependents still
				// see the inherited chain hash via overlayHashAfter.
				continue
			}

			fp, err := s.fingerprintFor(part, step, overlayHashAfter[name], st)
			if err != nil {
				return nil, err
			}

			kind, err := s.decide(part, step, fp, rerun)
			if err != nil {
				return nil, err
			}

			kind = s.applyDependencyInvalidation(part, step, kind, results)

			st.kind[step] = kind
			st.fingerprint[step] = fp
			st.decided[step] = true

			actions = append(actions, Action{Part: name, Step: step, Kind: kind, Fingerprint: fp})
		}
	}

	return actions, nil
}

func (s *Sequencer) fingerprintFor(part *parts.Part, step steps.Step, overlayHash string, st *partState) (fingerprint.Digest, error) {
	in := fingerprint.Inputs{Arch: s.opts.Arch, ProjectVars: s.opts.ProjectVars, OverlayHash: overlayHash}

	switch step {
	case steps.Pull:
		return fingerprint.PullFingerprint(part, fingerprint.Inputs{Arch: s.opts.Arch})
	case steps.Overlay:
		return fingerprint.OverlayFingerprint(part, in)
	case steps.Build:
		return fingerprint.BuildFingerprint(part, in)
	case steps.Stage:
		return fingerprint.StageFingerprint(part, in, st.fingerprint[steps.Build])
	case steps.Prime:
		return fingerprint.PrimeFingerprint(part, in, st.fingerprint[steps.Stage])
	default:
		return "", fmt.Errorf("sequencer: unknown step %v for part %q", step, part.Name)
	}
}

func (s *Sequencer) decide(part *parts.Part, step steps.Step, fp fingerprint.Digest, rerun bool) (Kind, error) {
	record, found, err := s.opts.Store.Load(part.Name, step)
	if err != nil {
		return Run, err
	}
	if !found {
		return Run, nil
	}
	if record.Fingerprint != string(fp) {
		return Rerun, nil
	}
	if rerun {
		return Rerun, nil
	}

	if step == steps.Pull && s.opts.OutdatedChecker != nil {
		outdated, supportsUpdate, err := s.opts.OutdatedChecker.IsOutdated(part)
		if err != nil {
			return Run, err
		}
		if outdated {
			if s.matchesIgnoreOutdated(part.Name) {
				return SkipOutdated, nil
			}
			if supportsUpdate {
				return Update, nil
			}
			return Rerun, nil
		}
		return Skip, nil
	}

	if step == steps.Stage {
		return SkipStaged, nil
	}
	return Skip, nil
}

// applyDependencyInvalidation enforces: if part itself has a non-skip
// action at an earlier step, or any dependency of part has a non-skip
// action at a step at or before step, part's own decision at step must be
// upgraded to at least Rerun.
func (s *Sequencer) applyDependencyInvalidation(part *parts.Part, step steps.Step, kind Kind, results map[string]*partState) Kind {
	if kind == Run || kind == Rerun {
		return kind
	}
	if own, ok := results[part.Name]; ok {
		for st := steps.Pull; st < step; st++ {
			if own.decided[st] && !own.kind[st].IsSkip() {
				return Rerun
			}
		}
	}
	for _, dep := range part.After {
		depState, ok := results[dep]
		if !ok {
			continue
		}
		for st := steps.Pull; st <= step; st++ {
			if !depState.decided[st] {
				continue
			}
			if !depState.kind[st].IsSkip() {
				return Rerun
			}
		}
	}
	return kind
}

func (s *Sequencer) matchesIgnoreOutdated(name string) bool {
	for _, pattern := range s.opts.IgnoreOutdated {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// overlayChain computes, for every part in full topological order
// (independent of any requested closure, since the overlay hash chain
// spans the whole project), the cumulative chain hash as of that part:
// the hash after folding in every overlay-participating part up to and
// including it.
func (s *Sequencer) overlayChain() map[string]string {
	result := make(map[string]string, len(s.order))
	if !s.opts.OverlayEnabled {
		for _, name := range s.order {
			result[name] = ""
		}
		return result
	}

	previous := overlay.LayerHash(s.opts.BaseLayerHash)
	for _, name := range s.order {
		part := s.parts[name]
		if part.HasOverlay {
			next, err := overlay.HashLayer(previous, sortedCopy(part.OverlayPackages), sortedCopy(part.OverlaySelector), part.OverlayScript)
			if err == nil {
				previous = next
			}
		}
		result[name] = string(previous)
	}
	return result
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
