// SPDX-License-Identifier: AGPL-3.0-or-later
package fingerprint

import "partcraft/pkg/parts"

// Inputs carries the project-wide values a step's fingerprint may need to
// capture alongside the part's own spec: the host architecture (every
// step), the project variables a step is allowed to observe (Build,
// Stage, and Prime only — Pull and Overlay run before any part has had a
// chance to write them), and the current overlay chain hash (Overlay
// onward; zero value for Pull).
type Inputs struct {
	Arch        string
	ProjectVars map[string]string
	OverlayHash string
}

// PullFingerprint captures everything that makes a part's Pull step need
// to rerun: its plugin identity, its source declarations, and the host
// architecture. It deliberately excludes build/stage/prime-only fields so
// that editing, say, a part's `organize` map never invalidates an
// already-fetched source tree.
func PullFingerprint(p *parts.Part, in Inputs) (Digest, error) {
	return Of(struct {
		Plugin  string         `json:"plugin"`
		Sources []parts.Source `json:"sources"`
		Arch    string         `json:"arch"`
	}{
		Plugin:  p.PluginName,
		Sources: p.Sources,
		Arch:    in.Arch,
	})
}

// OverlayFingerprint captures a part's own contribution to the overlay
// step — its script and the package/file selectors that scope it — plus
// the chain hash inherited from every overlay-participating ancestor.
func OverlayFingerprint(p *parts.Part, in Inputs) (Digest, error) {
	return Of(struct {
		Script   string   `json:"script"`
		Packages []string `json:"packages"`
		Files    []string `json:"files"`
		Arch     string   `json:"arch"`
		Overlay  string   `json:"overlay_hash"`
	}{
		Script:   p.OverlayScript,
		Packages: p.OverlayPackages,
		Files:    p.OverlaySelector,
		Arch:     in.Arch,
		Overlay:  in.OverlayHash,
	})
}

// BuildFingerprint captures everything that makes a part's Build step
// need to rerun: its own build-affecting fields, its plugin's canonical
// properties, the project variables it may read, the overlay chain hash,
// and the host architecture. Cross-part invalidation (a dependency being
// rebuilt) is handled separately by the Sequencer's dependency-driven
// invalidation rule rather than folded into this digest.
func BuildFingerprint(p *parts.Part, in Inputs) (Digest, error) {
	var canonical any
	if p.Properties != nil {
		canonical = p.Properties.Canonical()
	}
	return Of(struct {
		BuildPackages []string          `json:"build_packages"`
		BuildSnaps    []string          `json:"build_snaps"`
		OverrideBuild string            `json:"override_build"`
		Properties    any               `json:"properties"`
		ProjectVars   map[string]string `json:"project_vars"`
		Arch          string            `json:"arch"`
		Overlay       string            `json:"overlay_hash"`
	}{
		BuildPackages: p.BuildPackages,
		BuildSnaps:    p.BuildSnaps,
		OverrideBuild: p.OverrideBuild,
		Properties:    canonical,
		ProjectVars:   in.ProjectVars,
		Arch:          in.Arch,
		Overlay:       in.OverlayHash,
	})
}

// StageFingerprint captures a part's Stage-affecting fields plus its own
// Build fingerprint, so that a rebuild invalidates staging too.
func StageFingerprint(p *parts.Part, in Inputs, buildFingerprint Digest) (Digest, error) {
	return Of(struct {
		StagePackages []string          `json:"stage_packages"`
		Stage         []string          `json:"stage"`
		OverrideStage string            `json:"override_stage"`
		ProjectVars   map[string]string `json:"project_vars"`
		Build         Digest            `json:"build"`
	}{
		StagePackages: p.StagePackages,
		Stage:         p.Stage,
		OverrideStage: p.OverrideStage,
		ProjectVars:   in.ProjectVars,
		Build:         buildFingerprint,
	})
}

// PrimeFingerprint captures a part's Prime-affecting fields plus its own
// Stage fingerprint.
func PrimeFingerprint(p *parts.Part, in Inputs, stageFingerprint Digest) (Digest, error) {
	return Of(struct {
		Organize      []string          `json:"organize"`
		Prime         []string          `json:"prime"`
		OverridePrime string            `json:"override_prime"`
		ProjectVars   map[string]string `json:"project_vars"`
		Stage         Digest            `json:"stage"`
	}{
		Organize:      p.Organize,
		Prime:         p.Prime,
		OverridePrime: p.OverridePrime,
		ProjectVars:   in.ProjectVars,
		Stage:         stageFingerprint,
	})
}
