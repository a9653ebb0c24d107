// SPDX-License-Identifier: AGPL-3.0-or-later
package sources

import (
	"context"
	"fmt"
	"strconv"

	"partcraft/pkg/executil"
)

// GitHandler fetches a source from a git repository by shelling out to the
// git binary, the same subprocess idiom internal/git/git.go uses for
// commit-log retrieval, generalized here to clone/fetch/checkout and run
// through pkg/executil.Runner rather than a raw os/exec call.
type GitHandler struct {
	src    Source
	runner executil.Runner
}

// NewGitHandler constructs a GitHandler for src. A nil runner uses the
// default os/exec-backed Runner.
func NewGitHandler(src Source, runner executil.Runner) (*GitHandler, error) {
	if runner == nil {
		runner = executil.NewRunner()
	}
	return &GitHandler{src: src, runner: runner}, nil
}

var gitEnv = map[string]string{"LANG": "C", "LC_ALL": "C"}

// Pull clones the repository fresh into destDir at the declared
// tag/commit/branch (tag wins over commit wins over branch when more than
// one is set, matching the precedence documented in
// original_source/craft_parts/sources/git_source.py), fetching submodules
// if requested.
func (h *GitHandler) Pull(ctx context.Context, destDir string) error {
	args := []string{"clone"}
	if h.src.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(h.src.Depth))
	}
	if h.src.Branch != "" {
		args = append(args, "--branch", h.src.Branch)
	}
	args = append(args, h.src.URI, destDir)

	if err := h.run(ctx, "", args); err != nil {
		return fmt.Errorf("git source %q: clone: %w", h.src.URI, err)
	}

	ref := h.checkoutRef()
	if ref != "" {
		if err := h.run(ctx, destDir, []string{"checkout", ref}); err != nil {
			return fmt.Errorf("git source %q: checkout %s: %w", h.src.URI, ref, err)
		}
	}

	for _, sub := range h.src.Submodules {
		if err := h.run(ctx, destDir, []string{"submodule", "update", "--init", sub}); err != nil {
			return fmt.Errorf("git source %q: submodule %s: %w", h.src.URI, sub, err)
		}
	}
	return nil
}

// CheckIfOutdated reports whether the remote's HEAD (for branch checkouts)
// has moved past the local clone's HEAD. Pinned tag/commit checkouts are
// never outdated.
func (h *GitHandler) CheckIfOutdated(ctx context.Context, destDir string) (bool, error) {
	if h.src.Tag != "" || h.src.Commit != "" {
		return false, nil
	}

	localResult, err := h.runOutput(ctx, destDir, []string{"rev-parse", "HEAD"})
	if err != nil {
		return false, fmt.Errorf("git source %q: rev-parse: %w", h.src.URI, err)
	}

	remoteRef := "HEAD"
	if h.src.Branch != "" {
		remoteRef = h.src.Branch
	}
	remoteResult, err := h.runOutput(ctx, destDir, []string{"ls-remote", h.src.URI, remoteRef})
	if err != nil {
		return false, fmt.Errorf("git source %q: ls-remote: %w", h.src.URI, err)
	}

	return !refMatches(localResult, remoteResult), nil
}

// Update fetches and fast-forwards an existing clone in place.
func (h *GitHandler) Update(ctx context.Context, destDir string) error {
	if err := h.run(ctx, destDir, []string{"fetch", "origin"}); err != nil {
		return fmt.Errorf("git source %q: fetch: %w", h.src.URI, err)
	}
	ref := h.checkoutRef()
	if ref == "" {
		ref = "origin/" + h.src.Branch
	}
	if err := h.run(ctx, destDir, []string{"checkout", ref}); err != nil {
		return fmt.Errorf("git source %q: checkout %s: %w", h.src.URI, ref, err)
	}
	return nil
}

func (h *GitHandler) checkoutRef() string {
	switch {
	case h.src.Tag != "":
		return h.src.Tag
	case h.src.Commit != "":
		return h.src.Commit
	default:
		return ""
	}
}

func (h *GitHandler) run(ctx context.Context, dir string, args []string) error {
	_, err := h.runOutput(ctx, dir, args)
	return err
}

func (h *GitHandler) runOutput(ctx context.Context, dir string, args []string) (string, error) {
	res, err := h.runner.Run(ctx, executil.Command{
		Name: "git",
		Args: args,
		Dir:  dir,
		Env:  gitEnv,
	})
	if err != nil {
		return "", err
	}
	return string(res.Stdout), nil
}

func refMatches(local, remoteLsOutput string) bool {
	if len(remoteLsOutput) < len(local) {
		return false
	}
	return remoteLsOutput[:len(local)] == local
}
