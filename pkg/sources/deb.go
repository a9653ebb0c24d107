// SPDX-License-Identifier: AGPL-3.0-or-later
package sources

import (
	"context"
	"fmt"
	"os"

	"partcraft/pkg/executil"
)

// DebHandler extracts the contents of a Debian package into a part's
// source directory, mirroring
// original_source/craft_parts/sources/deb_source.py's provision(): extract
// the package's data archive, then remove the .deb file unless the
// source was declared with `keep: true`.
type DebHandler struct {
	src    Source
	runner executil.Runner
}

// NewDebHandler constructs a DebHandler for src.
func NewDebHandler(src Source) *DebHandler {
	return &DebHandler{src: src, runner: executil.NewRunner()}
}

// Pull extracts the .deb at src.URI into destDir using dpkg-deb.
func (h *DebHandler) Pull(ctx context.Context, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("deb source: creating %s: %w", destDir, err)
	}

	_, err := h.runner.Run(ctx, executil.Command{
		Name: "dpkg-deb",
		Args: []string{"-x", h.src.URI, destDir},
	})
	if err != nil {
		return fmt.Errorf("deb source %q: %w", h.src.URI, err)
	}

	if !h.src.Keep {
		if err := os.Remove(h.src.URI); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("deb source %q: removing package after extraction: %w", h.src.URI, err)
		}
	}
	return nil
}
