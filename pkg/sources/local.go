// SPDX-License-Identifier: AGPL-3.0-or-later
package sources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalHandler copies a directory or file that already lives on disk
// (relative to the project) into a part's source directory.
type LocalHandler struct {
	src Source
}

// NewLocalHandler constructs a LocalHandler for src.
func NewLocalHandler(src Source) *LocalHandler { return &LocalHandler{src: src} }

// Pull copies the local tree at src.URI into destDir, replacing any
// previous contents.
func (h *LocalHandler) Pull(_ context.Context, destDir string) error {
	info, err := os.Stat(h.src.URI)
	if err != nil {
		return fmt.Errorf("local source %q: %w", h.src.URI, err)
	}

	if err := os.RemoveAll(destDir); err != nil {
		return fmt.Errorf("local source: clearing %s: %w", destDir, err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("local source: creating %s: %w", destDir, err)
	}

	if !info.IsDir() {
		return copyFile(h.src.URI, filepath.Join(destDir, filepath.Base(h.src.URI)), info)
	}
	return copyTree(h.src.URI, destDir)
}

// CheckIfOutdated compares the source modification time against destDir's,
// treating a newer source tree as outdated relative to what was pulled.
func (h *LocalHandler) CheckIfOutdated(_ context.Context, destDir string) (bool, error) {
	srcInfo, err := os.Stat(h.src.URI)
	if err != nil {
		return false, fmt.Errorf("local source %q: %w", h.src.URI, err)
	}
	destInfo, err := os.Stat(destDir)
	if err != nil {
		return true, nil
	}
	return srcInfo.ModTime().After(destInfo.ModTime()), nil
}

// Update re-pulls the source in place.
func (h *LocalHandler) Update(ctx context.Context, destDir string) error {
	return h.Pull(ctx, destDir)
}

func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		return copyFile(path, target, info)
	})
}

func copyFile(src, dst string, info os.FileInfo) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode())
}
