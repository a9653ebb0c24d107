// SPDX-License-Identifier: AGPL-3.0-or-later
package executor

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// manifest tracks which part last wrote each staged/primed relative path,
// and that path's content digest, so a later part writing the same path
// with different content is caught as a conflict rather than silently
// overwriting.
type manifest struct {
	ownerOf  map[string]string
	digestOf map[string]string
}

func newManifest() *manifest {
	return &manifest{ownerOf: map[string]string{}, digestOf: map[string]string{}}
}

func (m *manifest) claim(relPath, owner, digest string) error {
	if existingOwner, ok := m.ownerOf[relPath]; ok && existingOwner != owner {
		if m.digestOf[relPath] != digest {
			return fmt.Errorf("path %q staged by both %q and %q with differing content", relPath, existingOwner, owner)
		}
	}
	m.ownerOf[relPath] = owner
	m.digestOf[relPath] = digest
	return nil
}

// copySelected copies every regular file under srcRoot whose
// root-relative path selectorMatches selects (all files, if selectors
// is empty) into dstRoot, recording each copy in manifest under owner.
// It returns the sorted list of relative paths copied.
func copySelected(srcRoot, dstRoot string, selectors []string, manifest *manifest, owner string) ([]string, error) {
	var copied []string

	err := filepath.Walk(srcRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !selectorMatches(selectors, rel) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(data)
		digest := hex.EncodeToString(sum[:])

		if err := manifest.claim(rel, owner, digest); err != nil {
			return err
		}

		dst := filepath.Join(dstRoot, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, info.Mode()); err != nil {
			return err
		}

		copied = append(copied, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(copied)
	return copied, nil
}

// selectorMatches reports whether relPath is selected. A selector with a
// leading "-" excludes every path its remaining pattern matches; the other
// selectors include. With no include selectors, every path not excluded is
// selected.
func selectorMatches(selectors []string, relPath string) bool {
	if len(selectors) == 0 {
		return true
	}
	included, hasInclude := false, false
	for _, sel := range selectors {
		if pattern, isExclude := strings.CutPrefix(sel, "-"); isExclude {
			if ok, _ := doublestar.Match(pattern, relPath); ok {
				return false
			}
			continue
		}
		hasInclude = true
		if ok, _ := doublestar.Match(sel, relPath); ok {
			included = true
		}
	}
	return included || !hasInclude
}

// verifyChecksum checks that the file at path hashes to the algorithm/hex
// digest encoded in checksum (the "sha256/deadbeef..." form used by
// source-checksum). An empty checksum always passes.
func verifyChecksum(path, checksum string) error {
	if checksum == "" {
		return nil
	}
	algo, want, ok := strings.Cut(checksum, "/")
	if !ok {
		return fmt.Errorf("malformed checksum %q, expected algo/hexdigest", checksum)
	}
	if algo != "sha256" {
		return fmt.Errorf("unsupported checksum algorithm %q", algo)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}
	got := hex.EncodeToString(h.Sum(nil))
	if !bytes.Equal([]byte(got), []byte(strings.ToLower(want))) {
		return fmt.Errorf("checksum mismatch: want %s, got %s", want, got)
	}
	return nil
}
