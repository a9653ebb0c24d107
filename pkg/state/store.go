// SPDX-License-Identifier: AGPL-3.0-or-later
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"

	"partcraft/pkg/steps"
)

// Store persists one Record per (part, step) as a TOML file under a root
// directory, using the same write-to-temp-then-rename pattern
// internal/core/state/state.go's Manager uses for its release ledger, so
// a crash mid-write can never leave a half-written record behind.
type Store struct {
	mu      sync.Mutex
	rootDir string
}

// NewStore constructs a Store rooted at dir. The directory is created
// lazily, on first Save.
func NewStore(dir string) *Store {
	return &Store{rootDir: dir}
}

func (s *Store) partDir(part string) string {
	return filepath.Join(s.rootDir, part)
}

func (s *Store) recordPath(part string, step steps.Step) string {
	return filepath.Join(s.partDir(part), step.String()+".toml")
}

// Load reads the persisted record for a part's step. The second return
// value is false if no record has been written yet.
func (s *Store) Load(part string, step steps.Step) (*Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.recordPath(part, step)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("state: reading %s: %w", path, err)
	}

	var rec Record
	if _, err := toml.Decode(string(data), &rec); err != nil {
		return nil, false, fmt.Errorf("state: decoding %s: %w", path, err)
	}
	if rec.FormatVersion != FormatVersion {
		return nil, false, fmt.Errorf("state: %s: unsupported format version %d", path, rec.FormatVersion)
	}
	return &rec, true, nil
}

// Save atomically writes rec as the current record for part's step.
func (s *Store) Save(part string, step steps.Step, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.FormatVersion = FormatVersion
	rec.Part = part
	rec.Step = step.String()

	dir := s.partDir(part)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("state: creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("state: creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if err := toml.NewEncoder(tmp).Encode(rec); err != nil {
		tmp.Close()
		return fmt.Errorf("state: encoding record: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("state: syncing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("state: closing %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, s.recordPath(part, step)); err != nil {
		return fmt.Errorf("state: committing record for %s/%s: %w", part, step, err)
	}
	return nil
}

// Remove deletes the persisted record for a single (part, step) pair, if
// any. It is not an error for the record to already be absent.
func (s *Store) Remove(part string, step steps.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.recordPath(part, step))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("state: removing record for %s/%s: %w", part, step, err)
	}
	return nil
}

// RemoveFrom deletes the records for step and every step after it in the
// lifecycle, since invalidating one step always invalidates everything
// built on top of it.
func (s *Store) RemoveFrom(part string, step steps.Step) error {
	for _, st := range steps.SubsequentSteps(step) {
		if err := s.Remove(part, st); err != nil {
			return err
		}
	}
	return nil
}

// Steps returns every step this store has a persisted record for, for a
// given part, in lifecycle order.
func (s *Store) Steps(part string) ([]steps.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.partDir(part))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: listing %s: %w", s.partDir(part), err)
	}

	present := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		name := e.Name()
		if filepath.Ext(name) != ".toml" {
			continue
		}
		present[name[:len(name)-len(".toml")]] = struct{}{}
	}

	var out []steps.Step
	for _, st := range steps.All {
		if _, ok := present[st.String()]; ok {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Parts returns the names of every part this store holds any state for,
// sorted.
func (s *Store) Parts() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.rootDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: listing %s: %w", s.rootDir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
