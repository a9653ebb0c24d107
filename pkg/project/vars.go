// SPDX-License-Identifier: AGPL-3.0-or-later
package project

import (
	"fmt"
	"sort"
	"sync"
)

// Vars holds project-wide variables that parts can read via environment
// expansion. Only the part named as the writer part (the project's
// project-vars-part-name setting) can obtain a mutation handle through
// Writer; Writer does not check which step is running.
type Vars struct {
	mu         sync.RWMutex
	values     map[string]string
	writerPart string
}

// NewVars constructs a Vars container seeded with initial values. writerPart
// may be empty, meaning no part is permitted to mutate the values.
func NewVars(writerPart string, initial map[string]string) *Vars {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &Vars{values: values, writerPart: writerPart}
}

// Get returns the current value of a variable.
func (v *Vars) Get(key string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.values[key]
	return val, ok
}

// Snapshot returns a deterministic, independent copy of all variables.
func (v *Vars) Snapshot() map[string]string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(map[string]string, len(v.values))
	for k, val := range v.values {
		out[k] = val
	}
	return out
}

// Keys returns the variable names in sorted order.
func (v *Vars) Keys() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	keys := make([]string, 0, len(v.values))
	for k := range v.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsWriter reports whether partName is the part designated to mutate
// these variables.
func (v *Vars) IsWriter(partName string) bool {
	return v.writerPart != "" && partName == v.writerPart
}

// Writer issues a mutation handle to partName, or an error if that part is
// not the designated writer. The Executor does not call it: for the
// writer part, Build only records a project-vars-writer marker in its
// state.
func (v *Vars) Writer(partName string) (*VarsWriter, error) {
	if v.writerPart == "" || partName != v.writerPart {
		return nil, fmt.Errorf("part %q is not permitted to set project variables", partName)
	}
	return &VarsWriter{vars: v}, nil
}

// VarsWriter is a scoped mutation handle over a Vars container.
type VarsWriter struct {
	vars *Vars
}

// Set assigns a variable's value.
func (w *VarsWriter) Set(key, value string) {
	w.vars.mu.Lock()
	defer w.vars.mu.Unlock()
	w.vars.values[key] = value
}
