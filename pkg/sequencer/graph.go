// SPDX-License-Identifier: AGPL-3.0-or-later
package sequencer

import (
	"sort"

	"partcraft/pkg/parts"
)

// topologicalOrder computes a stable topological sort of allParts by
// dependency edges (a part's `after` list must run before it), breaking
// ties by part name so the result is identical across runs regardless of
// map iteration order — determinism is a hard requirement of planning.
func topologicalOrder(allParts map[string]*parts.Part) ([]string, error) {
	indegree := make(map[string]int, len(allParts))
	dependents := make(map[string][]string, len(allParts))

	for name, p := range allParts {
		if _, ok := indegree[name]; !ok {
			indegree[name] = 0
		}
		for _, dep := range p.After {
			indegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for name, deg := range indegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(allParts))
	for len(ready) > 0 {
		sort.Strings(ready)
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		newlyReady := dependents[next]
		sort.Strings(newlyReady)
		for _, dep := range newlyReady {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) != len(allParts) {
		var stuck []string
		for name, deg := range indegree {
			if deg > 0 {
				stuck = append(stuck, name)
			}
		}
		sort.Strings(stuck)
		return nil, &CircularDependencyError{Parts: stuck}
	}

	return order, nil
}

// closure expands the requested set of part names to include every
// transitive dependency, per allParts' `after` edges.
func closure(allParts map[string]*parts.Part, requested []string) (map[string]struct{}, error) {
	set := make(map[string]struct{}, len(allParts))
	var visit func(name string) error
	visit = func(name string) error {
		if _, done := set[name]; done {
			return nil
		}
		p, ok := allParts[name]
		if !ok {
			return &UnknownPartError{Name: name}
		}
		set[name] = struct{}{}
		for _, dep := range p.After {
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}

	for _, name := range requested {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return set, nil
}
