// SPDX-License-Identifier: AGPL-3.0-or-later
package sequencer

import "fmt"

// CircularDependencyError is returned when the parts graph contains a
// dependency cycle and no topological order exists.
type CircularDependencyError struct {
	Parts []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected among parts: %v", e.Parts)
}

// UnknownPartError is returned when Plan is asked to sequence a part name
// that isn't in the resolved part set.
type UnknownPartError struct {
	Name string
}

func (e *UnknownPartError) Error() string {
	return fmt.Sprintf("unknown part %q", e.Name)
}
