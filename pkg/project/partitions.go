// SPDX-License-Identifier: AGPL-3.0-or-later
package project

import (
	"fmt"
	"regexp"
)

// DefaultPartition is the implicit partition every project has, even when
// no partitions are declared.
const DefaultPartition = "default"

var partitionNamePattern = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)
var namespacedPartitionPattern = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?/[a-z]([a-z0-9-]*[a-z0-9])?$`)

// ValidatePartitionNames checks that a project's declared partition list is
// well-formed: each entry is either a bare lowercase-hyphen name or a
// "namespace/name" pair, "default", if declared, is the first entry, and
// no name repeats. A list without "default" is accepted as is.
func ValidatePartitionNames(partitions []string) error {
	if len(partitions) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(partitions))
	for i, p := range partitions {
		if p == DefaultPartition && i != 0 {
			return fmt.Errorf("partition %q must be first if declared explicitly", DefaultPartition)
		}
		if !partitionNamePattern.MatchString(p) && !namespacedPartitionPattern.MatchString(p) {
			return fmt.Errorf("invalid partition name %q", p)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("duplicate partition name %q", p)
		}
		seen[p] = struct{}{}
	}
	return nil
}
