// SPDX-License-Identifier: AGPL-3.0-or-later
package executor

import (
	"partcraft/pkg/parts"
	"partcraft/pkg/sources"
)

// toSourceSpec adapts a part's declared source into the shape
// pkg/sources handlers consume. The conversion lives here, rather than
// in pkg/sources itself, so that package never has to import pkg/parts.
func toSourceSpec(src parts.Source) sources.Source {
	return sources.Source{
		URI:        src.URI,
		Type:       src.Type,
		Tag:        src.Tag,
		Commit:     src.Commit,
		Branch:     src.Branch,
		Checksum:   src.Checksum,
		Depth:      src.Depth,
		Submodules: src.Submodules,
		Subdir:     src.Subdir,
		Keep:       src.Keep,
	}
}
