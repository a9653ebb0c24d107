// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

package parts

import "fmt"

func (p *Part) applySource(raw map[string]any) error {
	uri, ok := raw["source"].(string)
	if !ok || uri == "" {
		return nil // sources are optional (e.g. "nil"-plugin grouping parts)
	}

	src := Source{URI: uri}
	src.Type, _ = raw["source-type"].(string)
	src.Tag, _ = raw["source-tag"].(string)
	src.Commit, _ = raw["source-commit"].(string)
	src.Branch, _ = raw["source-branch"].(string)
	src.Checksum, _ = raw["source-checksum"].(string)
	src.Subdir, _ = raw["source-subdir"].(string)
	src.Keep, _ = raw["source-keep"].(bool)

	if depth, ok := raw["source-depth"]; ok {
		n, err := toInt(depth)
		if err != nil {
			return fmt.Errorf("source-depth: %w", err)
		}
		src.Depth = n
	}

	if subs, ok := raw["source-submodules"]; ok {
		list, err := toStrings(subs)
		if err != nil {
			return fmt.Errorf("source-submodules: %w", err)
		}
		src.Submodules = list
	}

	if src.Type == "deb" {
		if src.Tag != "" {
			return &InvalidSourceOptionError{SourceType: "deb", Option: "source-tag"}
		}
		if src.Commit != "" {
			return &InvalidSourceOptionError{SourceType: "deb", Option: "source-commit"}
		}
		if src.Branch != "" {
			return &InvalidSourceOptionError{SourceType: "deb", Option: "source-branch"}
		}
		if src.Depth != 0 {
			return &InvalidSourceOptionError{SourceType: "deb", Option: "source-depth"}
		}
	}

	p.Sources = append(p.Sources, src)
	return nil
}

func (p *Part) applyPackaging(raw map[string]any) {
	p.BuildPackages, _ = toStrings(raw["build-packages"])
	p.StagePackages, _ = toStrings(raw["stage-packages"])
	p.BuildSnaps, _ = toStrings(raw["build-snaps"])
	p.Organize, _ = toStrings(raw["organize"])
	p.Stage, _ = toStrings(raw["stage"])
	p.Prime, _ = toStrings(raw["prime"])

	p.OverridePull, _ = raw["override-pull"].(string)
	p.OverrideBuild, _ = raw["override-build"].(string)
	p.OverrideStage, _ = raw["override-stage"].(string)
	p.OverridePrime, _ = raw["override-prime"].(string)

	if afterRaw, ok := raw["after"]; ok {
		if after, err := toStrings(afterRaw); err == nil {
			p.After = after
		}
	}
}

func (p *Part) applyOverlay(raw map[string]any) {
	script, hasScript := raw["overlay-script"].(string)
	packages, _ := toStrings(raw["overlay-packages"])
	files, _ := toStrings(raw["overlay-files"])

	p.HasOverlay = hasScript || len(packages) > 0 || len(files) > 0
	p.OverlayScript = script
	p.OverlayPackages = packages
	p.OverlaySelector = files
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

func toStrings(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	switch vv := v.(type) {
	case []string:
		return vv, nil
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a list of strings, got %T element", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", v)
	}
}
