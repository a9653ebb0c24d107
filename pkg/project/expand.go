// SPDX-License-Identifier: AGPL-3.0-or-later
package project

import (
	"fmt"
	"regexp"
)

var expansionToken = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_-]*)\}`)

// BuiltinVariables returns the ${...}-expandable names every part spec may
// reference regardless of declared project variables: CRAFT_PROJECT_NAME,
// CRAFT_ARCH_BUILD_FOR, and CRAFT_PARALLEL_BUILD_COUNT.
func (i *Info) BuiltinVariables() map[string]string {
	return map[string]string{
		"CRAFT_PROJECT_NAME":          i.projectName,
		"CRAFT_ARCH_BUILD_FOR":        i.arch,
		"CRAFT_PARALLEL_BUILD_COUNT":  fmt.Sprintf("%d", i.parallelBuildCount),
	}
}

// ExpandEnvironment walks a decoded part-spec document (the nested
// map[string]any/[]any/string tree produced by a YAML unmarshal) and
// substitutes every ${name} token with a known variable's value. It makes a
// single left-to-right pass per string; a token with no match is left
// untouched so authors can tell a typo from a legitimately missing value.
func (i *Info) ExpandEnvironment(raw any) (any, error) {
	vars := i.Vars().Snapshot()
	for k, v := range i.BuiltinVariables() {
		if _, exists := vars[k]; !exists {
			vars[k] = v
		}
	}
	return expandValue(raw, vars)
}

func expandValue(raw any, vars map[string]string) (any, error) {
	switch v := raw.(type) {
	case string:
		return expandString(v, vars)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			expanded, err := expandValue(val, vars)
			if err != nil {
				return nil, err
			}
			out[k] = expanded
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for idx, val := range v {
			expanded, err := expandValue(val, vars)
			if err != nil {
				return nil, err
			}
			out[idx] = expanded
		}
		return out, nil
	default:
		return raw, nil
	}
}

func expandString(s string, vars map[string]string) (string, error) {
	result := expansionToken.ReplaceAllStringFunc(s, func(match string) string {
		name := expansionToken.FindStringSubmatch(match)[1]
		if val, ok := vars[name]; ok {
			return val
		}
		return match
	})
	return result, nil
}
