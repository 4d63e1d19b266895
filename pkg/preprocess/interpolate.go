// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package preprocess

import (
	"fmt"
	"regexp"

	"carvel.dev/ypp/pkg/ui"
)

const maxVarNestingDepth = 10

// The valid syntax is a subset of bash variable substitution syntax:
//
//	${var}          if var is unset or empty, return empty string
//	${var-default}  if var is unset, return default
//	${var:-default} if var is unset or empty, return default
//	${var?message}  if var is unset, warn with message
//	${var:?message} if var is unset or empty, warn with message
//
// The default/message runs to the last closing brace, so nested
// references inside it are picked up by the rescan loop rather than by
// the pattern itself.
var variablePattern = regexp.MustCompile(`\$\{\s*(\w+)(?:(:?[-?])(.*))?\s*\}`)

// interpolate substitutes ${...} references in val against env,
// rescanning until no references remain. Substitutions that introduce new
// references are bounded by maxVarNestingDepth rescan passes.
func interpolate(val string, env VarEnv, u ui.UI) (string, error) {
	interpolated := val
	nestedLevel := 0

	for variablePattern.MatchString(interpolated) {
		if nestedLevel > maxVarNestingDepth {
			return "", NestingTooDeepErr{val}
		}
		nestedLevel++

		interpolated = variablePattern.ReplaceAllStringFunc(interpolated, func(match string) string {
			groups := variablePattern.FindStringSubmatch(match)
			name, separator, defaultVal := groups[1], groups[2], groups[3]

			resolved, err := resolveVariable(env, name, separator, defaultVal)
			if err != nil {
				u.Warnf("%s\n", err)
				return ""
			}
			u.Debugf("Interpolating variable %s => %s\n", name, resolved)
			return resolved
		})
	}

	return interpolated, nil
}

// resolveVariable implements the resolution table for unset and empty
// variables. The returned error marks a mandatory-variable miss; the
// caller degrades it to a warning and an empty substitution.
func resolveVariable(env VarEnv, name, separator, defaultVal string) (string, error) {
	value, found := env[name]
	if found && value != "" {
		return value, nil
	}

	// variable is either unset or empty
	switch separator {
	case "-":
		if !found {
			return defaultVal, nil
		}
	case ":-":
		return defaultVal, nil
	case "?":
		if !found {
			return "", fmt.Errorf("Missing mandatory variable %s: %s", name, defaultVal)
		}
	case ":?":
		if !found {
			return "", fmt.Errorf("Missing mandatory variable %s: %s", name, defaultVal)
		}
		return "", fmt.Errorf("Empty mandatory variable %s: %s", name, defaultVal)
	}
	return "", nil
}
