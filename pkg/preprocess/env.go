// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package preprocess

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"carvel.dev/ypp/pkg/orderedmap"
	"carvel.dev/ypp/pkg/ui"
)

// VarEnv is the variable environment active while loading a file. It is
// treated as immutable by convention: callers clone before layering
// overrides so that sibling includes never see each other's variables.
type VarEnv map[string]string

func (e VarEnv) Clone() VarEnv {
	result := make(VarEnv, len(e))
	for k, v := range e {
		result[k] = v
	}
	return result
}

// Overlay returns a copy of e with vars layered on top (vars win).
func (e VarEnv) Overlay(vars map[string]string) VarEnv {
	result := e.Clone()
	for k, v := range vars {
		result[k] = v
	}
	return result
}

// extractVariables merges the top-level 'variables' section of dataMap
// into env without overwriting entries already present (callers' vars win
// over the file's own). Mapping and sequence values are not valid
// variable values and are skipped with a warning.
func extractVariables(dataMap *orderedmap.Map, env VarEnv, u ui.UI, file string) {
	section, found := dataMap.Get(variablesKey)
	if !found {
		return
	}

	sectionMap, ok := section.(*orderedmap.Map)
	if !ok {
		u.Warnf("%s: 'variables' is not a map\n", file)
		return
	}

	sectionMap.Iterate(func(key string, value interface{}) {
		switch value.(type) {
		case *orderedmap.Map:
			u.Warnf("Value type for variable '%s' cannot be a map\n", key)
		case []interface{}:
			u.Warnf("Value type for variable '%s' cannot be a list\n", key)
		default:
			if _, present := env[key]; !present {
				env[key] = scalarString(value)
			}
		}
	})
}

// addPredefinedVars sets the reserved __*__ variables for the given file.
// These always overwrite so that user definitions cannot shadow them.
func addPredefinedVars(env VarEnv, file string) {
	absPath, err := filepath.Abs(file)
	if err != nil {
		absPath = filepath.Clean(file)
	}

	env["__FILE__"] = absPath

	fullFileName := filepath.Base(absPath)
	fileName := fullFileName
	fileExt := ""
	if dotIndex := strings.LastIndex(fullFileName, "."); dotIndex > 0 {
		fileName = fullFileName[:dotIndex]
		fileExt = fullFileName[dotIndex+1:]
	}
	env["__FILE_NAME__"] = fileName
	env["__FILE_EXT__"] = fileExt
	env["__PATH__"] = filepath.Dir(absPath)
}

// scalarString is the natural string form of a constructed scalar, used
// when variable or include-vars values are not already strings.
func scalarString(val interface{}) string {
	switch typedVal := val.(type) {
	case string:
		return typedVal
	case time.Time:
		return typedVal.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", typedVal)
	}
}
