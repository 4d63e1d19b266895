// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package preprocess

import (
	"carvel.dev/ypp/pkg/orderedmap"
	"carvel.dev/ypp/pkg/ui"
)

// Reserved top-level keys. Both are interpreted by the preprocessor and
// stripped from the returned document.
const (
	variablesKey = "variables"
	packagesKey  = "packages"
)

// Preprocessor loads YAML documents and resolves variables, includes,
// secrets and packages. A single Load call holds no process-wide state;
// independent Preprocessors may load concurrently.
type Preprocessor struct {
	fs FileSystem
	ui ui.UI
}

func NewPreprocessor(fs FileSystem, u ui.UI) *Preprocessor {
	if fs == nil {
		fs = OSFS{}
	}
	return &Preprocessor{fs: fs, ui: u}
}

// Load reads the YAML document at path and returns the fully resolved
// tree: nested *orderedmap.Map values, []interface{} sequences and
// scalars. No IncludeRef or SecretRef marker and no 'variables' or
// 'packages' key survives in the result.
func (p *Preprocessor) Load(path string) (interface{}, error) {
	return p.load(path, VarEnv{}, newSecretCache(), includeStack{})
}

// Load resolves path with a default OS-backed Preprocessor.
func Load(path string, u ui.UI) (interface{}, error) {
	return NewPreprocessor(OSFS{}, u).Load(path)
}

// GetNested descends through a chain of string keys, returning false if
// any step is missing or traverses a non-mapping.
func GetNested(data interface{}, keys ...string) (interface{}, bool) {
	value := data
	for _, key := range keys {
		valueMap, isMap := value.(*orderedmap.Map)
		if !isMap {
			return nil, false
		}
		nested, found := valueMap.Get(key)
		if !found {
			return nil, false
		}
		value = nested
	}
	return value, true
}
