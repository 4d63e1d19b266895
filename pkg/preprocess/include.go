// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package preprocess

import (
	"errors"
	"path/filepath"
	"sort"

	"carvel.dev/ypp/pkg/orderedmap"
)

// MaxIncludeDepth bounds the include chain. Stack overflow occurs at a
// few hundred frames depending on system limits, so fail well before.
const MaxIncludeDepth = 100

// includeStack is the set of canonical paths currently being loaded on
// this branch of the include graph. Each child gets its own copy;
// siblings never see each other.
type includeStack map[string]struct{}

func (s includeStack) with(path string) (includeStack, bool) {
	if _, found := s[path]; found {
		return nil, false
	}
	branch := make(includeStack, len(s)+1)
	for p := range s {
		branch[p] = struct{}{}
	}
	branch[path] = struct{}{}
	return branch, true
}

func (s includeStack) paths() []string {
	var result []string
	for p := range s {
		result = append(result, p)
	}
	sort.Strings(result)
	return result
}

// load runs the per-file pipeline: cycle and depth checks, a first parse
// pass to extract the file's own variables, a second pass with the
// combined environment, then include/secret resolution and package
// merging.
func (p *Preprocessor) load(path string, vars VarEnv, secrets *secretCache, stack includeStack) (interface{}, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	p.ui.Debugf("Loading file(%d): %s with given vars %v\n", len(stack), absPath, vars)

	branch, added := stack.with(absPath)
	if !added {
		return nil, CircularInclusionErr{Stack: stack.paths(), Path: absPath}
	}
	if len(branch) > MaxIncludeDepth {
		return nil, MaxDepthExceededErr{}
	}

	data, err := p.fs.ReadFile(absPath)
	if err != nil {
		return nil, FileReadErr{Path: absPath, Err: err}
	}

	// first pass: extract variables
	firstPass, err := NewParser(vars, p.ui).ParseBytes(data)
	if err != nil {
		return nil, err
	}

	rootMap, isMap := firstPass.(*orderedmap.Map)
	if !isMap {
		// not a mapping: variables and packages do not apply, but any
		// include/secret refs inside still resolve
		return p.resolveRefs(absPath, firstPass, vars, secrets, branch)
	}

	combinedVars := vars.Clone()
	extractVariables(rootMap, combinedVars, p.ui, absPath)
	addPredefinedVars(combinedVars, absPath)
	p.ui.Debugf("Combined vars: %v\n", combinedVars)

	// second pass: variable substitution against the combined environment
	secondPass, err := NewParser(combinedVars, p.ui).ParseBytes(data)
	if err != nil {
		return nil, err
	}

	dataMap, isMap := secondPass.(*orderedmap.Map)
	if !isMap {
		return p.resolveRefs(absPath, secondPass, combinedVars, secrets, branch)
	}

	dataMap.Delete(variablesKey) // extracted in the first pass

	resolved, err := p.resolveRefs(absPath, dataMap, combinedVars, secrets, branch)
	if err != nil {
		return nil, err
	}
	dataMap = resolved.(*orderedmap.Map)

	packages, _ := dataMap.Get(packagesKey)
	dataMap.Delete(packagesKey)
	return p.mergePackages(dataMap, packages), nil
}

// resolveRefs walks the tree replacing IncludeRef nodes with recursively
// loaded subtrees and SecretRef nodes with values from the secret store.
// Mapping insertion order is preserved; sequences are rewritten in place.
func (p *Preprocessor) resolveRefs(file string, data interface{}, vars VarEnv, secrets *secretCache, stack includeStack) (interface{}, error) {
	switch typedData := data.(type) {
	case IncludeRef:
		return p.loadIncludeFile(file, typedData, vars, secrets, stack)

	case SecretRef:
		return secrets.resolve(p, file, typedData.Name)

	case *orderedmap.Map:
		items := typedData.Items()
		for i, item := range items {
			resolved, err := p.resolveRefs(file, item.Value, vars, secrets, stack)
			if err != nil {
				return nil, err
			}
			items[i].Value = resolved
		}
		return typedData, nil

	case []interface{}:
		for i, item := range typedData {
			resolved, err := p.resolveRefs(file, item, vars, secrets, stack)
			if err != nil {
				return nil, err
			}
			typedData[i] = resolved
		}
		return typedData, nil

	default:
		return data, nil
	}
}

// loadIncludeFile resolves the reference against the including file's
// directory and loads it with the include's vars layered on top of the
// current environment. A file that cannot be read degrades to an empty
// mapping; every other failure aborts the load.
func (p *Preprocessor) loadIncludeFile(file string, ref IncludeRef, vars VarEnv, secrets *secretCache, stack includeStack) (interface{}, error) {
	includePath := ref.File
	if !filepath.IsAbs(includePath) {
		includePath = filepath.Join(filepath.Dir(file), includePath)
	}

	includeVars := vars.Overlay(ref.Vars)

	result, err := p.load(includePath, includeVars, secrets, stack)
	if err != nil {
		var readErr FileReadErr
		if errors.As(err, &readErr) {
			p.ui.Warnf("Error loading include file %s\n", err)
			return orderedmap.NewMap(), nil
		}
		return nil, err
	}
	return result, nil
}
