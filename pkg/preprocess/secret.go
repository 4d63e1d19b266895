// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package preprocess

import (
	"errors"
	"io/fs"
	"path/filepath"

	"carvel.dev/ypp/pkg/orderedmap"
)

// secretsFileName is looked up next to the file whose !secret tag is
// being resolved.
const secretsFileName = "secrets.yaml"

// secretCache holds the secrets of every secrets file touched during a
// single load, keyed by canonical path, so each file is read at most
// once. It is created at the root call and threaded through the
// recursion; concurrent loads never share one.
type secretCache struct {
	files map[string]map[string]string
}

func newSecretCache() *secretCache {
	return &secretCache{files: map[string]map[string]string{}}
}

// resolve returns the named secret from the secrets file sibling to
// currentFile. A missing secret degrades to an empty string with a
// warning.
func (c *secretCache) resolve(p *Preprocessor, currentFile, name string) (string, error) {
	secretsPath := filepath.Join(filepath.Dir(currentFile), secretsFileName)

	secrets, found := c.files[secretsPath]
	if !found {
		// register before loading: a !secret inside the secrets file
		// itself must not recurse back into this load
		c.files[secretsPath] = map[string]string{}

		loaded, err := c.loadSecretsFile(p, secretsPath)
		if err != nil {
			return "", err
		}
		c.files[secretsPath] = loaded
		secrets = loaded
	}

	value, found := secrets[name]
	if !found {
		p.ui.Warnf("Secret '%s' not found\n", name)
		return "", nil
	}
	return value, nil
}

// loadSecretsFile runs the secrets file through the full preprocessor
// (so secrets may themselves use variables and !include) with an empty
// variable environment and a fresh include stack, then retains only the
// top-level string values.
func (c *secretCache) loadSecretsFile(p *Preprocessor, secretsPath string) (map[string]string, error) {
	result := map[string]string{}

	loaded, err := p.load(secretsPath, VarEnv{}, c, includeStack{})
	if err != nil {
		var readErr FileReadErr
		if errors.As(err, &readErr) && errors.Is(readErr.Err, fs.ErrNotExist) {
			return result, nil
		}
		return nil, err
	}

	loadedMap, ok := loaded.(*orderedmap.Map)
	if !ok {
		p.ui.Warnf("%s: secrets file is not a map\n", secretsPath)
		return result, nil
	}

	loadedMap.Iterate(func(key string, value interface{}) {
		if strValue, isStr := value.(string); isStr {
			result[key] = strValue
		} else {
			p.ui.Warnf("Ignoring non-string secret '%s'\n", key)
		}
	})
	return result, nil
}
