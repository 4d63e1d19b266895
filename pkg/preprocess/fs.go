// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package preprocess

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem is the source of bytes keyed by path. The OS implementation
// is used in production; tests substitute an in-memory one so include
// graphs do not touch disk.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS reads files from the real file system.
type OSFS struct{}

var _ FileSystem = OSFS{}

func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// InMemoryFS serves files from a path-keyed map. Paths are compared after
// cleaning so that callers may register either relative or absolute keys.
type InMemoryFS struct {
	Files map[string]string
}

var _ FileSystem = InMemoryFS{}

func (m InMemoryFS) ReadFile(path string) ([]byte, error) {
	if data, found := m.Files[path]; found {
		return []byte(data), nil
	}
	if data, found := m.Files[filepath.Clean(path)]; found {
		return []byte(data), nil
	}
	for registered, data := range m.Files {
		abs, err := filepath.Abs(registered)
		if err == nil && abs == filepath.Clean(path) {
			return []byte(data), nil
		}
	}
	return nil, fmt.Errorf("Opening file '%s': %w", path, fs.ErrNotExist)
}
