// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package preprocess

import (
	"gopkg.in/yaml.v3"

	"carvel.dev/ypp/pkg/ui"
)

// Parser parses YAML bytes against a fixed variable environment. It is
// the low-level seam under the Preprocessor: the returned tree may still
// contain IncludeRef and SecretRef markers, which only a full Load
// resolves.
type Parser struct {
	env VarEnv
	ui  ui.UI
}

func NewParser(env VarEnv, u ui.UI) *Parser {
	return &Parser{env: env, ui: u}
}

// ParseBytes parses the first document in data and constructs its value
// tree: ordered mappings, sequences, scalars classified by the strict
// resolver, interpolated strings, and include/secret markers.
func (p *Parser) ParseBytes(data []byte) (interface{}, error) {
	var root yaml.Node

	err := yaml.Unmarshal(data, &root)
	if err != nil {
		return nil, err
	}

	if root.Kind == 0 {
		// empty document constructs like a null scalar
		return "", nil
	}

	return newConstructor(p.env, p.ui).construct(&root)
}
