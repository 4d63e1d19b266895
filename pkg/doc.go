// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package pkg is the collection of packages that make up the implementation of ypp.

From top-down, ypp code is layered in this way:

# Entry Point

ypp is built into a single command-line tool:

	./cmd/ypp

# Commands

The commands live in pkg/cmd. The most commonly used is "resolve", which runs
a file through the preprocessor and prints the result.

# Preprocessing

The heart of ypp is pkg/preprocess: parsing YAML with a strict-boolean scalar
resolver, interpolating ${...} variable references, expanding !include
references across the include graph, resolving !secret references against
sibling secrets files, and merging 'packages' fragments into the main
document.

ypp delegates YAML parsing to the de facto standard YAML library
(https://github.com/go-yaml/yaml/tree/v3) and constructs its own value tree
from the parsed nodes so that scalar interpretation and custom tags stay under
its control.

# Utilities

The remainder are domain-agnostic utilities:

	pkg/orderedmap   // insertion-ordered mappings and encoder conversions
	pkg/ui           // user-facing output (warnings, debug traces)
	pkg/version      // build version
*/
package pkg
