// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package preprocess loads YAML documents and resolves them before they are
handed to downstream consumers.

The following enhancements are made over a plain YAML 1.1 load:

  - Only "true" and "false" (case insensitive) are booleans; boolean-like
    words such as "yes" and "off" stay strings.
  - Variable definitions ('variables' key) and ${...} substitution with
    defaults and mandatory forms.
  - !include tag for including other YAML files, with per-include
    variable overrides.
  - !secret tag resolved against a sibling secrets.yaml file.
  - Combining configuration fragments using the 'packages' key.
*/
package preprocess
