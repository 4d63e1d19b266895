// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/k14s/difflib"

	"carvel.dev/ypp/pkg/orderedmap"
)

func TestResolvePrintFormats(t *testing.T) {
	result := orderedmap.NewMapWithItems([]orderedmap.MapItem{
		{Key: "name", Value: "widget"},
		{Key: "count", Value: 3},
		{Key: "enabled", Value: true},
		{Key: "tags", Value: []interface{}{"a", "b"}},
	})

	cases := []struct {
		output   string
		expected string
	}{
		{
			output: "yaml",
			expected: `name: widget
count: 3
enabled: true
tags:
    - a
    - b
`,
		},
		{
			output: "json",
			expected: `{
  "count": 3,
  "enabled": true,
  "name": "widget",
  "tags": [
    "a",
    "b"
  ]
}
`,
		},
	}

	for _, c := range cases {
		var out bytes.Buffer
		o := &ResolveOptions{Output: c.output}

		err := o.print(&out, result)
		if err != nil {
			t.Fatalf("Expected %s printing to succeed: %s", c.output, err)
		}

		expectEquals(t, out.String(), c.expected)
	}
}

func TestResolvePrintTOMLRequiresMapping(t *testing.T) {
	o := &ResolveOptions{Output: "toml"}

	var out bytes.Buffer
	err := o.print(&out, []interface{}{"a"})
	if err == nil {
		t.Fatalf("Expected TOML printing of a sequence to fail")
	}

	err = o.print(&out, orderedmap.NewMapWithItems([]orderedmap.MapItem{{Key: "k", Value: "v"}}))
	if err != nil {
		t.Fatalf("Expected TOML printing of a mapping to succeed: %s", err)
	}
	if !strings.Contains(out.String(), `k = "v"`) {
		t.Fatalf("Unexpected TOML output: %s", out.String())
	}
}

func TestResolveUnknownOutputFormat(t *testing.T) {
	o := &ResolveOptions{Output: "xml"}

	err := o.print(&bytes.Buffer{}, orderedmap.NewMap())
	if err == nil {
		t.Fatalf("Expected unknown format to fail")
	}
}

func TestRequiredVersionConstraint(t *testing.T) {
	o := &ResolveOptions{RequiredVersion: ">=0.1.0"}
	if err := o.checkRequiredVersion(); err != nil {
		t.Fatalf("Expected constraint to be satisfied: %s", err)
	}

	o = &ResolveOptions{RequiredVersion: ">=99.0.0"}
	if err := o.checkRequiredVersion(); err == nil {
		t.Fatalf("Expected constraint to fail")
	}

	o = &ResolveOptions{RequiredVersion: "not-a-version"}
	if err := o.checkRequiredVersion(); err == nil {
		t.Fatalf("Expected invalid constraint to fail")
	}
}

func expectEquals(t *testing.T, resultStr, expectedStr string) {
	t.Helper()

	if resultStr != expectedStr {
		diff := difflib.PPDiff(strings.Split(expectedStr, "\n"), strings.Split(resultStr, "\n"))
		t.Fatalf("Not equal; diff expected...actual:\n%v", diff)
	}
}
