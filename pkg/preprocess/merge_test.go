// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package preprocess_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"carvel.dev/ypp/pkg/orderedmap"
	"carvel.dev/ypp/pkg/preprocess"
)

func TestPackageMerge(t *testing.T) {
	mainDoc := `
things:
  t1:
    label: A
  t4:
    label: main
    config:
      mainprop: m
      commonprop: overridden
list:
  test1:
  - main1
packages:
  p:
    things:
      t4:
        label: pkg
        config:
          pkgprop: p
          commonprop: pkg
      t2:
        label: B
    list:
      test1:
      - package1
`
	result, _ := loadFiles(t, map[string]string{"/data/main.yaml": mainDoc}, "/data/main.yaml")

	label, found := preprocess.GetNested(result, "things", "t1", "label")
	require.True(t, found)
	require.Equal(t, "A", label)

	label, found = preprocess.GetNested(result, "things", "t2", "label")
	require.True(t, found)
	require.Equal(t, "B", label)

	label, found = preprocess.GetNested(result, "things", "t4", "label")
	require.True(t, found)
	require.Equal(t, "main", label)

	config, found := preprocess.GetNested(result, "things", "t4", "config")
	require.True(t, found)
	require.Equal(t, orderedmap.NewMapWithItems([]orderedmap.MapItem{
		{Key: "mainprop", Value: "m"},
		{Key: "commonprop", Value: "overridden"},
		{Key: "pkgprop", Value: "p"},
	}), config)

	list, found := preprocess.GetNested(result, "list", "test1")
	require.True(t, found)
	require.Equal(t, []interface{}{"main1", "package1"}, list)

	_, found = preprocess.GetNested(result, "packages")
	require.False(t, found)
}

func TestPackageOnlyKeysAdded(t *testing.T) {
	result, _ := loadFiles(t, map[string]string{
		"/data/main.yaml": "a: 1\npackages:\n  p:\n    b: 2\n",
	}, "/data/main.yaml")

	require.Equal(t, orderedmap.NewMapWithItems([]orderedmap.MapItem{
		{Key: "a", Value: 1},
		{Key: "b", Value: 2},
	}), result)
}

func TestNonMapPackageEntrySkipped(t *testing.T) {
	result, warnings := loadFiles(t, map[string]string{
		"/data/main.yaml": "a: 1\npackages:\n  bad: just-a-string\n  good:\n    b: 2\n",
	}, "/data/main.yaml")

	require.Equal(t, orderedmap.NewMapWithItems([]orderedmap.MapItem{
		{Key: "a", Value: 1},
		{Key: "b", Value: 2},
	}), result)
	require.Contains(t, warnings, "Package 'bad' is not a map")
}

func TestPackagesMayComeFromIncludes(t *testing.T) {
	result, _ := loadFiles(t, map[string]string{
		"/data/main.yaml": "things:\n  t1: main\npackages:\n  p: !include pkg.yaml\n",
		"/data/pkg.yaml":  "things:\n  t2: added\n",
	}, "/data/main.yaml")

	require.Equal(t, orderedmap.NewMapWithItems([]orderedmap.MapItem{
		{Key: "things", Value: orderedmap.NewMapWithItems([]orderedmap.MapItem{
			{Key: "t1", Value: "main"},
			{Key: "t2", Value: "added"},
		})},
	}), result)
}

func TestScalarConflictKeepsMain(t *testing.T) {
	result, _ := loadFiles(t, map[string]string{
		"/data/main.yaml": "a: main\nb:\n  k: v\npackages:\n  p:\n    a: pkg\n    b: scalar\n",
	}, "/data/main.yaml")

	require.Equal(t, orderedmap.NewMapWithItems([]orderedmap.MapItem{
		{Key: "a", Value: "main"},
		{Key: "b", Value: orderedmap.NewMapWithItems([]orderedmap.MapItem{{Key: "k", Value: "v"}})},
	}), result)
}
