// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package preprocess

import (
	"carvel.dev/ypp/pkg/orderedmap"
)

// mergePackages folds each package sub-mapping into the main document.
// Keys present in both are combined by mergeElements: mappings merge,
// sequences concatenate, and otherwise the main map value is kept.
func (p *Preprocessor) mergePackages(mainData *orderedmap.Map, packages interface{}) *orderedmap.Map {
	if packages == nil {
		return mainData
	}

	packagesMap, ok := packages.(*orderedmap.Map)
	if !ok {
		p.ui.Warnf("'%s' is not a map: %v\n", packagesKey, packages)
		return mainData
	}

	packagesMap.Iterate(func(packageName string, pkg interface{}) {
		if pkgMap, ok := pkg.(*orderedmap.Map); ok {
			mergeElements(mainData, pkgMap)
		} else {
			p.ui.Warnf("Package '%s' is not a map: %v\n", packageName, pkg)
		}
	})
	return mainData
}

// mergeElements deep-merges packageData into mainData: mappings merge
// recursively, sequences concatenate main-before-package, and on any
// other combination the main value is kept.
func mergeElements(mainData, packageData *orderedmap.Map) *orderedmap.Map {
	packageData.Iterate(func(key string, value interface{}) {
		mainValue, found := mainData.Get(key)
		if !found {
			mainData.Set(key, value)
			return
		}

		if mainMap, ok := mainValue.(*orderedmap.Map); ok {
			if pkgMap, ok := value.(*orderedmap.Map); ok {
				mergeElements(mainMap, pkgMap)
			}
			return
		}

		if mainList, ok := mainValue.([]interface{}); ok {
			if pkgList, ok := value.([]interface{}); ok {
				combined := make([]interface{}, 0, len(mainList)+len(pkgList))
				combined = append(combined, mainList...)
				combined = append(combined, pkgList...)
				mainData.Set(key, combined)
			}
			return
		}

		// scalar or mismatched types: keep the main value
	})
	return mainData
}
