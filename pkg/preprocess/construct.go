// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package preprocess

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"carvel.dev/ypp/pkg/orderedmap"
	"carvel.dev/ypp/pkg/ui"
)

// IncludeRef marks a node constructed from an !include tag. It is
// transient: the include engine replaces every ref with the loaded
// subtree before Load returns.
type IncludeRef struct {
	File string
	Vars map[string]string
}

// SecretRef marks a node constructed from a !secret tag. Transient, like
// IncludeRef.
type SecretRef struct {
	Name string
}

type scalarConstructFunc func(raw string) (interface{}, error)

// constructor converts a parsed yaml.v3 node tree into runtime values.
// scalarFuncs maps resolved tags to construct funcs; a substituted
// scalar whose tag is absent from the map (eg '<<') is a hard error.
type constructor struct {
	env         VarEnv
	ui          ui.UI
	scalarFuncs map[string]scalarConstructFunc
	inProgress  map[*yaml.Node]struct{}
}

func newConstructor(env VarEnv, u ui.UI) *constructor {
	c := &constructor{
		env:        env,
		ui:         u,
		inProgress: map[*yaml.Node]struct{}{},
	}
	c.scalarFuncs = map[string]scalarConstructFunc{
		strTag:       func(raw string) (interface{}, error) { return raw, nil },
		boolTag:      func(raw string) (interface{}, error) { return constructBool(raw), nil },
		intTag:       constructInt,
		floatTag:     func(raw string) (interface{}, error) { return constructFloat(raw) },
		timestampTag: func(raw string) (interface{}, error) { return constructTimestamp(raw) },
		// Return an empty string for null values so that the keys are
		// not removed from the map.
		nullTag: func(string) (interface{}, error) { return "", nil },
	}
	return c
}

func (c *constructor) construct(node *yaml.Node) (interface{}, error) {
	c.inProgress[node] = struct{}{}
	defer delete(c.inProgress, node)

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return "", nil
		}
		return c.construct(node.Content[0])

	case yaml.MappingNode:
		return c.constructMapping(node)

	case yaml.SequenceNode:
		if node.Tag == includeTag {
			c.ui.Warnf("Invalid !include argument type: sequence\n")
			return orderedmap.NewMap(), nil
		}
		if node.Tag == secretTag {
			return nil, fmt.Errorf("Invalid !secret argument type: sequence, expected a scalar")
		}
		result := []interface{}{}
		for _, item := range node.Content {
			val, err := c.construct(item)
			if err != nil {
				return nil, err
			}
			result = append(result, val)
		}
		return result, nil

	case yaml.ScalarNode:
		return c.constructScalar(node)

	case yaml.AliasNode:
		if _, active := c.inProgress[node.Alias]; active {
			return nil, fmt.Errorf("Recursive alias '*%s'", node.Value)
		}
		return c.construct(node.Alias)

	default:
		return nil, fmt.Errorf("Unexpected node kind %d", node.Kind)
	}
}

func (c *constructor) constructMapping(node *yaml.Node) (interface{}, error) {
	if node.Tag == secretTag {
		return nil, fmt.Errorf("Invalid !secret argument type: mapping, expected a scalar")
	}

	result := orderedmap.NewMap()
	var mergeSources []interface{}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Tag == mergeTag {
			val, err := c.construct(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			mergeSources = append(mergeSources, val)
			continue
		}

		keyVal, err := c.construct(keyNode)
		if err != nil {
			return nil, err
		}
		val, err := c.construct(node.Content[i+1])
		if err != nil {
			return nil, err
		}
		// duplicate keys: last occurrence wins, first position kept
		result.Set(scalarString(keyVal), val)
	}

	err := c.applyMergeKeys(result, mergeSources)
	if err != nil {
		return nil, err
	}

	if node.Tag == includeTag {
		return c.constructIncludeMapping(result), nil
	}
	return result, nil
}

// applyMergeKeys folds '<<' merge values into result: explicit keys win
// over merged ones, and earlier merge sources win over later ones. A
// source may be a mapping or a sequence of mappings.
func (c *constructor) applyMergeKeys(result *orderedmap.Map, sources []interface{}) error {
	for _, source := range sources {
		switch typedSource := source.(type) {
		case *orderedmap.Map:
			typedSource.Iterate(func(k string, v interface{}) {
				result.SetIfAbsent(k, v)
			})
		case []interface{}:
			for _, item := range typedSource {
				itemMap, ok := item.(*orderedmap.Map)
				if !ok {
					return fmt.Errorf("Expected merge key value to be a mapping or sequence of mappings, got %T", item)
				}
				itemMap.Iterate(func(k string, v interface{}) {
					result.SetIfAbsent(k, v)
				})
			}
		default:
			return fmt.Errorf("Expected merge key value to be a mapping or sequence of mappings, got %T", source)
		}
	}
	return nil
}

// constructIncludeMapping reads the 'file' and 'vars' keys of a
// mapping-form !include and folds vars on top of the current environment
// (the include's vars win for the duration of the child load).
func (c *constructor) constructIncludeMapping(options *orderedmap.Map) interface{} {
	c.ui.Debugf("Constructing !include mapping: %v\n", options)

	fileVal, found := options.Get("file")
	fileName, isStr := fileVal.(string)
	if !found || !isStr || fileName == "" {
		c.ui.Warnf("Missing 'file' key in !include: %v\n", options)
		return orderedmap.NewMap()
	}

	vars := c.env.Clone()
	if varsVal, found := options.Get("vars"); found {
		if varsMap, ok := varsVal.(*orderedmap.Map); ok {
			varsMap.Iterate(func(key string, val interface{}) {
				vars[key] = scalarString(val)
			})
		} else {
			c.ui.Warnf("Invalid 'vars' in !include: %v. Expected a map.\n", varsVal)
		}
	}

	return IncludeRef{File: fileName, Vars: vars}
}

func (c *constructor) constructScalar(node *yaml.Node) (interface{}, error) {
	explicitTag := node.Style&yaml.TaggedStyle != 0

	if explicitTag {
		switch node.Tag {
		case includeTag:
			return IncludeRef{File: strings.TrimSpace(node.Value), Vars: map[string]string{}}, nil
		case secretTag:
			return SecretRef{Name: strings.TrimSpace(node.Value)}, nil
		case strTag:
			return c.constructInterpolated(node)
		case boolTag:
			return constructExplicitBool(node.Value)
		case intTag:
			return constructInt(node.Value)
		case floatTag:
			return constructFloat(node.Value)
		case nullTag:
			return "", nil
		case timestampTag:
			return constructTimestamp(node.Value)
		default:
			return nil, fmt.Errorf("Could not determine a constructor for the tag '%s'", node.Tag)
		}
	}

	if node.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		return c.constructInterpolated(node)
	}

	// plain scalar: classify, then construct; only strings interpolate
	switch resolveScalarTag(node.Value) {
	case strTag:
		return c.constructInterpolated(node)
	case nullTag:
		return "", nil
	case boolTag:
		return constructBool(node.Value), nil
	case intTag:
		return constructInt(node.Value)
	case floatTag:
		return constructFloat(node.Value)
	case timestampTag:
		return constructTimestamp(node.Value)
	default:
		// merge ('<<') and value ('=') keys construct as plain strings
		return node.Value, nil
	}
}

// constructInterpolated substitutes ${...} references, then reclassifies
// the result because the type might change, eg ${var1} => 1: originally a
// str, it now becomes an int.
func (c *constructor) constructInterpolated(node *yaml.Node) (interface{}, error) {
	value := node.Value

	// don't interpolate single quoted strings
	if node.Style&yaml.SingleQuotedStyle != 0 {
		return value, nil
	}

	if !variablePattern.MatchString(value) {
		return value, nil
	}

	interpolated, err := interpolate(value, c.env, c.ui)
	if err != nil {
		return nil, err
	}

	newTag := resolveScalarTag(interpolated)
	constructFn, found := c.scalarFuncs[newTag]
	if !found {
		return nil, NoConstructorErr{Original: value, Substituted: interpolated, Tag: newTag}
	}
	return constructFn(interpolated)
}

// constructExplicitBool accepts the YAML 1.1 boolean word set; the
// narrowed true/false rule applies to implicit resolution only.
func constructExplicitBool(val string) (interface{}, error) {
	switch strings.ToLower(val) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	default:
		return nil, fmt.Errorf("Parsing bool '%s'", val)
	}
}
