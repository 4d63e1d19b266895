// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Conversion rewrites a resolved tree (*Map, []interface{}, scalars) into
// representations digestible by encoders that do not know about Map.
type Conversion struct {
	Object interface{}
}

// AsUnorderedStringMaps converts every *Map into a plain
// map[string]interface{}, losing key order. Used for encoders that sort
// keys themselves (JSON, TOML).
func (c Conversion) AsUnorderedStringMaps() interface{} {
	return c.asUnorderedStringMaps(c.Object)
}

func (c Conversion) asUnorderedStringMaps(object interface{}) interface{} {
	switch typedObj := object.(type) {
	case map[string]interface{}:
		panic("Expected *orderedmap.Map instead of map[string]interface{} in asUnorderedStringMaps")

	case *Map:
		result := map[string]interface{}{}
		typedObj.Iterate(func(k string, v interface{}) {
			result[k] = c.asUnorderedStringMaps(v)
		})
		return result

	case []interface{}:
		result := make([]interface{}, len(typedObj))
		for i, item := range typedObj {
			result[i] = c.asUnorderedStringMaps(item)
		}
		return result

	default:
		return typedObj
	}
}

// AsYAMLNode converts the tree into a yaml.Node so that the YAML encoder
// preserves key order.
func (c Conversion) AsYAMLNode() (*yaml.Node, error) {
	return c.asYAMLNode(c.Object)
}

func (c Conversion) asYAMLNode(object interface{}) (*yaml.Node, error) {
	switch typedObj := object.(type) {
	case *Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		err := typedObj.IterateErr(func(k string, v interface{}) error {
			valNode, err := c.asYAMLNode(v)
			if err != nil {
				return err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, valNode)
			return nil
		})
		return node, err

	case []interface{}:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typedObj {
			itemNode, err := c.asYAMLNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, itemNode)
		}
		return node, nil

	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: typedObj}, nil

	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(typedObj)}, nil

	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(typedObj)}, nil

	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(typedObj, 10)}, nil

	case uint64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(typedObj, 10)}, nil

	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(typedObj, 'g', -1, 64)}, nil

	case time.Time:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: typedObj.Format(time.RFC3339)}, nil

	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil

	default:
		return nil, fmt.Errorf("Converting to YAML node: unsupported value type %T", object)
	}
}
