/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package schema

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"dirpx.dev/rpc2/apis"
)

// decodeYAML reads one YAML (or JSON) document through yaml.Node so that
// mapping order survives.
func decodeYAML(r io.Reader) (*apis.Map, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}
	n, err := fromYAML(root)
	if err != nil {
		return nil, err
	}
	if isNull(n) {
		return nil, nil
	}
	m, ok := n.(*apis.Map)
	if !ok {
		return nil, fmt.Errorf("%w: document must be a map", ErrInvalidSchema)
	}
	return m, nil
}

func fromYAML(y *yaml.Node) (apis.Node, error) {
	switch y.Kind {
	case yaml.AliasNode:
		return fromYAML(y.Alias)
	case yaml.MappingNode:
		m := apis.NewMap()
		for i := 0; i+1 < len(y.Content); i += 2 {
			k := y.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: line %d: map keys must be scalars", ErrInvalidSchema, k.Line)
			}
			v, err := fromYAML(y.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(k.Value, v)
		}
		return m, nil
	case yaml.SequenceNode:
		l := make(apis.List, len(y.Content))
		for i, c := range y.Content {
			v, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			l[i] = v
		}
		return l, nil
	case yaml.ScalarNode:
		if y.ShortTag() == "!!str" {
			return apis.String(y.Value), nil
		}
		var v any
		if err := y.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidSchema, y.Line, err)
		}
		return apis.Literal{Value: v}, nil
	default:
		return nil, fmt.Errorf("%w: line %d: unexpected node", ErrInvalidSchema, y.Line)
	}
}

// toYAML renders n as a yaml.Node keeping key order.
func toYAML(n apis.Node) *yaml.Node {
	switch v := n.(type) {
	case *apis.Map:
		y := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		v.Range(func(k string, c apis.Node) bool {
			y.Content = append(y.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				toYAML(c))
			return true
		})
		return y
	case apis.List:
		y := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, c := range v {
			y.Content = append(y.Content, toYAML(c))
		}
		return y
	case apis.Reference:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Raw()}
	case apis.Computed:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!computed", Value: "<computed>"}
	case apis.Literal:
		var y yaml.Node
		if err := y.Encode(v.Value); err != nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(v.Value)}
		}
		return &y
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
