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

package apis

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// AttributePrefix marks a template string as a reference to a record attribute.
const AttributePrefix = "attributes."

// Kind enumerates the cases of the Node tagged union.
type Kind uint8

const (
	// KindLiteral is a string or non-string scalar leaf.
	KindLiteral Kind = iota
	// KindReference is an "attributes.<field>" leaf.
	KindReference
	// KindComputed is a computed-value function leaf.
	KindComputed
	// KindMap is an ordered key -> Node interior node.
	KindMap
	// KindList is an ordered sequence interior node.
	KindList
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindReference:
		return "reference"
	case KindComputed:
		return "computed"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Node is one position of a configuration tree or parameter template.
//
// The set of implementations is closed: Literal, Reference, Computed,
// *Map and List. Consumers switch over them exhaustively.
type Node interface {
	// Kind reports which case of the union this node is.
	Kind() Kind
	node()
}

// Literal is a leaf carrying a plain value (string, bool, number or nil).
type Literal struct {
	Value any
}

// Kind implements Node.
func (Literal) Kind() Kind { return KindLiteral }
func (Literal) node()      {}

// Reference is a leaf naming a record attribute.
// Field is the remainder after AttributePrefix and is kept whole.
type Reference struct {
	Field string
}

// Kind implements Node.
func (Reference) Kind() Kind { return KindReference }
func (Reference) node()      {}

// Raw returns the template string the reference was declared as.
func (r Reference) Raw() string { return AttributePrefix + r.Field }

// Computed produces a value from the live record.
// At the top of a parameter template its result is the whole payload.
type Computed func(record any) any

// Kind implements Node.
func (Computed) Kind() Kind { return KindComputed }
func (Computed) node()      {}

// List is an ordered sequence of nodes.
type List []Node

// Kind implements Node.
func (List) Kind() Kind { return KindList }
func (List) node()      {}

// Map is an ordered mapping from key to Node.
// The zero value is not usable; construct with NewMap.
type Map struct {
	om *orderedmap.OrderedMap[string, Node]
}

// Kind implements Node.
func (*Map) Kind() Kind { return KindMap }
func (*Map) node()      {}

// NewMap returns an empty ordered map.
func NewMap() *Map {
	return &Map{om: orderedmap.New[string, Node]()}
}

// Set stores n under key. An existing key keeps its position.
// It returns m so declarations can be chained.
func (m *Map) Set(key string, n Node) *Map {
	m.om.Set(key, n)
	return m
}

// Get returns the node stored under key.
func (m *Map) Get(key string) (Node, bool) {
	if m == nil {
		return nil, false
	}
	return m.om.Get(key)
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return m.om.Len()
}

// Keys returns the keys in order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, m.om.Len())
	for p := m.om.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Range calls fn for each entry in order until fn returns false.
func (m *Map) Range(fn func(key string, n Node) bool) {
	if m == nil {
		return
	}
	for p := m.om.Oldest(); p != nil; p = p.Next() {
		if !fn(p.Key, p.Value) {
			return
		}
	}
}

// Lookup walks p from m and returns the node found there.
func (m *Map) Lookup(p Path) (Node, bool) {
	var cur Node = m
	for _, tok := range p {
		switch c := cur.(type) {
		case *Map:
			n, ok := c.Get(tok)
			if !ok {
				return nil, false
			}
			cur = n
		case List:
			i, ok := index(tok, len(c))
			if !ok {
				return nil, false
			}
			cur = c[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// String renders the map for diagnostics.
func (m *Map) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	m.Range(func(k string, n Node) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%s: %s", k, render(n))
		return true
	})
	b.WriteByte('}')
	return b.String()
}

func render(n Node) string {
	switch v := n.(type) {
	case Literal:
		return fmt.Sprintf("%#v", v.Value)
	case Reference:
		return fmt.Sprintf("%q", v.Raw())
	case Computed:
		return "<computed>"
	case *Map:
		return v.String()
	case List:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = render(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// String classifies s: attribute references become Reference, anything
// else is a Literal.
func String(s string) Node {
	if strings.HasPrefix(s, AttributePrefix) {
		return Reference{Field: strings.TrimPrefix(s, AttributePrefix)}
	}
	return Literal{Value: s}
}

// ValueOf converts a plain Go value into a Node.
//
// Nodes are returned as-is. Go maps have no order, so map[string]any keys
// are taken in sorted order; build a *Map directly when order matters.
func ValueOf(v any) Node {
	switch x := v.(type) {
	case Node:
		return x
	case nil:
		return Literal{}
	case string:
		return String(x)
	case func(any) any:
		return Computed(x)
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			m.Set(k, ValueOf(x[k]))
		}
		return m
	case map[string]string:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			m.Set(k, String(x[k]))
		}
		return m
	case []any:
		l := make(List, len(x))
		for i, e := range x {
			l[i] = ValueOf(e)
		}
		return l
	case []string:
		l := make(List, len(x))
		for i, e := range x {
			l[i] = String(e)
		}
		return l
	default:
		return Literal{Value: v}
	}
}

// Clone deep-copies interior nodes. Leaves are values and are shared.
func Clone(n Node) Node {
	switch v := n.(type) {
	case *Map:
		return v.Clone()
	case List:
		out := make(List, len(v))
		for i, e := range v {
			out[i] = Clone(e)
		}
		return out
	default:
		return n
	}
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := NewMap()
	m.Range(func(k string, n Node) bool {
		out.Set(k, Clone(n))
		return true
	})
	return out
}

// Equal reports whether a and b have the same shape, key order and leaves.
// Computed leaves are equal when they are the same function.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Literal:
		y, ok := b.(Literal)
		return ok && reflect.DeepEqual(x.Value, y.Value)
	case Reference:
		y, ok := b.(Reference)
		return ok && x.Field == y.Field
	case Computed:
		y, ok := b.(Computed)
		if !ok {
			return false
		}
		if x == nil || y == nil {
			return x == nil && y == nil
		}
		return reflect.ValueOf(x).Pointer() == reflect.ValueOf(y).Pointer()
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Map:
		y, ok := b.(*Map)
		if !ok {
			return false
		}
		if x == nil || y == nil {
			return x == nil && y == nil
		}
		if x.Len() != y.Len() {
			return false
		}
		xp, yp := x.om.Oldest(), y.om.Oldest()
		for xp != nil && yp != nil {
			if xp.Key != yp.Key || !Equal(xp.Value, yp.Value) {
				return false
			}
			xp, yp = xp.Next(), yp.Next()
		}
		return xp == nil && yp == nil
	default:
		return false
	}
}
