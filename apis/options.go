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
	"errors"
	"fmt"
	"maps"
)

// Verb is a logical CRUD operation.
type Verb string

const (
	Create Verb = "create"
	Read   Verb = "read"
	Update Verb = "update"
	Delete Verb = "delete"
)

// Verbs lists the recognized verbs in declaration order.
var Verbs = []Verb{Create, Read, Update, Delete}

// Known reports whether v is one of the four CRUD verbs.
func (v Verb) Known() bool {
	switch v {
	case Create, Read, Update, Delete:
		return true
	default:
		return false
	}
}

// Keys of the options tree.
const (
	KeyURL     = "url"
	KeyHeaders = "headers"
	KeyMethods = "methods"
	KeyMethod  = "method"
	KeyParams  = "params"
)

// ErrInvalidOptions reports an options tree whose well-known keys have
// the wrong shape.
var ErrInvalidOptions = errors.New("rpc2(apis): invalid options")

// Operation is the resolved configuration of one verb.
type Operation struct {
	// Method is the remote method name. Empty means not configured.
	Method string
	// Params is the parameter template; nil means no params.
	Params Node
}

// Options is the resolved, read-only configuration of a record type.
type Options struct {
	// URL is the transport endpoint, passed through unexamined.
	URL string
	// Headers are transport headers, passed through unexamined.
	Headers map[string]string
	// Methods maps verbs to their operations.
	Methods map[Verb]Operation
	// Tree is the resolved options tree the fields were decoded from.
	Tree *Map
}

// Operation returns the configuration of v.
func (o Options) Operation(v Verb) (Operation, bool) {
	op, ok := o.Methods[v]
	return op, ok
}

// Clone returns a deep copy of o sharing nothing with it. Params of the
// copy point into the copied Tree when o was decoded from one.
func (o Options) Clone() Options {
	if o.Tree != nil {
		if out, err := DecodeOptions(o.Tree.Clone()); err == nil {
			return out
		}
	}
	out := Options{
		URL:     o.URL,
		Headers: maps.Clone(o.Headers),
		Methods: make(map[Verb]Operation, len(o.Methods)),
		Tree:    o.Tree.Clone(),
	}
	for v, op := range o.Methods {
		op.Params = Clone(op.Params)
		out.Methods[v] = op
	}
	return out
}

// DecodeOptions reads the well-known keys of a resolved options tree.
// Keys it does not know are left in Tree.
func DecodeOptions(tree *Map) (Options, error) {
	opts := Options{
		Headers: map[string]string{},
		Methods: map[Verb]Operation{},
		Tree:    tree,
	}
	if tree == nil {
		return opts, nil
	}

	if n, ok := tree.Get(KeyURL); ok {
		s, ok := literalString(n)
		if !ok {
			return Options{}, fmt.Errorf("%w: %s must be a string", ErrInvalidOptions, KeyURL)
		}
		opts.URL = s
	}

	if n, ok := tree.Get(KeyHeaders); ok {
		h, ok := n.(*Map)
		if !ok {
			return Options{}, fmt.Errorf("%w: %s must be a map", ErrInvalidOptions, KeyHeaders)
		}
		var bad string
		h.Range(func(k string, v Node) bool {
			s, ok := literalString(v)
			if !ok {
				bad = k
				return false
			}
			opts.Headers[k] = s
			return true
		})
		if bad != "" {
			return Options{}, fmt.Errorf("%w: %s.%s must be a string", ErrInvalidOptions, KeyHeaders, bad)
		}
	}

	n, ok := tree.Get(KeyMethods)
	if !ok {
		return opts, nil
	}
	methods, ok := n.(*Map)
	if !ok {
		return Options{}, fmt.Errorf("%w: %s must be a map", ErrInvalidOptions, KeyMethods)
	}
	var err error
	methods.Range(func(name string, v Node) bool {
		m, ok := v.(*Map)
		if !ok {
			err = fmt.Errorf("%w: %s.%s must be a map", ErrInvalidOptions, KeyMethods, name)
			return false
		}
		var op Operation
		if mn, ok := m.Get(KeyMethod); ok {
			s, ok := literalString(mn)
			if !ok {
				err = fmt.Errorf("%w: %s.%s.%s must be a string", ErrInvalidOptions, KeyMethods, name, KeyMethod)
				return false
			}
			op.Method = s
		}
		if pn, ok := m.Get(KeyParams); ok {
			op.Params = pn
		}
		opts.Methods[Verb(name)] = op
		return true
	})
	if err != nil {
		return Options{}, err
	}
	return opts, nil
}

// literalString accepts string literals. A declared "attributes.x" string
// in a non-template position is still a string.
func literalString(n Node) (string, bool) {
	switch v := n.(type) {
	case Literal:
		s, ok := v.Value.(string)
		return s, ok
	case Reference:
		return v.Raw(), true
	default:
		return "", false
	}
}
