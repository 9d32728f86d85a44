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

package params

import (
	"github.com/golang/glog"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"dirpx.dev/rpc2/apis"
	"dirpx.dev/rpc2/resolver"
	uref "dirpx.dev/rpc2/utils/reflect"
)

// Object is the payload form of a template map. It keeps template key
// order and encodes to JSON in that order.
type Object = orderedmap.OrderedMap[string, any]

// New creates an apis.Templater resolving references through res.
// A nil res uses resolver.Default().
func New(res apis.Resolver) apis.Templater {
	if res == nil {
		res = resolver.Default()
	}
	return &engine{res: res}
}

// engine is stateless apart from its resolver and safe for concurrent use.
type engine struct {
	res apis.Resolver
}

// Ensure engine implements apis.Templater.
var _ apis.Templater = (*engine)(nil)

// Build evaluates template against record.
//
//   - a top-level Computed is called with record and its result returned as-is;
//   - a nil template yields an empty list (call with no arguments);
//   - otherwise the template is walked and only leaves may change.
func (e *engine) Build(template apis.Node, record any) apis.Payload {
	switch t := template.(type) {
	case nil:
		return []any{}
	case apis.Computed:
		if t == nil {
			return []any{}
		}
		return t(record)
	case *apis.Map:
		if t == nil {
			return []any{}
		}
	}
	return e.value(template, record)
}

// value converts one template position.
func (e *engine) value(n apis.Node, record any) any {
	switch v := n.(type) {
	case apis.Literal:
		return v.Value
	case apis.Reference:
		return e.reference(v, record)
	case apis.Computed:
		if v == nil {
			return nil
		}
		return v(record)
	case *apis.Map:
		obj := orderedmap.New[string, any]()
		v.Range(func(k string, c apis.Node) bool {
			obj.Set(k, e.value(c, record))
			return true
		})
		return obj
	case apis.List:
		out := make([]any, len(v))
		for i, c := range v {
			out[i] = e.value(c, record)
		}
		return out
	default:
		return nil
	}
}

// reference applies the keep-unresolved policy: an absent or falsy
// attribute leaves the template string in place.
func (e *engine) reference(ref apis.Reference, record any) any {
	if v, ok := e.res.Resolve(record, ref.Field); ok && uref.Truthy(v) {
		return v
	}
	if glog.V(2) {
		glog.Infof("[params]keep unresolved %s\n", ref.Raw())
	}
	return KeepUnresolved(ref)
}

// KeepUnresolved is the value an unresolved reference builds to: its own
// template string.
func KeepUnresolved(ref apis.Reference) any {
	return ref.Raw()
}

// Plain converts a payload into plain Go values (map[string]any, []any),
// dropping key order. Useful for comparisons and encoders without
// ordered map support.
func Plain(p apis.Payload) any {
	switch v := p.(type) {
	case *Object:
		out := make(map[string]any, v.Len())
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			out[pair.Key] = Plain(pair.Value)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Plain(e)
		}
		return out
	default:
		return p
	}
}

// Keys returns the top-level keys of a map payload in order.
func Keys(p apis.Payload) []string {
	obj, ok := p.(*Object)
	if !ok {
		return nil
	}
	keys := make([]string, 0, obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}
