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

package merger

import (
	"strconv"

	"github.com/golang/glog"

	"dirpx.dev/rpc2/apis"
)

// New constructs an apis.Merger for trees rooted at cfg.RootKey that
// inherits the subtrees in cfg.AtomicPaths whole.
func New(cfg apis.Config) apis.Merger {
	return &merger{root: apis.Path{cfg.RootKey}, atomic: cfg.AtomicPaths}
}

// merger is immutable after construction and safe for concurrent use on
// distinct child trees.
type merger struct {
	root   apis.Path
	atomic apis.PathSet
}

// Ensure merger implements apis.Merger.
var _ apis.Merger = (*merger)(nil)

// Merge fills the gaps of child from parent, walking parent's keys in order.
// child's maps are updated in place; its lists are replaced, not extended.
//
//   - key absent in child: parent's value is copied in (deep clone, so
//     declared trees are never shared into a resolved one);
//   - both interior of the same kind and the child path not atomic: recurse;
//   - anything else: the child's value stands and parent's is discarded.
func (m *merger) Merge(child, parent *apis.Map, at apis.Path) *apis.Map {
	if child == nil {
		return parent.Clone()
	}
	parent.Range(func(key string, pv apis.Node) bool {
		cv, ok := child.Get(key)
		if !ok {
			child.Set(key, apis.Clone(pv))
			return true
		}
		child.Set(key, m.merge(cv, pv, at.Child(key)))
		return true
	})
	return child
}

// merge combines one position that the child already defines.
func (m *merger) merge(cv, pv apis.Node, at apis.Path) apis.Node {
	if m.atomic.Matches(at) {
		if glog.V(2) {
			glog.Infof("[merge]atomic %s kept from child\n", at)
		}
		return cv
	}
	switch c := cv.(type) {
	case *apis.Map:
		if p, ok := pv.(*apis.Map); ok && c != nil {
			return m.Merge(c, p, at)
		}
	case apis.List:
		if p, ok := pv.(apis.List); ok {
			return m.mergeList(c, p, at)
		}
	}
	return cv
}

// mergeList treats indices as keys: missing trailing elements are
// appended from parent, shared indices merge element-wise.
// The result is a new list; child's backing array is never written.
func (m *merger) mergeList(child, parent apis.List, at apis.Path) apis.List {
	out := make(apis.List, len(child), max(len(child), len(parent)))
	copy(out, child)
	for i, pv := range parent {
		if i >= len(out) {
			out = append(out, apis.Clone(pv))
			continue
		}
		out[i] = m.merge(out[i], pv, at.Child(strconv.Itoa(i)))
	}
	return out
}

// Chain clones own and merges it against each ancestor, nearest first.
// With no ancestors the result is a plain clone of own.
func (m *merger) Chain(own *apis.Map, ancestors ...*apis.Map) *apis.Map {
	acc := own.Clone()
	if acc == nil {
		acc = apis.NewMap()
	}
	for _, a := range ancestors {
		if a == nil {
			continue
		}
		acc = m.Merge(acc, a, m.root)
	}
	return acc
}
