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
	"sort"
	"strconv"
	"strings"
)

// Path addresses a position in a configuration tree as a sequence of
// tokens. List elements are addressed by their decimal index.
type Path []string

// ParsePath splits a dotted path into tokens. Empty input yields nil.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, "."))
}

// Child returns a new path extending p with tok. p is never modified.
func (p Path) Child(tok string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = tok
	return out
}

// Equal reports token-wise equality.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// String joins the tokens with dots, for display only.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// PathSet is an immutable set of paths stored as a token trie.
// Membership is exact token equality. The zero value is an empty set.
type PathSet struct {
	root *trie
	n    int
}

type trie struct {
	next map[string]*trie
	end  bool
}

// NewPathSet builds a set from paths. Empty paths are ignored.
func NewPathSet(paths ...Path) PathSet {
	s := PathSet{root: &trie{}}
	for _, p := range paths {
		if len(p) == 0 {
			continue
		}
		t := s.root
		for _, tok := range p {
			if t.next == nil {
				t.next = make(map[string]*trie)
			}
			c, ok := t.next[tok]
			if !ok {
				c = &trie{}
				t.next[tok] = c
			}
			t = c
		}
		if !t.end {
			t.end = true
			s.n++
		}
	}
	return s
}

// Contains reports whether p is a member.
func (s PathSet) Contains(p Path) bool {
	t := s.root
	if t == nil {
		return false
	}
	for _, tok := range p {
		c, ok := t.next[tok]
		if !ok {
			return false
		}
		t = c
	}
	return t.end
}

// Matches reports whether p is atomic under s: p is a member, or a
// two-token member names p's last (parent key, key) pair, so
// "methods.create" matches "rpcOptions.methods.create".
func (s PathSet) Matches(p Path) bool {
	if s.Contains(p) {
		return true
	}
	return len(p) > 2 && s.Contains(p[len(p)-2:])
}

// Len returns the number of members.
func (s PathSet) Len() int { return s.n }

// Paths lists the members in depth-first order with sorted siblings.
func (s PathSet) Paths() []Path {
	if s.root == nil {
		return nil
	}
	out := make([]Path, 0, s.n)
	var walk func(t *trie, at Path)
	walk = func(t *trie, at Path) {
		if t.end {
			out = append(out, at)
		}
		keys := make([]string, 0, len(t.next))
		for k := range t.next {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walk(t.next[k], at.Child(k))
		}
	}
	walk(s.root, nil)
	return out
}

// With returns a new set holding the members of s plus paths.
func (s PathSet) With(paths ...Path) PathSet {
	return NewPathSet(append(s.Paths(), paths...)...)
}

// index parses tok as a list index below n.
func index(tok string, n int) (int, bool) {
	i, err := strconv.Atoi(tok)
	if err != nil || i < 0 || i >= n {
		return 0, false
	}
	return i, true
}
