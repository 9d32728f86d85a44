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

package strategy

import (
	"strings"
	"sync"

	"github.com/ohler55/ojg/jp"

	"dirpx.dev/rpc2/apis"
)

// NewMappingStrategy creates an apis.Strategy for map[string]any records.
// A dotted field walks nested maps and lists ("address.city", "tags.0").
// A numeric token is a list index or a map key, whichever the node is.
func NewMappingStrategy() apis.Strategy {
	return mappingStrategy{}
}

// mappingStrategy reads generic decoded documents (JSON/YAML objects).
type mappingStrategy struct{}

// Ensure mappingStrategy implements apis.Strategy.
var _ apis.Strategy = (*mappingStrategy)(nil)

// exprCache caches compiled child paths by field.
var exprCache sync.Map // key: string, val: jp.Expr

// TryGet evaluates field as a child path against the map.
func (mappingStrategy) TryGet(record any, field string) (any, bool) {
	var m map[string]any
	switch r := record.(type) {
	case map[string]any:
		m = r
	case *map[string]any:
		if r == nil {
			return nil, false
		}
		m = *r
	default:
		return nil, false
	}
	if v, ok := m[field]; ok {
		return v, true
	}
	if !strings.Contains(field, ".") {
		return nil, true
	}
	if got := expr(field).Get(m); len(got) > 0 {
		return got[0], true
	}
	return nil, true
}

// expr compiles field into a jp child path with memoization.
func expr(field string) jp.Expr {
	if v, ok := exprCache.Load(field); ok {
		return v.(jp.Expr)
	}
	var x jp.Expr
	for _, tok := range strings.Split(field, ".") {
		if i, ok := nth(tok); ok {
			x = append(x, jp.Union{tok, int64(i)})
			continue
		}
		x = append(x, jp.Child(tok))
	}
	exprCache.Store(field, x)
	return x
}

// nth parses a non-negative list index token.
func nth(tok string) (int, bool) {
	if tok == "" || len(tok) > 9 {
		return 0, false
	}
	n := 0
	for _, c := range tok {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
