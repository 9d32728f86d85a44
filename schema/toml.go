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
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"dirpx.dev/rpc2/apis"
)

// decodeTOML decodes into plain maps and restores declaration order from
// the decoder's key metadata.
func decodeTOML(r io.Reader) (*apis.Map, error) {
	var raw map[string]any
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	order := make(map[string]int, len(md.Keys()))
	for i, k := range md.Keys() {
		for j := 1; j <= len(k); j++ {
			p := strings.Join(k[:j], "\x00")
			if _, ok := order[p]; !ok {
				order[p] = i
			}
		}
	}
	return fromTOMLTable(raw, nil, order), nil
}

func fromTOMLTable(t map[string]any, at []string, order map[string]int) *apis.Map {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	pos := func(k string) (int, bool) {
		i, ok := order[strings.Join(append(at[:len(at):len(at)], k), "\x00")]
		return i, ok
	}
	sort.SliceStable(keys, func(i, j int) bool {
		pi, oki := pos(keys[i])
		pj, okj := pos(keys[j])
		switch {
		case oki && okj:
			return pi < pj
		case oki != okj:
			return oki
		default:
			return keys[i] < keys[j]
		}
	})

	m := apis.NewMap()
	for _, k := range keys {
		m.Set(k, fromTOML(t[k], append(at[:len(at):len(at)], k), order))
	}
	return m
}

func fromTOML(v any, at []string, order map[string]int) apis.Node {
	switch x := v.(type) {
	case map[string]any:
		return fromTOMLTable(x, at, order)
	case []map[string]any:
		l := make(apis.List, len(x))
		for i, t := range x {
			l[i] = fromTOMLTable(t, at, order)
		}
		return l
	case []any:
		l := make(apis.List, len(x))
		for i, e := range x {
			l[i] = fromTOML(e, at, order)
		}
		return l
	case string:
		return apis.String(x)
	default:
		return apis.Literal{Value: v}
	}
}
