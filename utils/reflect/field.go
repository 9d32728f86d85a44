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

package reflect

import (
	"reflect"
	"strings"
	"sync"
)

// fieldCache maps a struct type to its attribute name -> field index table.
var fieldCache sync.Map // key: reflect.Type, val: map[string][]int

// Field reads the attribute name from a struct (or pointer to struct).
// name matches the json tag name first, then the Go field name.
// Only exported fields are visible.
//
// handled is false when v is not a struct after unwrapping; ok is false
// when the struct has no such attribute.
func Field(v any, name string) (value any, ok, handled bool) {
	rv, err := Normalize(reflect.ValueOf(v))
	if err != nil || rv.Kind() != reflect.Struct {
		return nil, false, false
	}
	idx, found := fields(rv.Type())[name]
	if !found {
		return nil, false, true
	}
	fv, err := rv.FieldByIndexErr(idx)
	if err != nil {
		// nil embedded pointer on the path
		return nil, false, true
	}
	return fv.Interface(), true, true
}

// fields builds (or loads) the attribute table of t with memoization.
func fields(t reflect.Type) map[string][]int {
	if v, ok := fieldCache.Load(t); ok {
		return v.(map[string][]int)
	}
	out := make(map[string][]int)
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if tag, ok := f.Tag.Lookup("json"); ok {
			tname, _, _ := strings.Cut(tag, ",")
			if tname == "-" {
				continue
			}
			if tname != "" {
				out[tname] = f.Index
			}
		}
		if _, taken := out[f.Name]; !taken {
			out[f.Name] = f.Index
		}
	}
	v, _ := fieldCache.LoadOrStore(t, out)
	return v.(map[string][]int)
}
