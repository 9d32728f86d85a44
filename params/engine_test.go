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

package params_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/rpc2/apis"
	"dirpx.dev/rpc2/params"
)

type record map[string]any

func (r record) Get(field string) (any, bool) {
	v, ok := r[field]
	return v, ok
}

func TestBuild_DispatchExample(t *testing.T) {
	tpl := apis.NewMap().Set("name", apis.String("attributes.name"))
	got := params.New(nil).Build(tpl, record{"name": "Alice"})

	assert.Equal(t, map[string]any{"name": "Alice"}, params.Plain(got))
}

func TestBuild_ReferenceResolution(t *testing.T) {
	e := params.New(nil)
	tpl := apis.NewMap().Set("foo", apis.String("attributes.foo"))

	cases := []struct {
		name string
		rec  record
		want any
	}{
		{"truthy string", record{"foo": "v"}, "v"},
		{"truthy number", record{"foo": 3}, 3},
		{"truthy empty map", record{"foo": map[string]any{}}, map[string]any{}},
		{"absent", record{}, "attributes.foo"},
		{"empty string", record{"foo": ""}, "attributes.foo"},
		{"zero", record{"foo": 0}, "attributes.foo"},
		{"false", record{"foo": false}, "attributes.foo"},
		{"nil", record{"foo": nil}, "attributes.foo"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := params.Plain(e.Build(tpl, tc.rec)).(map[string]any)
			assert.Equal(t, tc.want, got["foo"])
		})
	}
}

func TestBuild_ShapePreservation(t *testing.T) {
	tpl := apis.NewMap().
		Set("z", apis.String("attributes.id")).
		Set("a", apis.Literal{Value: "plain"}).
		Set("m", apis.NewMap().
			Set("y", apis.String("attributes.missing")).
			Set("b", apis.Literal{Value: int64(5)}).
			Set("l", apis.List{apis.String("attributes.name"), apis.Literal{Value: true}, apis.Literal{}})).
		Set("n", apis.Literal{Value: nil})

	got := params.New(nil).Build(tpl, record{"id": 9, "name": "Alice"})

	assert.Equal(t, []string{"z", "a", "m", "n"}, params.Keys(got))
	obj := got.(*params.Object)
	inner, ok := obj.Get("m")
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b", "l"}, params.Keys(inner))

	assert.Equal(t, map[string]any{
		"z": 9,
		"a": "plain",
		"m": map[string]any{
			"y": "attributes.missing",
			"b": int64(5),
			"l": []any{"Alice", true, nil},
		},
		"n": nil,
	}, params.Plain(got))

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"z":9,"a":"plain","m":{"y":"attributes.missing","b":5,"l":["Alice",true,null]},"n":null}`, string(raw))
	assert.Equal(t, `{"z":9,"a":"plain","m":{"y":"attributes.missing","b":5,"l":["Alice",true,null]},"n":null}`, string(raw), "key order follows the template")
}

func TestBuild_ListTemplate(t *testing.T) {
	tpl := apis.List{apis.String("attributes.id"), apis.String("literal")}
	got := params.New(nil).Build(tpl, record{"id": "x1"})
	assert.Equal(t, []any{"x1", "literal"}, got)
}

func TestBuild_NilTemplate(t *testing.T) {
	e := params.New(nil)
	assert.Equal(t, []any{}, e.Build(nil, record{}))

	var m *apis.Map
	assert.Equal(t, []any{}, e.Build(m, record{}))

	var c apis.Computed
	assert.Equal(t, []any{}, e.Build(c, record{}))
}

func TestBuild_TopLevelComputed(t *testing.T) {
	var seen any
	fn := apis.Computed(func(rec any) any {
		seen = rec
		return []any{"raw", 1}
	})
	rec := record{"id": 1}

	got := params.New(nil).Build(fn, rec)
	assert.Equal(t, []any{"raw", 1}, got, "result is returned without templating")
	assert.Equal(t, rec, seen)

	// a computed result that looks like a reference is not resolved
	fn2 := apis.Computed(func(any) any { return map[string]any{"id": "attributes.id"} })
	assert.Equal(t, map[string]any{"id": "attributes.id"}, params.New(nil).Build(fn2, rec))
}

func TestBuild_NestedComputed(t *testing.T) {
	tpl := apis.NewMap().
		Set("upper", apis.Computed(func(rec any) any {
			v, _ := rec.(record).Get("name")
			return v.(string) + "!"
		}))
	got := params.New(nil).Build(tpl, record{"name": "Alice"})
	assert.Equal(t, map[string]any{"upper": "Alice!"}, params.Plain(got))
}

func TestBuild_DoesNotMutateTemplate(t *testing.T) {
	tpl := apis.NewMap().Set("id", apis.String("attributes.id"))
	before := tpl.Clone()
	_ = params.New(nil).Build(tpl, record{"id": 7})
	assert.True(t, apis.Equal(before, tpl))
}

func TestBuild_CustomResolver(t *testing.T) {
	res := resolverFunc(func(record any, field string) (any, bool) {
		return "r:" + field, true
	})
	tpl := apis.NewMap().Set("a", apis.String("attributes.x.y"))
	got := params.New(res).Build(tpl, nil)
	assert.Equal(t, map[string]any{"a": "r:x.y"}, params.Plain(got))
}

type resolverFunc func(record any, field string) (any, bool)

func (f resolverFunc) Resolve(record any, field string) (any, bool) { return f(record, field) }
