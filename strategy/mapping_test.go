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

package strategy_test

import (
	"runtime"
	"sync"
	"testing"

	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/rpc2/strategy"
)

func TestMappingStrategy_TryGet(t *testing.T) {
	doc, err := oj.ParseString(`{
		"id": 12,
		"name": "Alice",
		"address": {"city": "Oslo"},
		"tags": ["a", "b"],
		"dotted.key": "flat"
	}`)
	require.NoError(t, err)
	rec := doc.(map[string]any)
	s := strategy.NewMappingStrategy()

	cases := []struct {
		field string
		want  any
	}{
		{"name", "Alice"},
		{"id", int64(12)},
		{"address.city", "Oslo"},
		{"tags.1", "b"},
		{"dotted.key", "flat"},
		{"address.zip", nil},
		{"tags.9", nil},
		{"missing", nil},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			v, ok := s.TryGet(rec, tc.field)
			assert.True(t, ok)
			assert.Equal(t, tc.want, v)
		})
	}

	v, ok := s.TryGet(&rec, "name")
	assert.True(t, ok)
	assert.Equal(t, "Alice", v)

	_, ok = s.TryGet(struct{}{}, "name")
	assert.False(t, ok)
}

func TestMappingStrategy_Concurrent(t *testing.T) {
	s := strategy.NewMappingStrategy()
	rec := map[string]any{"a": map[string]any{"b": map[string]any{"c": "deep"}}}
	workers := runtime.GOMAXPROCS(0) * 4

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				v, ok := s.TryGet(rec, "a.b.c")
				if !assert.True(t, ok) || !assert.Equal(t, "deep", v) {
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestMappingStrategy_NumericKeys(t *testing.T) {
	doc, err := oj.ParseString(`{
		"a": {"0": "x", "12": {"name": "twelve"}},
		"rows": [{"0": "cell"}, {"0": "other"}]
	}`)
	require.NoError(t, err)
	rec := doc.(map[string]any)
	s := strategy.NewMappingStrategy()

	cases := []struct {
		field string
		want  any
	}{
		{"a.0", "x"},
		{"a.12.name", "twelve"},
		{"a.1", nil},
		{"rows.1.0", "other"},
		{"rows.0.0", "cell"},
		{"rows.2.0", nil},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			v, ok := s.TryGet(rec, tc.field)
			assert.True(t, ok)
			assert.Equal(t, tc.want, v)
		})
	}
}
