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
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/rpc2/apis"
	"dirpx.dev/rpc2/strategy"
)

type attrs map[string]any

func (a attrs) Get(field string) (any, bool) {
	v, ok := a[field]
	return v, ok
}

// Ensure the local type actually satisfies apis.Record (compile-time).
var _ apis.Record = attrs(nil)

func TestGetterStrategy_TryGet(t *testing.T) {
	s := strategy.NewGetterStrategy()
	rec := attrs{"name": "Alice", "address.city": "Oslo"}

	v, ok := s.TryGet(rec, "name")
	assert.True(t, ok)
	assert.Equal(t, "Alice", v)

	// composite names are the record's own business
	v, ok = s.TryGet(rec, "address.city")
	assert.True(t, ok)
	assert.Equal(t, "Oslo", v)

	v, ok = s.TryGet(rec, "missing")
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = s.TryGet(struct{}{}, "name")
	assert.False(t, ok)

	_, ok = s.TryGet(nil, "name")
	assert.False(t, ok)
}
