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

package reflect_test

import (
	"math"
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uref "dirpx.dev/rpc2/utils/reflect"
)

// Local test types.
type Base struct {
	ID string `json:"id"`
}

type User struct {
	Base
	Name    string `json:"name,omitempty"`
	Email   string
	Secret  string `json:"-"`
	private string
}

func TestNormalize_Pointers(t *testing.T) {
	u := User{Name: "Alice"}
	pu := &u
	ppu := &pu

	for _, v := range []any{u, pu, ppu} {
		got, err := uref.Normalize(reflect.ValueOf(v))
		require.NoError(t, err, "%T", v)
		assert.Equal(t, reflect.TypeOf(User{}), got.Type(), "%T", v)
	}
}

func TestNormalize_Nil(t *testing.T) {
	var pu *User
	_, err := uref.Normalize(reflect.ValueOf(pu))
	assert.ErrorIs(t, err, uref.ErrReflectNilValue, "nil pointer")

	_, err = uref.Normalize(reflect.Value{})
	assert.ErrorIs(t, err, uref.ErrReflectNilValue, "invalid value")
}

func TestNormalize_TooDeep(t *testing.T) {
	var v any = 1
	for i := 0; i < uref.MaxUnwrap+1; i++ {
		x := v
		v = &x
	}
	_, err := uref.Normalize(reflect.ValueOf(v))
	assert.ErrorIs(t, err, uref.ErrReflectTooDeep)
}

func TestTruthy(t *testing.T) {
	var nilPtr *User
	var nilMap map[string]any
	cases := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"empty string", "", false},
		{"string", "x", true},
		{"zero int", 0, false},
		{"int", 7, true},
		{"zero int64", int64(0), false},
		{"zero uint8", uint8(0), false},
		{"zero float", 0.0, false},
		{"NaN", math.NaN(), false},
		{"float", 0.5, true},
		{"nil pointer", nilPtr, false},
		{"nil map", nilMap, false},
		{"empty map", map[string]any{}, true},
		{"empty slice", []any{}, true},
		{"struct", User{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, uref.Truthy(tc.v), "Truthy(%#v)", tc.v)
		})
	}
}

func TestField(t *testing.T) {
	u := &User{Base: Base{ID: "42"}, Name: "Alice", Email: "a@x", Secret: "s", private: "p"}

	cases := []struct {
		name    string
		field   string
		want    any
		ok      bool
		handled bool
	}{
		{"json tag", "name", "Alice", true, true},
		{"go name", "Name", "Alice", true, true},
		{"untagged", "Email", "a@x", true, true},
		{"promoted", "id", "42", true, true},
		{"hidden by dash", "Secret", nil, false, true},
		{"unexported", "private", nil, false, true},
		{"missing", "nope", nil, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok, handled := uref.Field(u, tc.field)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.handled, handled)
		})
	}

	_, _, handled := uref.Field(map[string]any{"a": 1}, "a")
	assert.False(t, handled, "Field(map) must defer to other strategies")
	var nilUser *User
	_, _, handled = uref.Field(nilUser, "name")
	assert.False(t, handled, "Field(nil *User) must defer to other strategies")
}

// TestField_Concurrent stresses the field table cache.
func TestField_Concurrent(t *testing.T) {
	u := User{Name: "Alice"}
	workers := runtime.GOMAXPROCS(0) * 4

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				got, ok, _ := uref.Field(u, "name")
				if !assert.True(t, ok) || !assert.Equal(t, "Alice", got) {
					return
				}
			}
		}()
	}
	wg.Wait()
}
