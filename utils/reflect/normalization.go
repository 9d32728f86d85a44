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
	"errors"
	"reflect"
)

// MaxUnwrap limits pointer/interface unwrapping depth.
// Acts as a safety guard against pathological nesting.
const MaxUnwrap = 8

var (
	// ErrReflectNilValue is returned when a nil value or nil pointer is reached.
	ErrReflectNilValue = errors.New("reflect: nil value")
	// ErrReflectTooDeep indicates that unwrapping did not reach a concrete
	// value within MaxUnwrap steps.
	ErrReflectTooDeep = errors.New("reflect: pointer chain exceeds MaxUnwrap")
)

// Normalize unwraps pointers and interfaces and returns the first concrete
// value, or an error if a nil is reached or the chain is too deep.
//
// Unwrapping policy:
//   - ptr/interface -> Elem(), failing on nil
//   - default: return as-is
func Normalize(v reflect.Value) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Value{}, ErrReflectNilValue
	}
	for i := 0; i < MaxUnwrap; i++ {
		switch v.Kind() {
		case reflect.Ptr, reflect.Interface:
			if v.IsNil() {
				return reflect.Value{}, ErrReflectNilValue
			}
			v = v.Elem()
		default:
			return v, nil
		}
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return reflect.Value{}, ErrReflectTooDeep
	}
	return v, nil
}
