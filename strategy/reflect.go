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
	"dirpx.dev/rpc2/apis"
	uref "dirpx.dev/rpc2/utils/reflect"
)

// NewReflectStrategy creates an apis.Strategy that reads exported struct
// fields via reflection, matching json tag names first, then field names.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the universal fallback for plain Go structs.
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// TryGet reads field from a struct or pointer to struct.
func (reflectStrategy) TryGet(record any, field string) (any, bool) {
	if record == nil {
		return nil, false
	}
	v, ok, handled := uref.Field(record, field)
	if !handled {
		return nil, false
	}
	if !ok {
		return nil, true
	}
	return v, true
}
