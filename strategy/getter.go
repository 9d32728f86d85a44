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
)

// NewGetterStrategy creates an apis.Strategy that uses apis.Record.
func NewGetterStrategy() apis.Strategy {
	return &getterStrategy{}
}

// getterStrategy is the fast path: if the record implements apis.Record,
// its own Get decides and the chain stops.
type getterStrategy struct{}

// Ensure getterStrategy implements apis.Strategy.
var _ apis.Strategy = (*getterStrategy)(nil)

// TryGet checks if record implements apis.Record and returns its Get(field).
func (*getterStrategy) TryGet(record any, field string) (any, bool) {
	if record == nil {
		return nil, false
	}
	r, ok := record.(apis.Record)
	if !ok {
		return nil, false
	}
	if v, ok := r.Get(field); ok {
		return v, true
	}
	return nil, true
}
