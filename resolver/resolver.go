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

package resolver

import (
	"strings"

	"dirpx.dev/rpc2/apis"
	"dirpx.dev/rpc2/strategy"
)

// Field strips apis.AttributePrefix from s. ok is false for strings that
// are not attribute references; those are literal configuration values.
func Field(s string) (field string, ok bool) {
	if !strings.HasPrefix(s, apis.AttributePrefix) {
		return "", false
	}
	return s[len(apis.AttributePrefix):], true
}

// Default returns the standard chain: Getter -> Mapping -> Reflect.
func Default() apis.Resolver {
	return New(
		strategy.NewGetterStrategy(),
		strategy.NewMappingStrategy(),
		strategy.NewReflectStrategy(),
	)
}

// New constructs an apis.Resolver that tries the given strategies in order.
// Nil strategies are ignored. The returned resolver is safe for concurrent use
// provided strategies themselves are safe for concurrent TryGet calls.
func New(strategies ...apis.Strategy) apis.Resolver {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return chain{strats: out}
}

// chain is an immutable, order-preserving resolver over a set of strategies.
type chain struct {
	strats []apis.Strategy
}

// Resolve runs strategies in order until one handles the record.
// The handling strategy decides; later strategies are not consulted.
func (r chain) Resolve(record any, field string) (any, bool) {
	for _, s := range r.strats {
		if v, handled := s.TryGet(record, field); handled {
			return v, v != nil
		}
	}
	return nil, false
}
