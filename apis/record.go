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

package apis

// Record is the accessor a data record may implement to expose its
// attributes. Field is passed whole; composite names follow the record's
// own convention.
type Record interface {
	Get(field string) (value any, ok bool)
}

// Identifier is implemented by records that can name themselves in logs.
type Identifier interface {
	// EntityName returns the kind of record, e.g. "domain.user".
	EntityName() string
	// EntityID returns the identity of this instance.
	EntityID() string
}

// Strategy is a pluggable record access step. A Resolver chains multiple
// strategies in order (e.g., Getter -> Mapping -> Reflect).
type Strategy interface {
	// TryGet reads field from record. handled is false when the strategy
	// does not understand the record's type, letting the next one try.
	// A handled lookup of a missing field returns (nil, true).
	TryGet(record any, field string) (value any, handled bool)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(record any, field string) (any, bool)

// TryGet implements Strategy.
func (f StrategyFunc) TryGet(record any, field string) (any, bool) {
	return f(record, field)
}
