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

// Resolver reads record attributes for attribute references.
// Typical chain: GetterStrategy -> MappingStrategy -> ReflectStrategy.
type Resolver interface {
	// Resolve returns the value of field on record, or ok=false when no
	// strategy found it.
	Resolve(record any, field string) (value any, ok bool)
}

// Templater turns a parameter template into a concrete payload.
type Templater interface {
	// Build evaluates template against record. It never fails:
	// unresolved references stay in place as their template string.
	Build(template Node, record any) Payload
}

// Payload is a built parameter value: an ordered map, a []any, or
// whatever a top-level Computed returned.
type Payload = any

// Merger fills gaps in a child options tree from an ancestor tree.
type Merger interface {
	// Merge mutates and returns child. at is the path of child within the
	// whole options tree.
	Merge(child, parent *Map, at Path) *Map
	// Chain clones own and merges it against each ancestor in order,
	// nearest first.
	Chain(own *Map, ancestors ...*Map) *Map
}
