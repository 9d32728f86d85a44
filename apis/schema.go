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

// BaseModel names the base record type every default snapshot carries.
const BaseModel = "rpc2.Model"

// Schema declares a record type: its name, optional ancestor, and its own
// options tree. Declared trees are never mutated by resolution.
type Schema struct {
	// Name identifies the record type.
	Name string
	// Extends names the ancestor type; empty for a root type.
	Extends string
	// Options is the type's own options tree.
	Options *Map
}

// DefaultOptions returns the options of BaseModel: one method per verb
// named after the verb, with id/name parameters.
func DefaultOptions() *Map {
	return NewMap().
		Set(KeyURL, Literal{Value: "path/to/my/rpc/handler"}).
		Set(KeyHeaders, NewMap()).
		Set(KeyMethods, NewMap().
			Set(string(Create), NewMap().
				Set(KeyMethod, Literal{Value: "create"}).
				Set(KeyParams, NewMap().
					Set("name", Reference{Field: "name"}))).
			Set(string(Read), NewMap().
				Set(KeyMethod, Literal{Value: "read"}).
				Set(KeyParams, NewMap().
					Set("id", Reference{Field: "id"}))).
			Set(string(Update), NewMap().
				Set(KeyMethod, Literal{Value: "update"}).
				Set(KeyParams, NewMap().
					Set("id", Reference{Field: "id"}).
					Set("name", Reference{Field: "name"}))).
			Set(string(Delete), NewMap().
				Set(KeyMethod, Literal{Value: "delete"}).
				Set(KeyParams, NewMap().
					Set("id", Reference{Field: "id"}))))
}
