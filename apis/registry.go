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

// Registry holds record type declarations and their resolved options.
// Implementations must be safe for concurrent use.
type Registry interface {
	// Register adds a schema. Its ancestor must already be registered.
	// Re-registering an equal schema is a no-op.
	Register(s Schema) error
	// RegisterAll registers schemas parents-first regardless of input order.
	RegisterAll(schemas ...Schema) error
	// Lookup returns the declared schema for name.
	Lookup(name string) (Schema, bool)
	// Ancestors returns the ancestor names of name, nearest first.
	Ancestors(name string) ([]string, bool)
	// Resolve returns the resolved options of name, computing them at
	// most once. Callers own the returned value and may modify it.
	Resolve(name string) (Options, error)
	// Entries returns the declared schemas in registration order.
	Entries() []Schema
	// Count returns the number of registered types.
	Count() int
	// Reset clears all registered types.
	Reset()
}
