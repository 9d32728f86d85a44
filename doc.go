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

// Package rpc2 provides a global, process-wide declarative RPC binding
// for data records.
//
// A record type declares, per CRUD verb, which remote method to call and
// a parameter template describing the payload shape. Templates name
// record attributes with "attributes.<field>" strings that are filled in
// from the live record when an operation runs. Types inherit from each
// other: a child's options are completed from its ancestors by a deep,
// gap-filling merge that treats some subtrees (headers, each verb's
// method entry) as indivisible.
//
// # Design
//
// The core of rpc2 is a read-mostly global snapshot (state). The snapshot
// holds:
//
//   - Config: the options root key, the atomic paths of the merge, the
//     unknown verb policy and whether types resolve on registration.
//
//   - Registry: the declared record types and their ancestor chains.
//     Each type is merged with its ancestors at most once.
//
//   - Templater: builds payloads from parameter templates. It reads
//     record attributes through a chain of strategies:
//     1. If the record implements apis.Record, use Get(field).
//     2. If the record is a map[string]any, use the key or a dotted path.
//     3. Otherwise read an exported struct field by json tag or name.
//
//   - Builder: constructs Registry and Templater for a Config. Declared
//     types are carried over when the registry is rebuilt.
//
//   - Transport: performs the remote call. rpc2 never encodes requests
//     or talks to the network itself.
//
// Readers load the current snapshot atomically and never take locks.
// Writers serialize on a build mutex, assemble a new snapshot and swap
// it in.
//
// # Usage
//
//	opts := apis.NewMap().
//		Set("methods", apis.NewMap().
//			Set("create", apis.NewMap().
//				Set("method", apis.String("user.create")).
//				Set("params", apis.NewMap().
//					Set("name", apis.String("attributes.name")))))
//
//	_ = rpc2.Register(apis.Schema{Name: "user", Extends: apis.BaseModel, Options: opts})
//	rpc2.SetTransport(myTransport)
//
//	res, err := rpc2.Do(ctx, "user", apis.Create, map[string]any{"name": "Alice"})
//
// The call above reaches the transport as method "user.create" with
// params {"name": "Alice"} and the url and headers inherited from
// apis.BaseModel.
//
// # Pinning
//
// SetRegistry and SetTemplater install a component and pin it: later
// SetConfig or SetBuilder calls leave a pinned layer alone until it is
// unpinned with UnpinRegistry or UnpinTemplater.
package rpc2
