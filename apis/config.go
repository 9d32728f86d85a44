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

// UnknownVerbPolicy decides what a dispatcher does with a verb outside
// create/read/update/delete.
type UnknownVerbPolicy uint8

const (
	// UnknownVerbIgnore drops the request: no transport call, no callback.
	UnknownVerbIgnore UnknownVerbPolicy = iota
	// UnknownVerbReject reports ErrUnknownVerb through the error path.
	UnknownVerbReject
)

// String returns the flag spelling of the policy.
func (p UnknownVerbPolicy) String() string {
	switch p {
	case UnknownVerbIgnore:
		return "ignore"
	case UnknownVerbReject:
		return "reject"
	default:
		return "unknown"
	}
}

// Config carries read-only knobs for resolution and dispatch.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// RootKey is the first token of every path into an options tree.
	RootKey string

	// AtomicPaths lists subtrees that are inherited whole, never merged
	// key by key. Paths start with RootKey.
	AtomicPaths PathSet

	// UnknownVerb selects the dispatch policy for unrecognized verbs.
	UnknownVerb UnknownVerbPolicy

	// EagerResolve makes registries resolve a type's options at
	// registration instead of on first use.
	EagerResolve bool
}
