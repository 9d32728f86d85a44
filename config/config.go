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

package config

import (
	"dirpx.dev/rpc2/apis"
)

const (
	// DefaultRootKey is the first token of every options tree path.
	DefaultRootKey = "rpcOptions"
	// DefaultUnknownVerb keeps unrecognized verbs a silent no-op.
	DefaultUnknownVerb = apis.UnknownVerbIgnore
	// DefaultEagerResolve defers resolution to first use.
	DefaultEagerResolve = false
)

// DefaultAtomicPaths returns the subtrees inherited whole by default:
// the headers map and each verb's operation.
func DefaultAtomicPaths(root string) []apis.Path {
	methods := apis.Path{root, apis.KeyMethods}
	return []apis.Path{
		{root, apis.KeyHeaders},
		methods.Child(string(apis.Create)),
		methods.Child(string(apis.Read)),
		methods.Child(string(apis.Update)),
		methods.Child(string(apis.Delete)),
	}
}

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure RootKey is valid.
	if cfg.RootKey == "" {
		cfg.RootKey = DefaultRootKey
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		RootKey:      DefaultRootKey,
		AtomicPaths:  apis.NewPathSet(DefaultAtomicPaths(DefaultRootKey)...),
		UnknownVerb:  DefaultUnknownVerb,
		EagerResolve: DefaultEagerResolve,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithRootKey sets the RootKey option and re-roots the default atomic
// paths when they are still in use. An empty key resets to the default.
func WithRootKey(key string) Option {
	return func(c *apis.Config) {
		if key == "" {
			key = DefaultRootKey
		}
		if sameSet(c.AtomicPaths, DefaultAtomicPaths(c.RootKey)) {
			c.AtomicPaths = apis.NewPathSet(DefaultAtomicPaths(key)...)
		}
		c.RootKey = key
	}
}

// WithAtomicPaths replaces the atomic path set. Paths are dotted. A
// two-token path ("methods.create", "rpcOptions.headers") matches the
// last (parent key, key) pair of a position at any depth; longer paths
// must match from the root key ("rpcOptions.methods.create").
func WithAtomicPaths(paths ...string) Option {
	return func(c *apis.Config) {
		ps := make([]apis.Path, 0, len(paths))
		for _, p := range paths {
			ps = append(ps, apis.ParsePath(p))
		}
		c.AtomicPaths = apis.NewPathSet(ps...)
	}
}

// WithExtraAtomicPaths adds paths to the current atomic path set.
func WithExtraAtomicPaths(paths ...string) Option {
	return func(c *apis.Config) {
		ps := make([]apis.Path, 0, len(paths))
		for _, p := range paths {
			ps = append(ps, apis.ParsePath(p))
		}
		c.AtomicPaths = c.AtomicPaths.With(ps...)
	}
}

// WithUnknownVerb sets the UnknownVerb option.
func WithUnknownVerb(p apis.UnknownVerbPolicy) Option {
	return func(c *apis.Config) {
		c.UnknownVerb = p
	}
}

// WithEagerResolve sets the EagerResolve option.
func WithEagerResolve(eager bool) Option {
	return func(c *apis.Config) {
		c.EagerResolve = eager
	}
}

// ParseUnknownVerb maps "ignore"/"reject" to a policy.
func ParseUnknownVerb(s string) (apis.UnknownVerbPolicy, bool) {
	switch s {
	case "ignore", "":
		return apis.UnknownVerbIgnore, true
	case "reject":
		return apis.UnknownVerbReject, true
	default:
		return 0, false
	}
}

func sameSet(s apis.PathSet, paths []apis.Path) bool {
	if s.Len() != len(paths) {
		return false
	}
	for _, p := range paths {
		if !s.Contains(p) {
			return false
		}
	}
	return true
}
