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

package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/rpc2/apis"
	"dirpx.dev/rpc2/config"
	"dirpx.dev/rpc2/registry"
)

func lit(v any) apis.Node { return apis.Literal{Value: v} }

func base() apis.Schema {
	return apis.Schema{Name: "base", Options: apis.DefaultOptions()}
}

func TestRegister_IdempotentAndLookup(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	require.NoError(t, reg.Register(base()))
	// idempotent re-register with an equal schema
	require.NoError(t, reg.Register(base()))

	s, ok := reg.Lookup("base")
	require.True(t, ok)
	assert.Equal(t, "base", s.Name)
	assert.True(t, apis.Equal(s.Options, apis.DefaultOptions()))

	// handed-out schemas are copies
	s.Options.Set("url", lit("/mutated"))
	again, _ := reg.Lookup("base")
	assert.True(t, apis.Equal(again.Options, apis.DefaultOptions()), "Lookup returned a shared tree")

	assert.Equal(t, 1, reg.Count())
}

func TestRegister_Conflict(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	require.NoError(t, reg.Register(base()))

	other := base()
	other.Options.Set("url", lit("/other"))
	assert.ErrorIs(t, reg.Register(other), registry.ErrConflictingRegistration)
}

func TestRegister_Errors(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	assert.ErrorIs(t, reg.Register(apis.Schema{}), registry.ErrEmptyName)
	assert.ErrorIs(t, reg.Register(apis.Schema{Name: "a", Extends: "a"}), registry.ErrSelfExtends)
	assert.ErrorIs(t, reg.Register(apis.Schema{Name: "a", Extends: "ghost"}), registry.ErrUnknownParent)
	_, err := reg.Resolve("ghost")
	assert.ErrorIs(t, err, registry.ErrUnknownType)
	assert.Equal(t, 0, reg.Count(), "failed registrations must not be stored")
}

func TestRegister_NilOptionsIsEmptyTree(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	require.NoError(t, reg.Register(base()))
	require.NoError(t, reg.Register(apis.Schema{Name: "child", Extends: "base"}))

	opts, err := reg.Resolve("child")
	require.NoError(t, err)
	op, _ := opts.Operation(apis.Read)
	assert.Equal(t, "read", op.Method)
}

func TestAncestors(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	for _, s := range []apis.Schema{
		{Name: "a"},
		{Name: "b", Extends: "a"},
		{Name: "c", Extends: "b"},
	} {
		require.NoError(t, reg.Register(s), s.Name)
	}

	got, ok := reg.Ancestors("c")
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, got)

	got, _ = reg.Ancestors("a")
	assert.Empty(t, got)

	_, ok = reg.Ancestors("zzz")
	assert.False(t, ok)
}

func TestResolve_ThreeLevelInheritance(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	grandparent := apis.Schema{Name: "gp", Options: apis.NewMap().
		Set("methods", apis.NewMap().
			Set("read", apis.NewMap().Set("method", lit("read"))))}
	parent := apis.Schema{Name: "parent", Extends: "gp", Options: apis.NewMap().
		Set("methods", apis.NewMap().
			Set("update", apis.NewMap().
				Set("params", apis.NewMap().Set("extra", lit("x")))))}
	child := apis.Schema{Name: "child", Extends: "parent"}

	require.NoError(t, reg.RegisterAll(child, parent, grandparent))
	opts, err := reg.Resolve("child")
	require.NoError(t, err)

	op, ok := opts.Operation(apis.Read)
	require.True(t, ok)
	assert.Equal(t, "read", op.Method)

	up, ok := opts.Operation(apis.Update)
	require.True(t, ok)
	extra, ok := up.Params.(*apis.Map).Get("extra")
	require.True(t, ok)
	assert.Equal(t, lit("x"), extra)
}

func TestResolve_ResultsAreIndependent(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	require.NoError(t, reg.Register(base()))

	first, err := reg.Resolve("base")
	require.NoError(t, err)
	first.Methods[apis.Create] = apis.Operation{Method: "hijacked"}
	first.Headers["X"] = "leak"
	first.Tree.Set("url", lit("/mutated"))
	read, _ := first.Operation(apis.Read)
	read.Params.(*apis.Map).Set("injected", lit(true))

	second, err := reg.Resolve("base")
	require.NoError(t, err)
	op, _ := second.Operation(apis.Create)
	assert.Equal(t, "create", op.Method)
	assert.Empty(t, second.Headers)
	assert.Equal(t, "path/to/my/rpc/handler", second.URL)
	assert.True(t, apis.Equal(apis.DefaultOptions(), second.Tree), "resolved tree changed: %s", second.Tree)
	assert.NotSame(t, first.Tree, second.Tree)

	// Params of a result point into that result's own tree
	read, _ = second.Operation(apis.Read)
	n, ok := second.Tree.Lookup(apis.ParsePath("methods.read.params"))
	require.True(t, ok)
	assert.Same(t, n.(*apis.Map), read.Params.(*apis.Map))
}

func TestResolve_InvalidOptions(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	bad := apis.Schema{Name: "bad", Options: apis.NewMap().Set("url", lit(42))}
	require.NoError(t, reg.Register(bad), "lazy Register should not resolve")
	_, err := reg.Resolve("bad")
	assert.ErrorIs(t, err, apis.ErrInvalidOptions)

	eager := registry.New(config.NewConfig(config.WithEagerResolve(true)))
	assert.ErrorIs(t, eager.Register(bad), apis.ErrInvalidOptions)
	assert.Equal(t, 0, eager.Count(), "eager Register stored an invalid schema")
}

func TestRegisterAll_OrderAndErrors(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	require.NoError(t, reg.RegisterAll(
		apis.Schema{Name: "c", Extends: "b"},
		apis.Schema{Name: "b", Extends: "a"},
		apis.Schema{Name: "a"},
	))
	var names []string
	for _, s := range reg.Entries() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)

	cyc := registry.New(config.DefaultConfig())
	err := cyc.RegisterAll(
		apis.Schema{Name: "x", Extends: "y"},
		apis.Schema{Name: "y", Extends: "x"},
	)
	assert.ErrorIs(t, err, registry.ErrInheritanceCycle)

	orphan := registry.New(config.DefaultConfig())
	assert.ErrorIs(t, orphan.RegisterAll(apis.Schema{Name: "x", Extends: "nobody"}), registry.ErrUnknownParent)
}

func TestReset(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	require.NoError(t, reg.Register(base()))
	snap := reg.Entries()

	reg.Reset()

	assert.Equal(t, 0, reg.Count())
	assert.Len(t, snap, 1, "snapshot changed after Reset")
	_, ok := reg.Lookup("base")
	assert.False(t, ok)
}
