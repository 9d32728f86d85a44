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
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/rpc2/apis"
	"dirpx.dev/rpc2/config"
	"dirpx.dev/rpc2/registry"
)

// TestConcurrentResolve verifies that concurrent first use yields the same
// resolution for every caller, each with a tree of its own.
func TestConcurrentResolve(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	require.NoError(t, reg.Register(apis.Schema{Name: "base", Options: apis.DefaultOptions()}))
	require.NoError(t, reg.Register(apis.Schema{Name: "user", Extends: "base"}))

	workers := runtime.GOMAXPROCS(0) * 4
	trees := make([]*apis.Map, workers)

	wg := sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				opts, err := reg.Resolve("user")
				if !assert.NoError(t, err) {
					return
				}
				// callers own their copy
				opts.Headers["X-Worker"] = fmt.Sprint(id)
				trees[id] = opts.Tree
			}
		}(w)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.True(t, apis.Equal(trees[0], trees[i]), "worker %d saw a different resolution", i)
		assert.NotSame(t, trees[0], trees[i])
	}
}

// TestConcurrentRegisterAndResolve verifies that Register/Resolve/Entries/Count
// are race-free and consistent under concurrent use.
func TestConcurrentRegisterAndResolve(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	require.NoError(t, reg.Register(apis.Schema{Name: "base", Options: apis.DefaultOptions()}))

	const types = 10
	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4

	// Writers (idempotent re-register)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				name := fmt.Sprintf("T%d", (i+id)%types)
				if !assert.NoError(t, reg.Register(apis.Schema{Name: name, Extends: "base"}), name) {
					return
				}
			}
		}(w)
	}

	// Readers
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if _, err := reg.Resolve("base"); !assert.NoError(t, err) {
					return
				}
				_ = reg.Count()
				_ = reg.Entries()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, types+1, reg.Count())
	for i := 0; i < types; i++ {
		opts, err := reg.Resolve(fmt.Sprintf("T%d", i))
		require.NoError(t, err)
		op, _ := opts.Operation(apis.Create)
		assert.Equal(t, "create", op.Method, "T%d", i)
	}
}
