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

package builder

import (
	"github.com/golang/glog"

	"dirpx.dev/rpc2/apis"
	"dirpx.dev/rpc2/params"
	"dirpx.dev/rpc2/registry"
	"dirpx.dev/rpc2/resolver"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry based on the provided configuration
// and pre-existing registry. If a pre-existing registry is provided, its schemas are
// re-registered into the new registry in their original order, so resolutions are
// recomputed under cfg.
func (b *builder) BuildRegistry(cfg apis.Config, prev apis.Registry) apis.Registry {
	nreg := registry.New(cfg)
	if prev != nil {
		for _, s := range prev.Entries() {
			if err := nreg.Register(s); err != nil {
				glog.Warningf("[builder]drop %s during migration: %v\n", s.Name, err)
			}
		}
	}
	return nreg
}

// BuildTemplater builds and returns a new apis.Templater using the default
// record access chain.
func (b *builder) BuildTemplater(_ apis.Config) apis.Templater {
	return params.New(resolver.Default())
}
