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

package rpc2

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"dirpx.dev/rpc2/apis"
	"dirpx.dev/rpc2/builder"
	"dirpx.dev/rpc2/config"
	"dirpx.dev/rpc2/dispatch"
)

// init publishes the default snapshot with apis.BaseModel registered.
func init() {
	s := &state{cfg: config.DefaultConfig(), bld: builder.New()}
	s.reg = s.bld.BuildRegistry(s.cfg, nil)
	s.tpl = s.bld.BuildTemplater(s.cfg)
	if err := s.reg.Register(apis.Schema{Name: apis.BaseModel, Options: apis.DefaultOptions()}); err != nil {
		panic(err)
	}
	publish(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("rpc2: builder returned nil registry")
	// ErrNilTemplater is returned when a builder returns a nil templater.
	ErrNilTemplater = errors.New("rpc2: builder returned nil templater")
)

// Callbacks receive the outcome of Dispatch.
type Callbacks = dispatch.Callbacks

// Register declares a record type in the global registry.
func Register(s apis.Schema) error {
	return st.Load().reg.Register(s)
}

// RegisterAll declares several record types, parents first.
func RegisterAll(schemas ...apis.Schema) error {
	return st.Load().reg.RegisterAll(schemas...)
}

// Resolve returns the merged options of the named record type.
func Resolve(name string) (apis.Options, error) {
	return st.Load().reg.Resolve(name)
}

// Do performs verb for a record of the named type and waits for the
// transport outcome.
func Do(ctx context.Context, name string, verb apis.Verb, record any) (any, error) {
	s := st.Load()
	opts, err := s.reg.Resolve(name)
	if err != nil {
		return nil, err
	}
	return s.dsp.Do(ctx, opts, verb, record)
}

// Dispatch performs verb for a record of the named type in the
// background. See dispatch.Dispatcher.Dispatch. A type that cannot be
// resolved is reported to cb.Error.
func Dispatch(ctx context.Context, name string, verb apis.Verb, record any, cb Callbacks) <-chan struct{} {
	s := st.Load()
	opts, err := s.reg.Resolve(name)
	if err != nil {
		done := make(chan struct{})
		go func() {
			defer close(done)
			if cb.Error != nil {
				cb.Error(err)
			}
		}()
		return done
	}
	return s.dsp.Dispatch(ctx, opts, verb, record, cb)
}

// SetAll replaces several global components at once.
//
// Nil arguments leave the corresponding component unchanged, except that
// a nil reg or tpl is rebuilt by the (possibly new) builder. Passing a
// non-nil reg or tpl pins it; passing nil unpins it.
func SetAll(cfg *apis.Config, reg apis.Registry, tpl apis.Templater, bld apis.Builder, tr apis.Transport) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	s := &state{cfg: old.cfg, bld: old.bld, tr: old.tr}
	if cfg != nil {
		s.cfg = *cfg
	}
	if bld != nil {
		s.bld = bld
	}
	if tr != nil {
		s.tr = tr
	}

	s.reg, s.preg = reg, reg != nil
	if s.reg == nil {
		s.reg = s.bld.BuildRegistry(s.cfg, old.reg)
	}
	s.tpl, s.ptpl = tpl, tpl != nil
	if s.tpl == nil {
		s.tpl = s.bld.BuildTemplater(s.cfg)
	}
	publish(s)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig replaces the global configuration and rebuilds the layers
// that are not pinned. Declared types carry over to the new registry.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	s := old.clone()
	s.cfg = cfg
	s.rebuild(old)
	publish(s)
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry installs reg as the global registry and pins it.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	s := st.Load().clone()
	s.reg, s.preg = reg, true
	publish(s)
}

// Templater returns the global parameter templater.
func Templater() apis.Templater {
	return st.Load().tpl
}

// SetTemplater installs tpl as the global templater and pins it.
func SetTemplater(tpl apis.Templater) {
	if tpl == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	s := st.Load().clone()
	s.tpl, s.ptpl = tpl, true
	publish(s)
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder replaces the global builder and rebuilds the layers that
// are not pinned with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	s := old.clone()
	s.bld = b
	s.rebuild(old)
	publish(s)
}

// Transport returns the global transport, or nil when none is set.
func Transport() apis.Transport {
	return st.Load().tr
}

// SetTransport installs tr as the global transport.
func SetTransport(tr apis.Transport) {
	buildMu.Lock()
	defer buildMu.Unlock()

	s := st.Load().clone()
	s.tr = tr
	publish(s)
}

// IsRegistryPinned reports whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// UnpinRegistry lets the next rebuild replace the global registry.
func UnpinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	s := st.Load().clone()
	s.preg = false
	publish(s)
}

// IsTemplaterPinned reports whether the global templater is pinned.
func IsTemplaterPinned() bool {
	return st.Load().ptpl
}

// UnpinTemplater lets the next rebuild replace the global templater.
func UnpinTemplater() {
	buildMu.Lock()
	defer buildMu.Unlock()

	s := st.Load().clone()
	s.ptpl = false
	publish(s)
}

// buildMu serializes writers so we never publish partially-built snapshots.
var buildMu sync.Mutex

// st is the global snapshot.
var st atomic.Pointer[state]

// state is an immutable snapshot published via st. Writers create a new
// state and swap it in.
type state struct {
	cfg apis.Config
	reg apis.Registry
	tpl apis.Templater
	bld apis.Builder
	tr  apis.Transport
	// dsp is derived from cfg, tpl and tr by publish.
	dsp *dispatch.Dispatcher
	// preg and ptpl mark layers set explicitly and left alone on rebuild.
	preg bool
	ptpl bool
}

func (s *state) clone() *state {
	c := *s
	c.dsp = nil
	return &c
}

// rebuild replaces the unpinned layers using s.bld and s.cfg.
func (s *state) rebuild(old *state) {
	if !s.preg {
		s.reg = s.bld.BuildRegistry(s.cfg, old.reg)
	}
	if !s.ptpl {
		s.tpl = s.bld.BuildTemplater(s.cfg)
	}
}

// publish validates s, derives its dispatcher and stores it.
func publish(s *state) {
	if s.reg == nil {
		panic(ErrNilRegistry)
	}
	if s.tpl == nil {
		panic(ErrNilTemplater)
	}
	s.dsp = dispatch.New(s.tr, s.tpl, s.cfg)
	st.Store(s)
}
