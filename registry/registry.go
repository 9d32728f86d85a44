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

package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang/glog"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"dirpx.dev/rpc2/apis"
	"dirpx.dev/rpc2/merger"
)

var (
	// ErrEmptyName is returned when a schema has no name.
	ErrEmptyName = errors.New("rpc2(registry): empty name provided")
	// ErrSelfExtends is returned when a schema names itself as ancestor.
	ErrSelfExtends = errors.New("rpc2(registry): schema extends itself")
	// ErrUnknownParent is returned when a schema's ancestor is not registered.
	ErrUnknownParent = errors.New("rpc2(registry): unknown parent type")
	// ErrInheritanceCycle is returned by RegisterAll for cyclic extends chains.
	ErrInheritanceCycle = errors.New("rpc2(registry): inheritance cycle")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different schema.
	ErrConflictingRegistration = errors.New("rpc2(registry): conflicting type registration")
	// ErrUnknownType is returned when resolving a type that is not registered.
	ErrUnknownType = errors.New("rpc2(registry): unknown type")
)

// New constructs a Registry resolving options according to cfg.
func New(cfg apis.Config) apis.Registry {
	return &registry{
		cfg: cfg,
		mg:  merger.New(cfg),
		m:   orderedmap.New[string, *entry](),
	}
}

// registry keeps schemas in registration order. Parents always precede
// their children.
type registry struct {
	// cfg is the configuration used for resolution.
	cfg apis.Config
	// mg merges a type's tree with its ancestors' trees.
	mg apis.Merger
	// mu guards m.
	mu sync.RWMutex
	// m maps type name to entry.
	m *orderedmap.OrderedMap[string, *entry]
}

// entry is one registered type. Resolution happens at most once.
type entry struct {
	schema apis.Schema
	// chain holds the ancestor entries, nearest first.
	chain []*entry

	once sync.Once
	opts apis.Options
	err  error
}

// Register validates s, computes its ancestor chain and stores it.
// It is idempotent for an equal (name, extends, options) schema.
func (r *registry) Register(s apis.Schema) error {
	// Validate inputs early.
	if s.Name == "" {
		return ErrEmptyName
	}
	if s.Extends == s.Name {
		return fmt.Errorf("%w: %s", ErrSelfExtends, s.Name)
	}
	if s.Options == nil {
		s.Options = apis.NewMap()
	} else {
		s.Options = s.Options.Clone()
	}

	r.mu.Lock()
	if old, ok := r.m.Get(s.Name); ok {
		r.mu.Unlock()
		if sameSchema(old.schema, s) {
			return nil // idempotent re-registration
		}
		return fmt.Errorf("%w: %s", ErrConflictingRegistration, s.Name)
	}

	e := &entry{schema: s}
	if s.Extends != "" {
		parent, ok := r.m.Get(s.Extends)
		if !ok {
			r.mu.Unlock()
			return fmt.Errorf("%w: %s extends %s", ErrUnknownParent, s.Name, s.Extends)
		}
		e.chain = append([]*entry{parent}, parent.chain...)
	}

	if r.cfg.EagerResolve {
		// ancestors are immutable, resolving under the write lock is safe
		r.resolve(e)
		if e.err != nil {
			r.mu.Unlock()
			return e.err
		}
	}

	r.m.Set(s.Name, e)
	r.mu.Unlock()

	if glog.V(1) {
		glog.Infof("[registry]register %s ancestors=%v\n", s.Name, e.ancestors())
	}
	return nil
}

// RegisterAll registers schemas so that every parent precedes its
// children. Parents may be already registered or part of schemas.
func (r *registry) RegisterAll(schemas ...apis.Schema) error {
	byName := make(map[string]apis.Schema, len(schemas))
	for _, s := range schemas {
		if s.Name == "" {
			return ErrEmptyName
		}
		byName[s.Name] = s
	}

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(schemas))
	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: through %s", ErrInheritanceCycle, name)
		}
		s := byName[name]
		state[name] = visiting
		if s.Extends != "" && s.Extends != s.Name {
			if _, local := byName[s.Extends]; local {
				if err := visit(s.Extends); err != nil {
					return err
				}
			}
		}
		if err := r.Register(s); err != nil {
			return err
		}
		state[name] = done
		return nil
	}

	for _, s := range schemas {
		if err := visit(s.Name); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the declared schema of name.
func (r *registry) Lookup(name string) (apis.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.m.Get(name)
	if !ok {
		return apis.Schema{}, false
	}
	return e.declared(), true
}

// Ancestors returns the ancestor names of name, nearest first.
func (r *registry) Ancestors(name string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.m.Get(name)
	if !ok {
		return nil, false
	}
	return e.ancestors(), true
}

// Resolve returns the resolved options of name. Concurrent callers share
// a single resolution; each receives its own copy of it.
func (r *registry) Resolve(name string) (apis.Options, error) {
	r.mu.RLock()
	e, ok := r.m.Get(name)
	r.mu.RUnlock()
	if !ok {
		return apis.Options{}, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	r.resolve(e)
	if e.err != nil {
		return apis.Options{}, e.err
	}
	return e.opts.Clone(), nil
}

// resolve merges e's own tree with its ancestors' declared trees once.
func (r *registry) resolve(e *entry) {
	e.once.Do(func() {
		trees := make([]*apis.Map, len(e.chain))
		for i, a := range e.chain {
			trees[i] = a.schema.Options
		}
		tree := r.mg.Chain(e.schema.Options, trees...)
		opts, err := apis.DecodeOptions(tree)
		if err != nil {
			e.err = fmt.Errorf("%s: %w", e.schema.Name, err)
			return
		}
		e.opts = opts
		if glog.V(2) {
			glog.Infof("[registry]resolved %s = %s\n", e.schema.Name, tree)
		}
	})
}

// Entries returns the declared schemas in registration order.
func (r *registry) Entries() []apis.Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]apis.Schema, 0, r.m.Len())
	for p := r.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value.declared())
	}
	return out
}

// Count returns the number of registered types.
func (r *registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.m.Len()
}

// Reset clears all registered types.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m = orderedmap.New[string, *entry]()
}

// declared returns a copy of the schema safe to hand out.
func (e *entry) declared() apis.Schema {
	s := e.schema
	s.Options = s.Options.Clone()
	return s
}

func (e *entry) ancestors() []string {
	out := make([]string, len(e.chain))
	for i, a := range e.chain {
		out[i] = a.schema.Name
	}
	return out
}

func sameSchema(a, b apis.Schema) bool {
	return a.Name == b.Name && a.Extends == b.Extends && apis.Equal(a.Options, b.Options)
}
