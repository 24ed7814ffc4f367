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
	"reflect"

	"dirpx.dev/gridx/apis"
	"dirpx.dev/gridx/config"
	"dirpx.dev/gridx/diagnostic"
	uref "dirpx.dev/gridx/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("gridx(registry): nil reflect.Type provided")
	// ErrNotAView is returned when the view type implements apis.View neither
	// directly nor through its pointer.
	ErrNotAView = errors.New("gridx(registry): view type does not implement apis.View")
	// ErrConflictingRegistration indicates an attempt to re-register a
	// (model, kind) pair with a different view while StrictRegistration is on.
	ErrConflictingRegistration = errors.New("gridx(registry): conflicting mapping registration")
)

var viewInterface = reflect.TypeFor[apis.View]()

// Option configures a registry at construction.
type Option func(*registry)

// WithSink routes registry diagnostics to s.
func WithSink(s diagnostic.Sink) Option {
	return func(r *registry) {
		r.sink = diagnostic.OrDiscard(s)
	}
}

// New constructs a Registry that canonicalizes model types according to cfg.
func New(cfg apis.Config, opts ...Option) apis.Registry {
	r := &registry{
		cfg:   config.Sanitize(cfg),
		sink:  diagnostic.Discard,
		hier:  uref.NewHierarchy(),
		index: make(map[key]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// key identifies a mapping: canonical model type plus kind.
type key struct {
	model reflect.Type
	kind  string
}

// registry is a plain map-backed Registry. It is owned by a single hosting
// controller and is not safe for concurrent use.
type registry struct {
	// cfg is the configuration used for canonicalization and conflicts.
	cfg apis.Config
	// sink receives replacement notices.
	sink diagnostic.Sink
	// hier is the type-description table.
	hier *uref.Hierarchy
	// index maps a key to its position in entries.
	index map[key]int
	// entries holds mappings in registration order.
	entries []apis.Mapping
}

// Ensure registry implements apis.Registry.
var _ apis.Registry = (*registry)(nil)

// Register associates the canonical form of model with view.
// A second registration for the same (model, kind) silently replaces the
// first, keeping its registration slot, unless cfg.StrictRegistration is set.
func (r *registry) Register(view, model reflect.Type, opts ...apis.MappingOption) error {
	// Validate inputs early.
	if view == nil || model == nil {
		return ErrNilType
	}
	if !implementsView(view) {
		return fmt.Errorf("%w: %v", ErrNotAView, view)
	}

	canonical, err := r.Canonical(model)
	if err != nil {
		return fmt.Errorf("gridx(registry): register %v: %w", model, err)
	}

	m := apis.Mapping{
		Model: canonical,
		Kind:  apis.KindItem,
		View: apis.ViewType{
			Type:   view,
			Origin: apis.OriginClass,
		},
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.View.ReuseIdentifier == "" {
		m.View.ReuseIdentifier = uref.Name(view)
	}

	k := key{model: canonical, kind: m.Kind}
	if i, ok := r.index[k]; ok {
		old := r.entries[i]
		if old.View == m.View {
			return nil // idempotent re-registration
		}
		if r.cfg.StrictRegistration {
			return ErrConflictingRegistration
		}
		r.entries[i] = m
		r.sink.Report(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityInfo,
			Code:     diagnostic.CodeMappingReplaced,
			Message: fmt.Sprintf("mapping for %s replaced: %s -> %s",
				uref.Name(canonical), old.View.ReuseIdentifier, m.View.ReuseIdentifier),
			Kind:  m.Kind,
			Model: uref.Name(canonical),
		})
		return nil
	}

	r.index[k] = len(r.entries)
	r.entries = append(r.entries, m)
	return nil
}

// Lookup returns the mapping registered for exactly (model, kind).
func (r *registry) Lookup(model reflect.Type, kind string) (apis.Mapping, bool) {
	if model == nil {
		return apis.Mapping{}, false
	}
	canonical, err := r.Canonical(model)
	if err != nil {
		return apis.Mapping{}, false
	}
	if i, ok := r.index[key{model: canonical, kind: kind}]; ok {
		return r.entries[i], true
	}
	return apis.Mapping{}, false
}

// Declare records parent as the nearest ancestor of child. Both are canonicalized.
func (r *registry) Declare(child, parent reflect.Type) error {
	if child == nil || parent == nil {
		return ErrNilType
	}
	c, err := r.Canonical(child)
	if err != nil {
		return fmt.Errorf("gridx(registry): declare %v: %w", child, err)
	}
	p, err := r.Canonical(parent)
	if err != nil {
		return fmt.Errorf("gridx(registry): declare %v: %w", parent, err)
	}
	return r.hier.Declare(c, p)
}

// Declarations returns the explicit table entries in declaration order.
func (r *registry) Declarations() []apis.Declaration {
	decl := r.hier.Declared()
	out := make([]apis.Declaration, 0, len(decl))
	for _, d := range decl {
		out = append(out, apis.Declaration{Child: d[0], Parent: d[1]})
	}
	return out
}

// Ancestors returns the ancestry of t's canonical form, nearest first.
func (r *registry) Ancestors(t reflect.Type) []reflect.Type {
	c, err := r.Canonical(t)
	if err != nil {
		return nil
	}
	return r.hier.Ancestors(c)
}

// Canonical returns the registry key for t.
func (r *registry) Canonical(t reflect.Type) (reflect.Type, error) {
	return uref.Normalize(t, r.cfg)
}

// Entries returns a snapshot of all mappings in registration order.
func (r *registry) Entries() []apis.Mapping {
	out := make([]apis.Mapping, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	return len(r.entries)
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.index = make(map[key]int)
	r.entries = nil
}

func implementsView(t reflect.Type) bool {
	if t.Implements(viewInterface) {
		return true
	}
	return t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface &&
		reflect.PointerTo(t).Implements(viewInterface)
}
