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

package resolver

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"dirpx.dev/gridx/apis"
	"dirpx.dev/gridx/config"
	uref "dirpx.dev/gridx/utils/reflect"
)

var (
	// ErrNilModel is returned when resolving a nil model.
	ErrNilModel = errors.New("gridx(resolver): nil model")
	// ErrNoMapping is returned when no mapping exists for a model anywhere in
	// its ancestry. It signals a missing registration.
	ErrNoMapping = errors.New("gridx(resolver): no view mapping found")
)

// Error describes a resolution failure. It matches ErrNoMapping with errors.Is.
type Error struct {
	// Model is the type that failed to resolve.
	Model reflect.Type
	// Kind is the requested kind.
	Kind string
	// Suggestions lists registered model names close to Model's name.
	Suggestions []string
	// Cause is set when the type could not be canonicalized.
	Cause error
}

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(ErrNoMapping.Error())
	fmt.Fprintf(&b, " for %s", uref.Name(e.Model))
	if e.Kind != apis.KindItem {
		fmt.Fprintf(&b, " (kind %q)", e.Kind)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, "; did you mean %s?", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

// Unwrap exposes ErrNoMapping and the canonicalization cause, if any.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrNoMapping, e.Cause}
	}
	return []error{ErrNoMapping}
}

// New constructs an apis.Resolver over reg that tries the given strategies in
// order. Nil strategies are ignored. Types are canonicalized by reg before
// any strategy sees them.
func New(reg apis.Registry, cfg apis.Config, strategies ...apis.Strategy) apis.Resolver {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return chain{reg: reg, cfg: config.Sanitize(cfg), strats: out}
}

// chain is an immutable, order-preserving resolver over a set of strategies.
type chain struct {
	reg    apis.Registry
	cfg    apis.Config
	strats []apis.Strategy
}

// Resolve resolves the dynamic type of model.
func (r chain) Resolve(model any, kind string) (apis.Mapping, error) {
	if model == nil {
		return apis.Mapping{}, ErrNilModel
	}
	return r.ResolveType(reflect.TypeOf(model), kind)
}

// ResolveType canonicalizes t and runs strategies in order until one handles it.
func (r chain) ResolveType(t reflect.Type, kind string) (apis.Mapping, error) {
	if t == nil {
		return apis.Mapping{}, ErrNilModel
	}
	canonical, err := r.reg.Canonical(t)
	if err != nil {
		return apis.Mapping{}, &Error{Model: t, Kind: kind, Cause: err}
	}
	for _, s := range r.strats {
		if m, ok := s.TryResolveType(canonical, kind); ok {
			return m, nil
		}
	}
	return apis.Mapping{}, &Error{Model: canonical, Kind: kind, Suggestions: r.suggest(canonical, kind)}
}

// suggest returns registered model names for kind within cfg.SuggestionDistance
// of t's name, closest first.
func (r chain) suggest(t reflect.Type, kind string) []string {
	if r.cfg.SuggestionDistance <= 0 {
		return nil
	}
	want := uref.Name(t)

	type candidate struct {
		name string
		dist int
	}
	var cands []candidate
	seen := make(map[string]struct{})
	for _, m := range r.reg.Entries() {
		if m.Kind != kind {
			continue
		}
		name := uref.Name(m.Model)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if d := levenshtein.ComputeDistance(want, name); d <= r.cfg.SuggestionDistance {
			cands = append(cands, candidate{name: name, dist: d})
		}
	}
	slices.SortFunc(cands, func(a, b candidate) int {
		if c := cmp.Compare(a.dist, b.dist); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})

	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.name)
	}
	return out
}
