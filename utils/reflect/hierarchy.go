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

package reflect

import (
	"errors"
	"reflect"
)

// ErrHierarchyCycle is returned when a declaration would make a type its own ancestor.
var ErrHierarchyCycle = errors.New("reflect: declaration creates an ancestry cycle")

// Hierarchy is the static type-description table used for ancestor fallback.
//
// The parent of a type is, in order of precedence:
//  1. the parent recorded with Declare;
//  2. for a struct whose first field is embedded, that field's struct type
//     (pointers stripped).
//
// Ancestry lists are computed once per type and cached until the next Declare.
// A Hierarchy is not safe for concurrent use.
type Hierarchy struct {
	parents map[reflect.Type]reflect.Type
	order   []reflect.Type
	cache   map[reflect.Type][]reflect.Type
}

// NewHierarchy returns an empty table.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		parents: make(map[reflect.Type]reflect.Type),
		cache:   make(map[reflect.Type][]reflect.Type),
	}
}

// Declare records parent as the nearest ancestor of child, replacing any
// previous declaration for child.
func (h *Hierarchy) Declare(child, parent reflect.Type) error {
	if child == nil || parent == nil {
		return ErrReflectNilType
	}
	if child == parent {
		return ErrHierarchyCycle
	}
	for _, a := range h.Ancestors(parent) {
		if a == child {
			return ErrHierarchyCycle
		}
	}

	if _, ok := h.parents[child]; !ok {
		h.order = append(h.order, child)
	}
	h.parents[child] = parent
	clear(h.cache)
	return nil
}

// Declared returns the explicit (child, parent) pairs in declaration order.
func (h *Hierarchy) Declared() [][2]reflect.Type {
	out := make([][2]reflect.Type, 0, len(h.order))
	for _, c := range h.order {
		out = append(out, [2]reflect.Type{c, h.parents[c]})
	}
	return out
}

// Parent returns the nearest ancestor of t.
func (h *Hierarchy) Parent(t reflect.Type) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}
	if p, ok := h.parents[t]; ok {
		return p, true
	}
	return embeddedParent(t)
}

// Ancestors returns t's ancestry from nearest to farthest, excluding t.
func (h *Hierarchy) Ancestors(t reflect.Type) []reflect.Type {
	if t == nil {
		return nil
	}
	if a, ok := h.cache[t]; ok {
		return a
	}

	var out []reflect.Type
	seen := map[reflect.Type]struct{}{t: {}}
	for p, ok := h.Parent(t); ok; p, ok = h.Parent(p) {
		if _, dup := seen[p]; dup {
			// pointer embedding can loop; stop at the first repeat
			break
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	h.cache[t] = out
	return out
}

// embeddedParent treats an embedded first field of struct type as the parent.
func embeddedParent(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Struct || t.NumField() == 0 {
		return nil, false
	}
	f := t.Field(0)
	if !f.Anonymous {
		return nil, false
	}
	ft := f.Type
	for ft.Kind() == reflect.Pointer {
		ft = ft.Elem()
	}
	if ft.Kind() != reflect.Struct || ft.Name() == "" {
		return nil, false
	}
	return ft, true
}
