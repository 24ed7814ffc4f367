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

import "reflect"

// Mapping is a single (model type, kind) -> view association.
type Mapping struct {
	// Model is the canonical model type the mapping was registered for.
	// It may be an interface type, in which case it matches every model
	// type implementing it.
	Model reflect.Type
	// Kind separates item views (KindItem) from supplementary views.
	Kind string
	// View describes the view to dequeue.
	View ViewType
}

// MappingOption customizes a Mapping during registration.
type MappingOption func(*Mapping)

// Declaration is one child -> parent edge of the type-description table.
type Declaration struct {
	Child  reflect.Type
	Parent reflect.Type
}

// Registry holds model -> view mappings and the type-description table used
// for ancestor fallback. Keys are canonicalized on both Register and Lookup.
type Registry interface {
	// Register installs a mapping from model to view. A later registration
	// for the same canonical (model, kind) pair replaces the earlier one.
	Register(view, model reflect.Type, opts ...MappingOption) error
	// Lookup returns the mapping registered for exactly (model, kind),
	// after canonicalization. Ancestors are not consulted.
	Lookup(model reflect.Type, kind string) (Mapping, bool)
	// Declare records parent as the nearest ancestor of child.
	Declare(child, parent reflect.Type) error
	// Declarations returns the explicit table entries in declaration order.
	Declarations() []Declaration
	// Ancestors returns the ancestry of the canonical form of t, nearest first.
	Ancestors(t reflect.Type) []reflect.Type
	// Canonical returns the lookup key for t.
	Canonical(t reflect.Type) (reflect.Type, error)
	// Entries returns a snapshot of all mappings in registration order.
	Entries() []Mapping
	// Count returns the number of registered mappings.
	Count() int
	// Reset clears all registered mappings. Declarations are kept.
	Reset()
}
