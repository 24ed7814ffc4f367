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

package strategy

import (
	"reflect"

	"dirpx.dev/gridx/apis"
)

// NewAncestryStrategy creates an apis.Strategy that walks the ancestry of a
// type, nearest first, and returns the first ancestor with a mapping.
func NewAncestryStrategy(reg apis.Registry) apis.Strategy {
	return &ancestryStrategy{reg: reg}
}

// ancestryStrategy is the class-hierarchy fallback. Ancestry lists come from
// the registry's type-description table, which computes them once per type.
type ancestryStrategy struct {
	reg apis.Registry
}

// Ensure ancestryStrategy implements apis.Strategy.
var _ apis.Strategy = (*ancestryStrategy)(nil)

// TryResolveType returns the mapping of the nearest registered ancestor of t.
func (s *ancestryStrategy) TryResolveType(t reflect.Type, kind string) (apis.Mapping, bool) {
	if t == nil || s.reg == nil {
		return apis.Mapping{}, false
	}
	for _, a := range s.reg.Ancestors(t) {
		if m, ok := s.reg.Lookup(a, kind); ok {
			return m, true
		}
	}
	return apis.Mapping{}, false
}
