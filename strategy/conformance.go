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

// NewConformanceStrategy creates an apis.Strategy that matches types against
// mappings registered for interface types.
func NewConformanceStrategy(reg apis.Registry) apis.Strategy {
	return &conformanceStrategy{reg: reg}
}

// conformanceStrategy returns the first interface mapping, in registration
// order, whose interface t (or *t) implements.
type conformanceStrategy struct {
	reg apis.Registry
}

// Ensure conformanceStrategy implements apis.Strategy.
var _ apis.Strategy = (*conformanceStrategy)(nil)

// TryResolveType checks t against every interface mapping of kind.
func (s *conformanceStrategy) TryResolveType(t reflect.Type, kind string) (apis.Mapping, bool) {
	if t == nil || s.reg == nil {
		return apis.Mapping{}, false
	}
	var pt reflect.Type
	if t.Kind() != reflect.Interface && t.Kind() != reflect.Pointer {
		pt = reflect.PointerTo(t)
	}
	for _, m := range s.reg.Entries() {
		if m.Kind != kind || m.Model.Kind() != reflect.Interface {
			continue
		}
		if t.Implements(m.Model) || (pt != nil && pt.Implements(m.Model)) {
			return m, true
		}
	}
	return apis.Mapping{}, false
}
