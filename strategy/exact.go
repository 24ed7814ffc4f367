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

// NewExactStrategy creates an apis.Strategy that looks the type up in reg as is.
func NewExactStrategy(reg apis.Registry) apis.Strategy {
	return &exactStrategy{reg: reg}
}

// exactStrategy consults the registry for the exact (type, kind) pair.
type exactStrategy struct {
	reg apis.Registry
}

// Ensure exactStrategy implements apis.Strategy.
var _ apis.Strategy = (*exactStrategy)(nil)

// TryResolveType looks up t in the registry.
func (s *exactStrategy) TryResolveType(t reflect.Type, kind string) (apis.Mapping, bool) {
	if t == nil || s.reg == nil {
		return apis.Mapping{}, false
	}
	return s.reg.Lookup(t, kind)
}
