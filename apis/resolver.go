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

import (
	"reflect"
)

// Resolver coordinates strategies to resolve the view for a model.
// Typical chain: Exact -> Ancestry -> Conformance.
type Resolver interface {
	// Resolve returns the mapping for model's dynamic type and kind.
	// A missing mapping is an error: rendering cannot proceed without a view.
	Resolve(model any, kind string) (Mapping, error)

	// ResolveType is Resolve for a type rather than an instance.
	ResolveType(t reflect.Type, kind string) (Mapping, error)
}
