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

// Builder composes a Registry and a Resolver for one hosting controller.
type Builder interface {
	// BuildRegistry constructs a Registry for cfg, carrying over mappings and
	// declarations from prev when it is non-nil. ext is an opaque extension
	// value (the default builder accepts a diagnostic sink there).
	BuildRegistry(cfg Config, prev Registry, ext any) Registry
	// BuildResolver constructs a Resolver over reg. prev is the resolver being
	// replaced, if any.
	BuildResolver(cfg Config, reg Registry, prev Resolver, ext any) Resolver
}
