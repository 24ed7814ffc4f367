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

import "dirpx.dev/gridx/apis"

// WithKind registers the mapping for kind instead of apis.KindItem.
func WithKind(kind string) apis.MappingOption {
	return func(m *apis.Mapping) {
		m.Kind = kind
	}
}

// WithReuseIdentifier overrides the default reuse identifier ("pkg.Type" of the view).
func WithReuseIdentifier(id string) apis.MappingOption {
	return func(m *apis.Mapping) {
		m.View.ReuseIdentifier = id
	}
}

// WithLayout marks the view as instantiated from the named layout resource.
func WithLayout(name string) apis.MappingOption {
	return func(m *apis.Mapping) {
		m.View.Origin = apis.OriginLayout
		m.View.Layout = name
	}
}

// OptionsOf returns the options that reproduce m's kind and view settings on
// registration, e.g. when migrating entries between registries.
func OptionsOf(m apis.Mapping) []apis.MappingOption {
	opts := []apis.MappingOption{
		WithKind(m.Kind),
		WithReuseIdentifier(m.View.ReuseIdentifier),
	}
	if m.View.Origin == apis.OriginLayout {
		opts = append(opts, WithLayout(m.View.Layout))
	}
	return opts
}
