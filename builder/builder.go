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

package builder

import (
	"fmt"

	"dirpx.dev/gridx/apis"
	"dirpx.dev/gridx/diagnostic"
	"dirpx.dev/gridx/registry"
	"dirpx.dev/gridx/resolver"
	"dirpx.dev/gridx/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry based on the provided configuration
// and pre-existing registry. If a pre-existing registry is provided, its declarations and
// entries are copied into the new registry, in that order. ext may carry a diagnostic.Sink;
// declarations and entries the new registry rejects are skipped and reported to it.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry, ext any) apis.Registry {
	sink := sinkOf(ext)
	nreg := registry.New(cfg, registry.WithSink(sink))
	if preg == nil {
		return nreg
	}
	for _, d := range preg.Declarations() {
		if err := nreg.Declare(d.Child, d.Parent); err != nil {
			sink.Report(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityWarning,
				Code:     diagnostic.CodeMigrationFailed,
				Message:  fmt.Sprintf("declaration %v -> %v dropped: %v", d.Child, d.Parent, err),
			})
		}
	}
	for _, e := range preg.Entries() {
		if err := nreg.Register(e.View.Type, e.Model, registry.OptionsOf(e)...); err != nil {
			sink.Report(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityWarning,
				Code:     diagnostic.CodeMigrationFailed,
				Message:  fmt.Sprintf("mapping %v -> %v dropped: %v", e.Model, e.View.Type, err),
				Kind:     e.Kind,
			})
		}
	}
	return nreg
}

// BuildResolver builds and returns a new apis.Resolver over reg using the
// Exact -> Ancestry -> Conformance chain. The previous resolver holds no state
// worth carrying over.
func (b *builder) BuildResolver(cfg apis.Config, reg apis.Registry, _ apis.Resolver, _ any) apis.Resolver {
	return resolver.New(reg, cfg,
		strategy.NewExactStrategy(reg),
		strategy.NewAncestryStrategy(reg),
		strategy.NewConformanceStrategy(reg),
	)
}

func sinkOf(ext any) diagnostic.Sink {
	if s, ok := ext.(diagnostic.Sink); ok {
		return s
	}
	return diagnostic.Discard
}
