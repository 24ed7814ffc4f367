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

package diagnostic

import (
	"fmt"

	"dirpx.dev/gridx/apis"
)

// Sink receives diagnostics. Storage, registry and manager are handed a Sink
// at construction; there is no process-wide diagnostic state.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(d Diagnostic)

// Report calls f(d).
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// OrDiscard returns s, or Discard when s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}

// Multi fans a diagnostic out to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return multi(out)
}

type multi []Sink

func (m multi) Report(d Diagnostic) {
	for _, s := range m {
		s.Report(d)
	}
}

// Collector keeps every reported diagnostic in memory.
type Collector struct {
	Diagnostics
	// All holds every diagnostic in report order.
	All []Diagnostic
}

// Ensure Collector implements Sink.
var _ Sink = (*Collector)(nil)

// Report records d.
func (c *Collector) Report(d Diagnostic) {
	c.Add(d)
	c.All = append(c.All, d)
}

// Codes returns the codes of all collected diagnostics in report order.
func (c *Collector) Codes() []string {
	out := make([]string, 0, len(c.All))
	for _, d := range c.All {
		out = append(out, d.Code)
	}
	return out
}

// Reset forgets everything collected so far.
func (c *Collector) Reset() {
	c.Diagnostics = Diagnostics{}
	c.All = nil
}

// Describe renders model for diagnostics: apis.Describer when implemented,
// otherwise the dynamic type.
func Describe(model any) string {
	if model == nil {
		return "<nil>"
	}
	if d, ok := model.(apis.Describer); ok {
		return d.ModelDescription()
	}
	return fmt.Sprintf("%T", model)
}

// At returns a pointer to a copy of p, for Diagnostic.Position.
func At(p apis.Position) *apis.Position {
	return &p
}
