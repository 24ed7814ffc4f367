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

package script

import (
	"fmt"
	"reflect"

	"github.com/agnivade/levenshtein"

	"dirpx.dev/gridx"
	"dirpx.dev/gridx/apis"
	"dirpx.dev/gridx/registry"
	"dirpx.dev/gridx/storage"
	uref "dirpx.dev/gridx/utils/reflect"
)

// families maps the model names a script may register to their canonical types.
var families = map[string]reflect.Type{
	"string":     uref.String,
	"number":     uref.Number,
	"array":      uref.Array,
	"dictionary": uref.Dictionary,
}

// Cell is the view every script mapping registers. It records the reuse
// identifier it was dequeued for and the model bound to it.
type Cell struct {
	ID    string
	Kind  string
	At    apis.Position
	model any
}

// Update binds model.
func (c *Cell) Update(model any) { c.model = model }

// Model returns the bound model.
func (c *Cell) Model() any { return c.model }

// Provider dequeues a fresh Cell per request.
type Provider struct{}

// DequeueCell implements apis.ViewProvider.
func (Provider) DequeueCell(id string, at apis.Position) (apis.View, error) {
	return &Cell{ID: id, Kind: apis.KindItem, At: at}, nil
}

// DequeueSupplementary implements apis.ViewProvider.
func (Provider) DequeueSupplementary(kind, id string, at apis.Position) (apis.View, error) {
	return &Cell{ID: id, Kind: kind, At: at}, nil
}

// Register installs the script's mappings on m.
func (s *Script) Register(m *gridx.Manager) error {
	view := reflect.TypeFor[*Cell]()
	for i, mp := range s.Mappings {
		model, ok := families[mp.Model]
		if !ok {
			return fmt.Errorf("mapping %d: %w %q%s", i, ErrUnknownModel, mp.Model, suggestFamily(mp.Model))
		}
		if mp.View == "" {
			return fmt.Errorf("mapping %d: %w: view is required", i, ErrInvalidStep)
		}
		opts := []apis.MappingOption{registry.WithKind(mp.Kind), registry.WithReuseIdentifier(mp.View)}
		if mp.Layout != "" {
			opts = append(opts, registry.WithLayout(mp.Layout))
		}
		if err := m.Register(view, model, opts...); err != nil {
			return fmt.Errorf("mapping %d: %w", i, err)
		}
	}
	return nil
}

// Load fills storage with the script's initial sections as one transaction.
func (s *Script) Load(st *storage.Memory) {
	st.Batch(func() {
		for i, sec := range s.Sections {
			if sec.Header != nil {
				st.SetSupplementaryModel(sec.Header, apis.KindHeader, i)
			}
			if sec.Footer != nil {
				st.SetSupplementaryModel(sec.Footer, apis.KindFooter, i)
			}
			if len(sec.Items) > 0 {
				st.AddItems(sec.Items, i)
			}
		}
	})
}

// Run applies the script's steps to st. It stops at the first malformed step;
// storage-level misuse is reported through the storage's diagnostics instead.
func (s *Script) Run(st *storage.Memory) error {
	return runSteps(st, s.Steps, "")
}

// Execute registers mappings, loads sections and runs the steps on m.
func (s *Script) Execute(m *gridx.Manager) error {
	if err := s.Register(m); err != nil {
		return err
	}
	s.Load(m.Storage())
	return s.Run(m.Storage())
}

func runSteps(st *storage.Memory, steps []Step, prefix string) error {
	for i, step := range steps {
		if err := runStep(st, step, fmt.Sprintf("%s%d", prefix, i)); err != nil {
			return err
		}
	}
	return nil
}

func runStep(st *storage.Memory, step Step, path string) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("step %s (%s): %w: %s", path, step.Op, ErrInvalidStep, fmt.Sprintf(format, args...))
	}

	switch step.Op {
	case "add":
		if step.Item != nil {
			st.AddItem(step.Item, step.Section)
		} else {
			st.AddItems(step.Items, step.Section)
		}
	case "insert":
		if step.At == nil {
			return invalid("at is required")
		}
		st.InsertItem(step.Item, step.At.Position)
	case "remove":
		if step.Item != nil {
			st.RemoveItem(step.Item)
		} else {
			st.RemoveItems(step.Items)
		}
	case "remove_all":
		st.RemoveAllItems()
	case "replace":
		st.ReplaceItem(step.Item, step.With)
	case "reload":
		st.ReloadItem(step.Item)
	case "move":
		if step.From == nil || step.To == nil {
			return invalid("from and to are required")
		}
		st.MoveItem(step.From.Position, step.To.Position)
	case "move_section":
		if step.From == nil || step.To == nil {
			return invalid("from and to are required")
		}
		st.MoveSection(step.From.Section, step.To.Section)
	case "delete_sections":
		st.DeleteSections(step.Sections)
	case "reload_section":
		st.ReloadSection(step.Section)
	case "set_items":
		st.SetItems(step.Items, step.Section)
	case "set_supplementary":
		if step.Kind == "" {
			return invalid("kind is required")
		}
		st.SetSupplementaryModel(step.Model, step.Kind, step.Section)
	case "batch":
		var err error
		st.Batch(func() {
			err = runSteps(st, step.Steps, path+".")
		})
		return err
	default:
		return fmt.Errorf("step %s: %w %q%s", path, ErrUnknownOp, step.Op, suggestOp(step.Op))
	}
	return nil
}

var ops = []string{
	"add", "insert", "remove", "remove_all", "replace", "reload", "move",
	"move_section", "delete_sections", "reload_section", "set_items",
	"set_supplementary", "batch",
}

func suggestOp(op string) string {
	return suggest(op, ops)
}

func suggestFamily(name string) string {
	names := make([]string, 0, len(families))
	for n := range families {
		names = append(names, n)
	}
	return suggest(name, names)
}

// suggest returns a "did you mean" suffix for the closest candidate within
// distance 2, or "".
func suggest(s string, candidates []string) string {
	best, bestDist := "", 3
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(s, c)
		if d < bestDist || (d == bestDist && c < best) {
			best, bestDist = c, d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}
