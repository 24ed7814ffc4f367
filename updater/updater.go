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

package updater

import (
	"github.com/google/uuid"

	"dirpx.dev/gridx/apis"
	"dirpx.dev/gridx/diagnostic"
)

// Hook observes an update around its application. u is nil for full reloads.
type Hook func(u *apis.Update)

// Option configures an Updater.
type Option func(*Updater)

// WillUpdate installs a hook called before each update is applied.
func WillUpdate(h Hook) Option {
	return func(up *Updater) {
		up.willUpdate = h
	}
}

// DidUpdate installs a hook called after each update is applied.
func DidUpdate(h Hook) Option {
	return func(up *Updater) {
		up.didUpdate = h
	}
}

// ReloadItem replaces surface item reloads with fn, called once per updated
// position. Use it to rebind the visible view in place instead of reloading it.
func ReloadItem(fn func(apis.Position)) Option {
	return func(up *Updater) {
		up.reloadItem = fn
	}
}

// AnimateMoveAsDeleteAndInsert applies item moves as a delete at the source
// and an insert at the target.
func AnimateMoveAsDeleteAndInsert(on bool) Option {
	return func(up *Updater) {
		up.moveAsDeleteInsert = on
	}
}

// ReloadOnSectionChanges asks the surface for a full reload after any update
// that inserted, deleted or reloaded sections. On by default.
func ReloadOnSectionChanges(on bool) Option {
	return func(up *Updater) {
		up.reloadOnSectionChanges = on
	}
}

// WithSink routes updater diagnostics to s.
func WithSink(s diagnostic.Sink) Option {
	return func(up *Updater) {
		up.sink = diagnostic.OrDiscard(s)
	}
}

// Updater applies storage updates to a batch-update surface.
type Updater struct {
	surface apis.Surface
	sink    diagnostic.Sink

	willUpdate             Hook
	didUpdate              Hook
	reloadItem             func(apis.Position)
	moveAsDeleteInsert     bool
	reloadOnSectionChanges bool

	// last is the ID of the last applied update.
	last uuid.UUID
	// inProgress is set while an update is being applied to the surface.
	inProgress bool
}

// Ensure Updater implements apis.Updater.
var _ apis.Updater = (*Updater)(nil)

// New returns an Updater driving surface.
func New(surface apis.Surface, opts ...Option) *Updater {
	up := &Updater{
		surface:                surface,
		sink:                   diagnostic.Discard,
		reloadOnSectionChanges: true,
	}
	for _, opt := range opts {
		opt(up)
	}
	return up
}

// PerformUpdate applies u inside one surface batch. An update whose ID was
// just applied is ignored.
func (up *Updater) PerformUpdate(u apis.Update) {
	if u.ID != uuid.Nil && u.ID == up.last {
		up.sink.Report(diagnostic.Diagnostic{
			Severity:    diagnostic.SeverityWarning,
			Code:        diagnostic.CodeDuplicate,
			Message:     "update already applied",
			Transaction: u.ID,
		})
		return
	}
	up.last = u.ID

	if up.willUpdate != nil {
		up.willUpdate(&u)
	}
	up.perform(u)
	if up.didUpdate != nil {
		up.didUpdate(&u)
	}
}

// InProgress reports whether an update is being applied to the surface, from
// the start of its batch until the reload that may follow it.
func (up *Updater) InProgress() bool {
	return up.inProgress
}

func (up *Updater) perform(u apis.Update) {
	up.inProgress = true
	defer func() { up.inProgress = false }()

	up.surface.PerformBatchUpdates(func() { up.apply(u) })

	sectionsChanged := len(u.InsertedSections)+len(u.DeletedSections)+len(u.UpdatedSections) > 0
	if up.reloadOnSectionChanges && sectionsChanged {
		up.surface.ReloadData()
	}
}

// ReloadData asks the surface for a full reload.
func (up *Updater) ReloadData() {
	if up.willUpdate != nil {
		up.willUpdate(nil)
	}
	up.surface.ReloadData()
	if up.didUpdate != nil {
		up.didUpdate(nil)
	}
}

func (up *Updater) apply(u apis.Update) {
	s := up.surface

	if len(u.InsertedItems) > 0 {
		s.InsertItems(u.InsertedItems)
	}
	if len(u.DeletedItems) > 0 {
		s.DeleteItems(u.DeletedItems)
	}
	if len(u.UpdatedItems) > 0 {
		if up.reloadItem != nil {
			for _, p := range u.UpdatedItems {
				up.reloadItem(p)
			}
		} else {
			s.ReloadItems(u.UpdatedItems)
		}
	}
	for _, mv := range u.MovedItems {
		if up.moveAsDeleteInsert {
			s.DeleteItems([]apis.Position{mv.From})
			s.InsertItems([]apis.Position{mv.To})
		} else {
			s.MoveItem(mv.From, mv.To)
		}
	}

	if len(u.InsertedSections) > 0 {
		s.InsertSections(u.InsertedSections)
	}
	if len(u.DeletedSections) > 0 {
		s.DeleteSections(u.DeletedSections)
	}
	if len(u.UpdatedSections) > 0 {
		s.ReloadSections(u.UpdatedSections)
	}
	for _, mv := range u.MovedSections {
		s.MoveSection(mv.From, mv.To)
	}
}
