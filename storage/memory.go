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

package storage

import (
	"fmt"
	"slices"

	"dirpx.dev/gridx/apis"
	"dirpx.dev/gridx/config"
	"dirpx.dev/gridx/diagnostic"
)

// Option configures a Memory storage at construction.
type Option func(*Memory)

// WithConfig sets the storage configuration.
func WithConfig(cfg apis.Config) Option {
	return func(m *Memory) {
		m.cfg = config.Sanitize(cfg)
	}
}

// WithSink routes storage diagnostics to s.
func WithSink(s diagnostic.Sink) Option {
	return func(m *Memory) {
		m.sink = diagnostic.OrDiscard(s)
	}
}

// WithUpdater sets the delegate that receives one Update per transaction.
func WithUpdater(u apis.Updater) Option {
	return func(m *Memory) {
		m.updater = u
	}
}

// Memory is an in-memory, sectioned item storage that reports every
// transaction to its Updater as one apis.Update.
//
// Each mutating call that runs outside Batch is its own transaction. Invalid
// mutations (out-of-range positions, missing or nil items, duplicate reloads)
// are skipped with a diagnostic; no mutation method fails.
//
// Memory is owned by one hosting controller and is not safe for concurrent
// use. Mutating it from inside Updater callbacks is rejected.
type Memory struct {
	cfg     apis.Config
	sink    diagnostic.Sink
	updater apis.Updater

	sections []*Section
	// lastToken is the last slot or section token handed out.
	lastToken uint64

	tx         *transaction
	depth      int
	delivering bool
}

// New constructs an empty Memory storage.
func New(opts ...Option) *Memory {
	m := &Memory{
		cfg:  config.DefaultConfig(),
		sink: diagnostic.Discard,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetUpdater replaces the update delegate. A nil updater disables delivery.
func (m *Memory) SetUpdater(u apis.Updater) {
	m.updater = u
}

// Updater returns the current update delegate.
func (m *Memory) Updater() apis.Updater {
	return m.updater
}

// SetConfig replaces the storage configuration. It takes effect for the next
// transaction.
func (m *Memory) SetConfig(cfg apis.Config) {
	m.cfg = config.Sanitize(cfg)
}

// NumberOfSections returns the number of sections.
func (m *Memory) NumberOfSections() int {
	return len(m.sections)
}

// NumberOfItems returns the number of items in section, or 0 if it does not exist.
func (m *Memory) NumberOfItems(section int) int {
	if !m.hasSection(section) {
		return 0
	}
	return m.sections[section].Len()
}

// Section returns the section at index i.
func (m *Memory) Section(i int) (*Section, bool) {
	if !m.hasSection(i) {
		return nil, false
	}
	return m.sections[i], true
}

// ItemAt returns the item at p.
func (m *Memory) ItemAt(p apis.Position) (any, bool) {
	if !m.hasSection(p.Section) {
		return nil, false
	}
	return m.sections[p.Section].Item(p.Item)
}

// ItemsIn returns a copy of the items of section.
func (m *Memory) ItemsIn(section int) []any {
	if !m.hasSection(section) {
		return nil
	}
	return m.sections[section].Items()
}

// PositionOf returns the first position holding an item equal to item.
func (m *Memory) PositionOf(item any) (apis.Position, bool) {
	for s, sec := range m.sections {
		if i := sec.indexOf(item); i >= 0 {
			return apis.At(s, i), true
		}
	}
	return apis.Position{}, false
}

// SupplementaryModel returns the model of kind attached to section.
func (m *Memory) SupplementaryModel(kind string, section int) (any, bool) {
	if !m.hasSection(section) {
		return nil, false
	}
	return m.sections[section].Supplementary(kind)
}

// HeaderModel returns the header model of section, or nil.
func (m *Memory) HeaderModel(section int) any {
	model, _ := m.SupplementaryModel(apis.KindHeader, section)
	return model
}

// FooterModel returns the footer model of section, or nil.
func (m *Memory) FooterModel(section int) any {
	model, _ := m.SupplementaryModel(apis.KindFooter, section)
	return model
}

// Batch runs fn as one transaction: every mutation inside it is merged into a
// single Update, delivered when the outermost Batch returns. Nested batches
// join the enclosing one. If fn panics the mutations stay applied and nothing
// is delivered.
func (m *Memory) Batch(fn func()) {
	if !m.begin("batch") {
		return
	}
	done := false
	defer func() {
		if !done {
			m.abort()
		}
	}()
	fn()
	done = true
	m.commit()
}

// mutate runs op as a transaction, or as part of the open one. A panic in op
// aborts the transaction like a panicking Batch.
func (m *Memory) mutate(name string, op func(tx *transaction)) {
	if !m.begin(name) {
		return
	}
	done := false
	defer func() {
		if !done {
			m.abort()
		}
	}()
	op(m.tx)
	done = true
	m.commit()
}

func (m *Memory) begin(name string) bool {
	if m.delivering {
		m.report(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Code:     diagnostic.CodeReentrant,
			Message:  fmt.Sprintf("%s called while an update is being delivered; defer it past the current transaction", name),
		})
		return false
	}
	if m.depth == 0 {
		m.tx = newTransaction(m.sections)
	}
	m.depth++
	return true
}

func (m *Memory) commit() {
	m.depth--
	if m.depth > 0 {
		return
	}
	// m.tx stays set during delivery so rejected re-entrant calls are
	// attributed to the transaction being delivered.
	defer func() { m.tx = nil }()
	m.deliver(m.tx)
}

func (m *Memory) abort() {
	m.depth--
	if m.depth == 0 {
		m.tx = nil
	}
}

func (m *Memory) deliver(tx *transaction) {
	if m.updater == nil {
		return
	}
	m.delivering = true
	defer func() { m.delivering = false }()

	if tx.fullReload {
		m.updater.ReloadData()
		return
	}
	u := tx.reconcile(m.sections)
	if u.IsEmpty() && !m.cfg.DeliverEmptyUpdates {
		return
	}
	m.updater.PerformUpdate(u)
}

// report tags d with the open transaction, if any, and forwards it.
func (m *Memory) report(d diagnostic.Diagnostic) {
	if m.tx != nil {
		d.Transaction = m.tx.id
	}
	m.sink.Report(d)
}

func (m *Memory) warn(code string, p *apis.Position, item any, format string, args ...any) {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Position: p,
	}
	if item != nil {
		d.Model = diagnostic.Describe(item)
	}
	m.report(d)
}

// AddItem appends item to section, creating sections up to section as needed.
func (m *Memory) AddItem(item any, section int) {
	m.AddItems([]any{item}, section)
}

// AddItems appends items to section, creating sections up to section as needed.
// Nil items are skipped.
func (m *Memory) AddItems(items []any, section int) {
	m.mutate("AddItems", func(tx *transaction) {
		if section < 0 {
			m.warn(diagnostic.CodeSectionOutOfRange, nil, nil, "section %d is negative", section)
			return
		}
		valid := make([]any, 0, len(items))
		for _, item := range items {
			if item == nil {
				m.warn(diagnostic.CodeNilItem, nil, nil, "nil item not added to section %d", section)
				continue
			}
			valid = append(valid, item)
		}
		if len(valid) == 0 {
			return
		}
		sec := m.ensureSection(section)
		for _, item := range valid {
			sec.insert(sec.Len(), m.newSlot(tx, item))
		}
	})
}

// InsertItem inserts item at p. The section must exist and p.Item may be at
// most the section's length.
func (m *Memory) InsertItem(item any, p apis.Position) {
	m.mutate("InsertItem", func(tx *transaction) {
		if item == nil {
			m.warn(diagnostic.CodeNilItem, diagnostic.At(p), nil, "nil item not inserted")
			return
		}
		if !m.hasSection(p.Section) {
			m.warn(diagnostic.CodeSectionOutOfRange, diagnostic.At(p), item,
				"section %d out of range [0,%d)", p.Section, len(m.sections))
			return
		}
		sec := m.sections[p.Section]
		if p.Item < 0 || p.Item > sec.Len() {
			m.warn(diagnostic.CodeItemOutOfRange, diagnostic.At(p), item,
				"item %d out of range [0,%d]", p.Item, sec.Len())
			return
		}
		sec.insert(p.Item, m.newSlot(tx, item))
	})
}

// RemoveItem removes the first item equal to item. A missing item is a no-op.
func (m *Memory) RemoveItem(item any) {
	m.RemoveItems([]any{item})
}

// RemoveItems removes the first item equal to each of items, in order.
// Missing items are skipped individually.
func (m *Memory) RemoveItems(items []any) {
	m.mutate("RemoveItems", func(tx *transaction) {
		for _, item := range items {
			p, ok := m.PositionOf(item)
			if !ok {
				m.warn(diagnostic.CodeItemNotFound, nil, item, "item to remove not found")
				continue
			}
			tx.logRemoval(m.sections[p.Section].remove(p.Item))
		}
	})
}

// RemoveAllItems empties every section, keeping sections and their
// supplementary models. The delegate is asked for a full reload.
func (m *Memory) RemoveAllItems() {
	m.mutate("RemoveAllItems", func(tx *transaction) {
		for _, sec := range m.sections {
			sec.items = nil
		}
		tx.fullReload = true
	})
}

// SetItems replaces the items of section, creating sections up to section as
// needed. The delegate is asked for a full reload.
func (m *Memory) SetItems(items []any, section int) {
	m.mutate("SetItems", func(tx *transaction) {
		if section < 0 {
			m.warn(diagnostic.CodeSectionOutOfRange, nil, nil, "section %d is negative", section)
			return
		}
		sec := m.ensureSection(section)
		sec.items = sec.items[:0]
		for _, item := range items {
			if item == nil {
				m.warn(diagnostic.CodeNilItem, nil, nil, "nil item not set in section %d", section)
				continue
			}
			m.lastToken++
			sec.items = append(sec.items, slot{token: m.lastToken, item: item})
		}
		tx.fullReload = true
	})
}

// ReplaceItem substitutes replacement for the first item equal to old, in place.
func (m *Memory) ReplaceItem(old, replacement any) {
	m.mutate("ReplaceItem", func(tx *transaction) {
		if replacement == nil {
			m.warn(diagnostic.CodeNilItem, nil, old, "nil replacement ignored")
			return
		}
		p, ok := m.PositionOf(old)
		if !ok {
			m.warn(diagnostic.CodeItemNotFound, nil, old, "item to replace not found")
			return
		}
		sl := &m.sections[p.Section].items[p.Item]
		sl.item = replacement
		tx.updatedItems[sl.token] = struct{}{}
	})
}

// ReloadItem reports the position of the first item equal to item as updated.
func (m *Memory) ReloadItem(item any) {
	m.mutate("ReloadItem", func(tx *transaction) {
		p, ok := m.PositionOf(item)
		if !ok {
			m.warn(diagnostic.CodeItemNotFound, nil, item, "item to reload not found")
			return
		}
		tok := m.sections[p.Section].items[p.Item].token
		if hasToken(tx.reloadedItems, tok) {
			m.warn(diagnostic.CodeDuplicate, diagnostic.At(p), item, "item already reloaded in this transaction")
			return
		}
		tx.reloadedItems[tok] = struct{}{}
		tx.updatedItems[tok] = struct{}{}
	})
}

// MoveItem moves the item at from to to. to is interpreted after the item has
// been taken out of from. If either position is invalid nothing changes.
func (m *Memory) MoveItem(from, to apis.Position) {
	m.mutate("MoveItem", func(tx *transaction) {
		if !m.hasSection(from.Section) {
			m.warn(diagnostic.CodeSectionOutOfRange, diagnostic.At(from), nil,
				"move source section %d out of range [0,%d)", from.Section, len(m.sections))
			return
		}
		src := m.sections[from.Section]
		if from.Item < 0 || from.Item >= src.Len() {
			m.warn(diagnostic.CodeItemOutOfRange, diagnostic.At(from), nil,
				"move source item %d out of range [0,%d)", from.Item, src.Len())
			return
		}
		if !m.hasSection(to.Section) {
			m.warn(diagnostic.CodeSectionOutOfRange, diagnostic.At(to), nil,
				"move target section %d out of range [0,%d)", to.Section, len(m.sections))
			return
		}
		sl := src.remove(from.Item)
		dst := m.sections[to.Section]
		if to.Item < 0 || to.Item > dst.Len() {
			src.insert(from.Item, sl)
			m.warn(diagnostic.CodeItemOutOfRange, diagnostic.At(to), sl.item,
				"move target item %d out of range [0,%d]", to.Item, dst.Len())
			return
		}
		dst.insert(to.Item, sl)
		tx.movedItems[sl.token] = struct{}{}
	})
}

// MoveSection moves the section at from to index to, with its supplementary models.
func (m *Memory) MoveSection(from, to int) {
	m.mutate("MoveSection", func(tx *transaction) {
		if !m.hasSection(from) || !m.hasSection(to) {
			m.warn(diagnostic.CodeSectionOutOfRange, nil, nil,
				"section move %d -> %d out of range [0,%d)", from, to, len(m.sections))
			return
		}
		if from == to {
			return
		}
		sec := m.sections[from]
		m.sections = slices.Delete(m.sections, from, from+1)
		m.sections = slices.Insert(m.sections, to, sec)
		tx.movedSections[sec.token] = struct{}{}
	})
}

// DeleteSections deletes the sections at indices, all interpreted against the
// layout before the call. Duplicate and out-of-range indices are skipped.
func (m *Memory) DeleteSections(indices []int) {
	m.mutate("DeleteSections", func(tx *transaction) {
		seen := make(map[int]struct{}, len(indices))
		valid := make([]int, 0, len(indices))
		for _, i := range indices {
			if _, dup := seen[i]; dup {
				m.warn(diagnostic.CodeDuplicate, nil, nil, "section %d listed twice", i)
				continue
			}
			seen[i] = struct{}{}
			if !m.hasSection(i) {
				m.warn(diagnostic.CodeSectionOutOfRange, nil, nil,
					"section %d out of range [0,%d)", i, len(m.sections))
				continue
			}
			valid = append(valid, i)
		}
		// descending, so earlier deletions do not shift later indices
		slices.Sort(valid)
		slices.Reverse(valid)
		for _, i := range valid {
			for _, sl := range m.sections[i].items {
				tx.logRemoval(sl)
			}
			m.sections = slices.Delete(m.sections, i, i+1)
		}
	})
}

// ReloadSection reports section as updated.
func (m *Memory) ReloadSection(section int) {
	m.mutate("ReloadSection", func(tx *transaction) {
		if !m.hasSection(section) {
			m.warn(diagnostic.CodeSectionOutOfRange, nil, nil,
				"section %d out of range [0,%d)", section, len(m.sections))
			return
		}
		tok := m.sections[section].token
		if hasToken(tx.reloadedSections, tok) {
			m.warn(diagnostic.CodeDuplicate, nil, nil, "section %d already reloaded in this transaction", section)
			return
		}
		tx.reloadedSections[tok] = struct{}{}
		tx.updatedSections[tok] = struct{}{}
	})
}

// SetSupplementaryModel attaches model as the supplementary model of kind to
// section, creating sections up to section as needed. A nil model detaches
// the current one. Changing an existing section reports it as updated.
func (m *Memory) SetSupplementaryModel(model any, kind string, section int) {
	m.mutate("SetSupplementaryModel", func(tx *transaction) {
		if section < 0 {
			m.warn(diagnostic.CodeSectionOutOfRange, nil, nil, "section %d is negative", section)
			return
		}
		if model == nil {
			if !m.hasSection(section) {
				return
			}
			sec := m.sections[section]
			if _, ok := sec.supplementary[kind]; ok {
				delete(sec.supplementary, kind)
				tx.updatedSections[sec.token] = struct{}{}
			}
			return
		}
		sec := m.ensureSection(section)
		if sec.supplementary == nil {
			sec.supplementary = make(map[string]any)
		}
		sec.supplementary[kind] = model
		tx.updatedSections[sec.token] = struct{}{}
	})
}

// SetHeaderModels sets the header model of sections 0..len(models)-1.
func (m *Memory) SetHeaderModels(models []any) {
	m.Batch(func() {
		for i, model := range models {
			m.SetSupplementaryModel(model, apis.KindHeader, i)
		}
	})
}

// SetFooterModels sets the footer model of sections 0..len(models)-1.
func (m *Memory) SetFooterModels(models []any) {
	m.Batch(func() {
		for i, model := range models {
			m.SetSupplementaryModel(model, apis.KindFooter, i)
		}
	})
}

func (m *Memory) hasSection(i int) bool {
	return i >= 0 && i < len(m.sections)
}

// ensureSection appends empty sections until index i exists and returns it.
func (m *Memory) ensureSection(i int) *Section {
	for len(m.sections) <= i {
		m.lastToken++
		m.sections = append(m.sections, &Section{token: m.lastToken})
	}
	return m.sections[i]
}

// newSlot wraps item, reusing the token of an equal item removed earlier in
// the transaction when moves are coalesced.
func (m *Memory) newSlot(tx *transaction, item any) slot {
	if m.cfg.CoalesceMoves {
		if tok, ok := tx.claim(item); ok {
			tx.movedItems[tok] = struct{}{}
			return slot{token: tok, item: item}
		}
	}
	m.lastToken++
	return slot{token: m.lastToken, item: item}
}
