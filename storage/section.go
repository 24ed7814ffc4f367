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

import "dirpx.dev/gridx/apis"

// slot is one item of a section. token identifies the slot across a
// transaction; moves keep it, replacements keep it, insertions mint a new one.
type slot struct {
	token uint64
	item  any
}

// Section is an ordered sequence of items plus supplementary models keyed by
// kind. Sections are owned by a Memory storage and read through these methods.
type Section struct {
	token         uint64
	items         []slot
	supplementary map[string]any
}

// Len returns the number of items in the section.
func (s *Section) Len() int {
	return len(s.items)
}

// Item returns the item at index i.
func (s *Section) Item(i int) (any, bool) {
	if i < 0 || i >= len(s.items) {
		return nil, false
	}
	return s.items[i].item, true
}

// Items returns a copy of the section's items in order.
func (s *Section) Items() []any {
	out := make([]any, len(s.items))
	for i, sl := range s.items {
		out[i] = sl.item
	}
	return out
}

// Supplementary returns the supplementary model registered for kind.
func (s *Section) Supplementary(kind string) (any, bool) {
	m, ok := s.supplementary[kind]
	return m, ok
}

// Header returns the header model, or nil.
func (s *Section) Header() any {
	return s.supplementary[apis.KindHeader]
}

// Footer returns the footer model, or nil.
func (s *Section) Footer() any {
	return s.supplementary[apis.KindFooter]
}

func (s *Section) indexOf(item any) int {
	for i, sl := range s.items {
		if itemsEqual(sl.item, item) {
			return i
		}
	}
	return -1
}

func (s *Section) insert(i int, sl slot) {
	s.items = append(s.items, slot{})
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = sl
}

func (s *Section) remove(i int) slot {
	sl := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	return sl
}
