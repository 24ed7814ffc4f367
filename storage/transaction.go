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
	"cmp"
	"slices"

	"github.com/google/uuid"

	"dirpx.dev/gridx/apis"
)

// removal is a logged item removal, kept for move coalescing.
type removal struct {
	token   uint64
	item    any
	matched bool
}

// transaction accumulates what happened between the pre-scope snapshot and the
// close of the outermost scope. Inserts, deletes and implicit shifts are
// recovered at close by diffing slot and section tokens; only updates, moves
// and removals are logged.
type transaction struct {
	id uuid.UUID

	// pre-scope snapshot
	preSections []uint64
	preOrder    [][]uint64
	preItems    map[uint64]apis.Position

	updatedItems    map[uint64]struct{}
	updatedSections map[uint64]struct{}
	movedItems      map[uint64]struct{}
	movedSections   map[uint64]struct{}

	// reloads requested explicitly in this scope, for duplicate detection
	reloadedItems    map[uint64]struct{}
	reloadedSections map[uint64]struct{}

	removals []removal

	// fullReload is set by wholesale replacements; no diff is produced.
	fullReload bool
}

func newTransaction(sections []*Section) *transaction {
	tx := &transaction{
		id:               uuid.New(),
		preSections:      make([]uint64, len(sections)),
		preOrder:         make([][]uint64, len(sections)),
		preItems:         make(map[uint64]apis.Position),
		updatedItems:     make(map[uint64]struct{}),
		updatedSections:  make(map[uint64]struct{}),
		movedItems:       make(map[uint64]struct{}),
		movedSections:    make(map[uint64]struct{}),
		reloadedItems:    make(map[uint64]struct{}),
		reloadedSections: make(map[uint64]struct{}),
	}
	for s, sec := range sections {
		tx.preSections[s] = sec.token
		tx.preOrder[s] = make([]uint64, len(sec.items))
		for i, sl := range sec.items {
			tx.preOrder[s][i] = sl.token
			tx.preItems[sl.token] = apis.At(s, i)
		}
	}
	return tx
}

// logRemoval records a removed slot as a coalescing candidate.
func (tx *transaction) logRemoval(sl slot) {
	tx.removals = append(tx.removals, removal{token: sl.token, item: sl.item})
}

// claim returns the token of the oldest unmatched removal of an item equal to
// item, marking it matched.
func (tx *transaction) claim(item any) (uint64, bool) {
	for i := range tx.removals {
		r := &tx.removals[i]
		if !r.matched && itemsEqual(r.item, item) {
			r.matched = true
			return r.token, true
		}
	}
	return 0, false
}

// reconcile diffs the pre-scope snapshot against sections.
//
// Sections: tokens only in the snapshot are deleted (pre index), tokens only
// in sections are inserted (post index), explicitly moved tokens present on
// both sides are moves.
//
// Items: only items of sections present on both sides are reported; items of
// inserted or deleted sections travel with their section. A slot whose
// section was deleted and which reappears elsewhere is an insert; one that
// lands in an inserted section is a delete. Updates of moved entries are
// dropped.
//
// A moved entry that ends at its starting index is omitted only while the
// unreported entries around it keep their relative order; otherwise the
// surface could not rebuild the final order from the descriptor.
func (tx *transaction) reconcile(sections []*Section) apis.Update {
	u := apis.Update{ID: tx.id}

	postSection := make(map[uint64]int, len(sections))
	postTokens := make([]uint64, len(sections))
	postItems := make(map[uint64]apis.Position)
	for s, sec := range sections {
		postSection[sec.token] = s
		postTokens[s] = sec.token
		for i, sl := range sec.items {
			postItems[sl.token] = apis.At(s, i)
		}
	}
	preSection := make(map[uint64]int, len(tx.preSections))
	for s, tok := range tx.preSections {
		preSection[tok] = s
	}

	// sections
	moved := make(map[uint64]bool)
	var stillSections []uint64
	for from, tok := range tx.preSections {
		to, ok := postSection[tok]
		switch {
		case !ok:
			u.DeletedSections = append(u.DeletedSections, from)
		case !hasToken(tx.movedSections, tok):
		case from != to:
			moved[tok] = true
		default:
			stillSections = append(stillSections, tok)
		}
	}
	if len(stillSections) > 0 {
		untouched := func(tok uint64) bool {
			_, pre := preSection[tok]
			_, post := postSection[tok]
			return pre && post && !moved[tok]
		}
		if !sameOrder(tx.preSections, postTokens, untouched) {
			for _, tok := range stillSections {
				moved[tok] = true
			}
		}
	}
	for from, tok := range tx.preSections {
		if moved[tok] {
			u.MovedSections = append(u.MovedSections, apis.SectionMove{From: from, To: postSection[tok]})
		}
	}
	for to, sec := range sections {
		if _, ok := preSection[sec.token]; !ok {
			u.InsertedSections = append(u.InsertedSections, to)
		}
	}
	for tok := range tx.updatedSections {
		if from, ok := preSection[tok]; ok && !moved[tok] {
			if _, alive := postSection[tok]; alive {
				u.UpdatedSections = append(u.UpdatedSections, from)
			}
		}
	}

	// surviving reports whether the section at pre index s is on both sides.
	surviving := func(s int) bool {
		_, ok := postSection[tx.preSections[s]]
		return ok
	}
	survivingPost := func(s int) bool {
		_, ok := preSection[sections[s].token]
		return ok
	}

	// items
	movedItem := make(map[uint64]bool)
	// logged moves that ended in their starting slot, by section token
	still := make(map[uint64][]uint64)
	for tok, from := range tx.preItems {
		if !surviving(from.Section) {
			continue
		}
		to, ok := postItems[tok]
		if !ok || !survivingPost(to.Section) {
			u.DeletedItems = append(u.DeletedItems, from)
			continue
		}
		if !hasToken(tx.movedItems, tok) {
			continue
		}
		if sameSlot(tx.preSections, sections, from, to) {
			secTok := tx.preSections[from.Section]
			still[secTok] = append(still[secTok], tok)
			continue
		}
		movedItem[tok] = true
	}
	untouchedItem := func(tok uint64) bool {
		from, pre := tx.preItems[tok]
		to, post := postItems[tok]
		return pre && post && surviving(from.Section) && survivingPost(to.Section) && !movedItem[tok]
	}
	for secTok, toks := range still {
		sec := sections[postSection[secTok]]
		post := make([]uint64, len(sec.items))
		for i, sl := range sec.items {
			post[i] = sl.token
		}
		if !sameOrder(tx.preOrder[preSection[secTok]], post, untouchedItem) {
			for _, tok := range toks {
				movedItem[tok] = true
			}
		}
	}
	for tok := range movedItem {
		u.MovedItems = append(u.MovedItems, apis.ItemMove{From: tx.preItems[tok], To: postItems[tok]})
	}
	for tok, to := range postItems {
		if !survivingPost(to.Section) {
			continue
		}
		from, ok := tx.preItems[tok]
		if !ok || !surviving(from.Section) {
			u.InsertedItems = append(u.InsertedItems, to)
		}
	}
	for tok := range tx.updatedItems {
		from, ok := tx.preItems[tok]
		if !ok || movedItem[tok] || !surviving(from.Section) {
			continue
		}
		if to, alive := postItems[tok]; alive && survivingPost(to.Section) {
			u.UpdatedItems = append(u.UpdatedItems, from)
		}
	}

	slices.Sort(u.DeletedSections)
	slices.Sort(u.InsertedSections)
	slices.Sort(u.UpdatedSections)
	slices.SortFunc(u.MovedSections, func(a, b apis.SectionMove) int { return cmp.Compare(a.From, b.From) })
	sortPositions(u.DeletedItems)
	sortPositions(u.InsertedItems)
	sortPositions(u.UpdatedItems)
	slices.SortFunc(u.MovedItems, func(a, b apis.ItemMove) int { return comparePositions(a.From, b.From) })
	return u
}

// sameOrder reports whether the tokens selected by keep appear in the same
// order in pre and in post.
func sameOrder(pre, post []uint64, keep func(uint64) bool) bool {
	i := 0
	for _, tok := range pre {
		if !keep(tok) {
			continue
		}
		for i < len(post) && !keep(post[i]) {
			i++
		}
		if i == len(post) || post[i] != tok {
			return false
		}
		i++
	}
	for ; i < len(post); i++ {
		if keep(post[i]) {
			return false
		}
	}
	return true
}

// sameSlot reports whether from (pre) and to (post) address the same section
// at the same item index, i.e. the slot moved away and came back.
func sameSlot(pre []uint64, post []*Section, from, to apis.Position) bool {
	return from.Item == to.Item && pre[from.Section] == post[to.Section].token
}

func hasToken(set map[uint64]struct{}, tok uint64) bool {
	_, ok := set[tok]
	return ok
}

func comparePositions(a, b apis.Position) int {
	if c := cmp.Compare(a.Section, b.Section); c != 0 {
		return c
	}
	return cmp.Compare(a.Item, b.Item)
}

func sortPositions(ps []apis.Position) {
	slices.SortFunc(ps, comparePositions)
}
